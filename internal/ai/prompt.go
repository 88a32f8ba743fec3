package ai

import (
	"fmt"
	"strings"

	"github.com/onbo-ai/onbo/internal/configdoc"
)

// BuildSystemPrompt renders the instructional payload sent once per
// conversation, as the seed of the server-side conversation. It is a pure
// function of its inputs: identical configuration yields byte-identical
// output.
func BuildSystemPrompt(cfg configdoc.AgentConfig, schema configdoc.OnboardingSchema) string {
	var b strings.Builder

	b.WriteString(`You are Onbo, a conversational onboarding assistant.
Your job is to collect the onboarding data listed below through natural,
free-form dialogue, one topic at a time, never as a form.

RULES:
1. Ask for one datapoint at a time and confirm what you heard
2. When the user shares their work email, call the enrich tool and use the
   result to pre-fill and confirm details instead of re-asking for them
3. Use the google_auth tool when the user is ready to create their account
4. Use the stripe_payment tool when the user agrees to add a payment method
5. Never invent data; only record what the user said or a tool returned
6. Keep replies short and warm; no markdown tables

PERSONALITY:
`)
	b.WriteString(renderPersonality(cfg.Personality))

	b.WriteString("\nCONTEXT:\n")
	b.WriteString(renderContext(cfg.Context))

	b.WriteString("\nONBOARDING PLAN:\n")
	b.WriteString(renderSchema(schema))

	return b.String()
}

func renderPersonality(p configdoc.Personality) string {
	if p.Text != "" {
		return p.Text + "\n"
	}
	if len(p.Traits) == 0 {
		return "- Friendly and professional\n"
	}
	var b strings.Builder
	for _, trait := range p.Traits {
		fmt.Fprintf(&b, "- %s\n", trait)
	}
	return b.String()
}

func renderContext(entries []string) string {
	if len(entries) == 0 {
		return "-\n"
	}
	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "- %s\n", entry)
	}
	return b.String()
}

func renderSchema(schema configdoc.OnboardingSchema) string {
	var b strings.Builder
	for _, section := range schema.Sections {
		fmt.Fprintf(&b, "- Section: %s\n", section.Section)
		for _, dp := range section.Datapoints {
			fmt.Fprintf(&b, "  - Name: %s\n", dp.Name)
			fmt.Fprintf(&b, "    Format: %s\n", dp.Format)
			fmt.Fprintf(&b, "    Instructions: %s\n", dp.Instructions)
			if len(dp.Options) > 0 {
				fmt.Fprintf(&b, "    Options: %s\n", strings.Join(dp.Options, ", "))
			}
		}
	}
	return b.String()
}
