package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onbo-ai/onbo/internal/configdoc"
)

func twoSectionSchema() configdoc.OnboardingSchema {
	return configdoc.OnboardingSchema{
		Sections: []configdoc.Section{
			{
				Section: "Identity",
				Datapoints: []configdoc.Datapoint{
					{Name: "full_name", Format: "text", Instructions: "The user's full name"},
				},
			},
			{
				Section: "Company",
				Datapoints: []configdoc.Datapoint{
					{Name: "company_size", Format: "choice", Instructions: "Headcount", Options: []string{"1-10", "11-50"}},
				},
			},
		},
	}
}

func TestBuildSystemPromptRendersSchemaInOrder(t *testing.T) {
	prompt := BuildSystemPrompt(configdoc.AgentConfig{}, twoSectionSchema())

	assert.Contains(t, prompt, "Section: Identity")
	assert.Contains(t, prompt, "Section: Company")

	// Per datapoint: name, format, instructions, in that order.
	nameIdx := strings.Index(prompt, "Name: full_name")
	formatIdx := strings.Index(prompt, "Format: text")
	instrIdx := strings.Index(prompt, "Instructions: The user's full name")
	require.True(t, nameIdx >= 0 && formatIdx >= 0 && instrIdx >= 0)
	assert.Less(t, nameIdx, formatIdx)
	assert.Less(t, formatIdx, instrIdx)

	// Sections render in configured order.
	assert.Less(t, strings.Index(prompt, "Section: Identity"), strings.Index(prompt, "Section: Company"))
}

func TestBuildSystemPromptOptionsLineOnlyWhenDeclared(t *testing.T) {
	prompt := BuildSystemPrompt(configdoc.AgentConfig{}, twoSectionSchema())

	assert.Contains(t, prompt, "Options: 1-10, 11-50")
	// full_name declares no options, so exactly one options line renders.
	assert.Equal(t, 1, strings.Count(prompt, "Options:"))
}

func TestBuildSystemPromptPersonalityShapes(t *testing.T) {
	schema := configdoc.OnboardingSchema{}

	t.Run("raw text", func(t *testing.T) {
		prompt := BuildSystemPrompt(configdoc.AgentConfig{
			Personality: configdoc.Personality{Text: "Dry wit, straight answers"},
		}, schema)
		assert.Contains(t, prompt, "Dry wit, straight answers\n")
	})

	t.Run("trait list", func(t *testing.T) {
		prompt := BuildSystemPrompt(configdoc.AgentConfig{
			Personality: configdoc.Personality{Traits: []string{"Curious", "Patient"}},
		}, schema)
		assert.Contains(t, prompt, "- Curious\n- Patient\n")
	})

	t.Run("empty falls back to fixed bullet", func(t *testing.T) {
		prompt := BuildSystemPrompt(configdoc.AgentConfig{}, schema)
		assert.Contains(t, prompt, "- Friendly and professional\n")
	})
}

func TestBuildSystemPromptContext(t *testing.T) {
	schema := configdoc.OnboardingSchema{}

	prompt := BuildSystemPrompt(configdoc.AgentConfig{
		Context: []string{"fact one", "fact two"},
	}, schema)
	assert.Contains(t, prompt, "- fact one\n- fact two\n")

	empty := BuildSystemPrompt(configdoc.AgentConfig{}, schema)
	assert.Contains(t, empty, "CONTEXT:\n-\n")
}

func TestBuildSystemPromptIsDeterministic(t *testing.T) {
	cfg := configdoc.DefaultAgentConfig()
	schema := configdoc.DefaultOnboardingSchema()

	first := BuildSystemPrompt(cfg, schema)
	second := BuildSystemPrompt(cfg, schema)
	assert.Equal(t, first, second, "identical inputs must yield byte-identical output")
}
