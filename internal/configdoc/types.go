package configdoc

import "encoding/json"

// Document names as stored by the document service.
const (
	AgentDocName      = "agent"
	OnboardingDocName = "onboarding"
)

// Personality is either free text or an ordered list of trait statements.
// The editing surface has produced both shapes over time, so both decode.
type Personality struct {
	Text   string
	Traits []string
}

func (p *Personality) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Text = s
		p.Traits = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	p.Text = ""
	p.Traits = list
	return nil
}

func (p Personality) MarshalJSON() ([]byte, error) {
	if p.Text != "" {
		return json.Marshal(p.Text)
	}
	return json.Marshal(p.Traits)
}

// AgentConfig shapes the agent's voice: who it is and what it knows.
type AgentConfig struct {
	Personality Personality `json:"personality"`
	Context     []string    `json:"context"`
}

// Datapoint is one piece of onboarding data the agent should collect.
// Purely descriptive: rendered into the system prompt, never validated
// against user answers.
type Datapoint struct {
	Name         string   `json:"name"`
	Format       string   `json:"format"`
	Instructions string   `json:"instructions"`
	Options      []string `json:"options,omitempty"`
}

type Section struct {
	Section    string      `json:"section"`
	Datapoints []Datapoint `json:"datapoints"`
}

// OnboardingSchema is an ordered outline of sections and datapoints.
type OnboardingSchema struct {
	Sections []Section `json:"sections"`
}
