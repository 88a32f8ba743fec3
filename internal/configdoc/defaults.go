package configdoc

// DefaultAgentConfig is used when no document service is configured or the
// service is unreachable at startup.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Personality: Personality{Traits: []string{
			"Warm, concise and professional",
			"Asks one question at a time",
			"Never invents data about the user",
		}},
		Context: []string{
			"You are onboarding a new customer for a B2B SaaS product",
			"Collected answers are reviewed by a human before activation",
		},
	}
}

func DefaultOnboardingSchema() OnboardingSchema {
	return OnboardingSchema{
		Sections: []Section{
			{
				Section: "Identity",
				Datapoints: []Datapoint{
					{
						Name:         "full_name",
						Format:       "text",
						Instructions: "The user's full legal name",
					},
					{
						Name:         "work_email",
						Format:       "email",
						Instructions: "Business email address; offer to look up their profile once provided",
					},
				},
			},
			{
				Section: "Company",
				Datapoints: []Datapoint{
					{
						Name:         "company_name",
						Format:       "text",
						Instructions: "Legal or trading name of the company",
					},
					{
						Name:         "company_size",
						Format:       "choice",
						Instructions: "Approximate headcount",
						Options:      []string{"1-10", "11-50", "51-200", "201-1000", "1000+"},
					},
				},
			},
		},
	}
}
