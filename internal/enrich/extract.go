package enrich

import "strings"

// extractPerson normalizes the upstream payload into a Person. Every field
// is extracted independently through its own precedence chain: a structured
// professional-profile object wins over flat fallback fields, and a missing
// candidate falls through to the next without failing the extraction.
func extractPerson(payload map[string]any) *Person {
	profile := nestedMap(payload, "professional_profile", "profile", "person")

	p := &Person{
		Name:       extractName(profile, payload),
		Title:      firstString(profile, payload, "title", "job_title", "headline"),
		Company:    firstString(profile, payload, "company", "company_name", "organization"),
		ProfileURL: firstString(profile, payload, "linkedin_url", "profile_url", "url"),
		Location:   firstString(profile, payload, "location", "city"),
		Industry:   firstString(profile, payload, "industry"),
	}

	if *p == (Person{}) {
		return nil
	}
	return p
}

func extractName(profile, payload map[string]any) string {
	if v := firstString(profile, payload, "full_name", "name"); v != "" {
		return v
	}
	// Separate first/last fields are the flattest shape the upstream emits.
	for _, m := range []map[string]any{profile, payload} {
		first := stringField(m, "first_name")
		last := stringField(m, "last_name")
		if first != "" || last != "" {
			return strings.TrimSpace(first + " " + last)
		}
	}
	return ""
}

// firstString tries each key against the structured profile first, then the
// flat payload.
func firstString(profile, payload map[string]any, keys ...string) string {
	for _, m := range []map[string]any{profile, payload} {
		for _, k := range keys {
			if v := stringField(m, k); v != "" {
				return v
			}
		}
	}
	return ""
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}

// nestedMap returns the first key holding a JSON object.
func nestedMap(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if nested, ok := m[k].(map[string]any); ok {
			return nested
		}
	}
	return nil
}
