package nlp

import "strings"

// aliases maps a normalized token or phrase to the spellings it is also
// known under.
var aliases = map[string][]string{
	"postgres":   {"postgresql"},
	"postgresql": {"postgres"},
	"k8s":        {"kubernetes"},
	"kubernetes": {"k8s"},
	"golang":     {"go"},
	"go":         {"golang"},
	"js":         {"javascript"},
	"javascript": {"js"},
	"ts":         {"typescript"},
	"typescript": {"ts"},
	"rest":       {"rest api"},
	"rest api":   {"rest"},
	"ci cd":      {"cicd"},
	"cicd":       {"ci cd"},
}

// Variants returns the normalized spellings a skill may appear under,
// the skill itself first.
func Variants(skill string) []string {
	base := Normalize(skill)
	if base == "" {
		return []string{}
	}
	var out []string
	seen := map[string]struct{}{}
	add := func(s string) {
		if _, ok := seen[s]; ok || s == "" {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(base)
	for _, a := range aliases[base] {
		add(a)
	}
	// "postgres replication" also matches "postgresql replication"
	if parts := strings.Split(base, " "); len(parts) > 1 {
		for i, p := range parts {
			for _, a := range aliases[p] {
				alt := append([]string{}, parts...)
				alt[i] = a
				add(strings.Join(alt, " "))
			}
		}
	}
	return out
}

// MatchSkills splits skills into those text mentions (under any variant)
// and the rest. Both keep the input order; blank skills are skipped.
func MatchSkills(text string, skills []string) (matched, missing []string) {
	hay := Normalize(text)
	for _, s := range skills {
		if strings.TrimSpace(s) == "" {
			continue
		}
		found := false
		for _, v := range Variants(s) {
			if ContainsPhrase(hay, v) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	return matched, missing
}
