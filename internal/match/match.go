// Package match maps classifier keywords to the community members whose
// registered skills intersect them.
package match

import (
	"strings"

	"github.com/jonathan/skillcast/internal/store"
)

// Mode selects how a keyword is compared against a member's skills text.
type Mode int

const (
	// ModeSubstring includes a member when a lower-cased keyword appears
	// anywhere inside their lower-cased skills text. This is the historical
	// behavior: a keyword like "go" also matches inside "algorithm". Whether
	// that over-matching is wanted is a product question; ModeToken is the
	// stricter alternative.
	ModeSubstring Mode = iota
	// ModeToken includes a member only when a keyword equals one of their
	// comma-separated skill terms after trimming and lower-casing.
	ModeToken
)

// Members returns the deduplicated set of member IDs whose skills intersect
// the keyword list. Output order is not specified. Empty inputs yield an
// empty result; profiles without a member ID are skipped.
func Members(profiles []store.MemberProfile, keywords []string, mode Mode) []string {
	if len(profiles) == 0 || len(keywords) == 0 {
		return []string{}
	}

	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}

	matched := make([]string, 0)
	seen := make(map[string]struct{})
	for _, profile := range profiles {
		if profile.MemberID == "" {
			continue
		}
		if _, dup := seen[profile.MemberID]; dup {
			continue
		}
		if profileMatches(profile.Skills, lowered, mode) {
			seen[profile.MemberID] = struct{}{}
			matched = append(matched, profile.MemberID)
		}
	}

	return matched
}

func profileMatches(skills string, keywords []string, mode Mode) bool {
	if mode == ModeToken {
		terms := tokenSet(skills)
		for _, keyword := range keywords {
			if _, ok := terms[keyword]; ok {
				return true
			}
		}
		return false
	}

	haystack := strings.ToLower(skills)
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

// tokenSet splits a comma-separated skills string into normalized terms.
func tokenSet(skills string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, term := range strings.Split(skills, ",") {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			terms[term] = struct{}{}
		}
	}
	return terms
}
