package compatibility

import (
	"fmt"
	"slices"
	"strings"
)

// ExplicitRules looks up compatibility in a caller-supplied table. The lookup
// is directional: AreCompatible(a, b) holds when b is listed under a. A
// symmetric relation requires the caller to list both directions.
type ExplicitRules struct {
	rules map[string][]string
}

// NewExplicitRules copies rules into a new strategy. Empty medium names on
// either side of a rule are rejected.
func NewExplicitRules(rules map[string][]string) (*ExplicitRules, error) {
	copied := make(map[string][]string, len(rules))
	for medium, compatible := range rules {
		if strings.TrimSpace(medium) == "" {
			return nil, configErr("rules", "medium name must not be empty")
		}
		for i, other := range compatible {
			if strings.TrimSpace(other) == "" {
				return nil, configErr("rules."+medium, "entry %d must not be empty", i)
			}
		}
		copied[medium] = slices.Clone(compatible)
	}
	return &ExplicitRules{rules: copied}, nil
}

func (r *ExplicitRules) AreCompatible(a, b string) bool {
	if a == b {
		return true
	}
	return slices.Contains(r.rules[a], b)
}

// Group joins the medium and everything listed under it, sorted, with "|".
func (r *ExplicitRules) Group(medium string) string {
	members := append([]string{medium}, r.rules[medium]...)
	slices.Sort(members)
	return strings.Join(slices.Compact(members), "|")
}

func (r *ExplicitRules) Describe(a, b string) string {
	switch {
	case a == b:
		return fmt.Sprintf("exact match (%s)", a)
	case r.AreCompatible(a, b):
		return fmt.Sprintf("explicit rule (%s -> %s)", a, b)
	default:
		return fmt.Sprintf("no rule (%s x %s)", a, b)
	}
}

func (r *ExplicitRules) Name() string { return "explicit" }
