package compatibility

import (
	"fmt"
	"strings"
)

// PatternGroup names a set of medium patterns. A pattern either matches a
// medium exactly or, with a trailing "*", matches any medium starting with
// the text before it. Matching ignores case.
type PatternGroup struct {
	Name     string   `koanf:"group" json:"group"`
	Patterns []string `koanf:"match" json:"match"`
}

// Pattern resolves mediums to the first group with a matching pattern.
// Groups are tried in the order given.
//
// A medium that matches no pattern is its own group: Group returns it
// unchanged, so two unmatched mediums are compatible only when their names
// are identical.
type Pattern struct {
	groups []PatternGroup
}

// NewPattern validates groups and returns a pattern strategy. Group names
// must be unique and non-empty; "*" is only allowed as the last character.
func NewPattern(groups []PatternGroup) (*Pattern, error) {
	seen := make(map[string]bool, len(groups))
	copied := make([]PatternGroup, 0, len(groups))
	for i, g := range groups {
		if strings.TrimSpace(g.Name) == "" {
			return nil, configErr(fmt.Sprintf("patterns[%d].group", i), "must not be empty")
		}
		if seen[g.Name] {
			return nil, configErr(fmt.Sprintf("patterns[%d].group", i), "duplicate group %q", g.Name)
		}
		seen[g.Name] = true
		if len(g.Patterns) == 0 {
			return nil, configErr(fmt.Sprintf("patterns[%d].match", i), "group %q lists no patterns", g.Name)
		}

		for j, p := range g.Patterns {
			field := fmt.Sprintf("patterns[%d].match[%d]", i, j)
			if p == "" {
				return nil, configErr(field, "must not be empty")
			}
			if idx := strings.Index(p, "*"); idx >= 0 && idx != len(p)-1 {
				return nil, configErr(field, "wildcard only supported as trailing character in %q", p)
			}
		}
		copied = append(copied, PatternGroup{Name: g.Name, Patterns: append([]string(nil), g.Patterns...)})
	}
	return &Pattern{groups: copied}, nil
}

func matches(medium, pattern string) bool {
	m := strings.ToLower(medium)
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(m, strings.ToLower(prefix))
	}
	return m == strings.ToLower(pattern)
}

func (p *Pattern) lookup(medium string) (string, bool) {
	for _, g := range p.groups {
		for _, pattern := range g.Patterns {
			if matches(medium, pattern) {
				return g.Name, true
			}
		}
	}
	return "", false
}

func (p *Pattern) AreCompatible(a, b string) bool {
	if a == b {
		return true
	}
	ga, okA := p.lookup(a)
	gb, okB := p.lookup(b)
	return okA && okB && ga == gb
}

func (p *Pattern) Group(medium string) string {
	if g, ok := p.lookup(medium); ok {
		return g
	}
	return medium
}

func (p *Pattern) Describe(a, b string) string {
	switch {
	case a == b:
		return fmt.Sprintf("exact match (%s)", a)
	case p.AreCompatible(a, b):
		g, _ := p.lookup(a)
		return fmt.Sprintf("pattern group '%s' (%s <-> %s)", g, a, b)
	default:
		return fmt.Sprintf("different groups (%s x %s)", a, b)
	}
}

func (p *Pattern) Name() string { return "pattern" }
