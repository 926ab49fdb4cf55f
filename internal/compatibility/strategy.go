// Package compatibility decides which infrastructure networks ("mediums")
// may be physically connected, e.g. a municipal stormwater pipe draining
// into a private stormwater shaft.
//
// Three strategies are provided:
//   - Prefix compares the leading token of the medium name.
//   - ExplicitRules consults a caller-supplied medium -> mediums table.
//   - Pattern resolves mediums to named groups through trailing-wildcard patterns.
//
// Identical medium names are compatible under every strategy.
package compatibility

import "fmt"

// Strategy answers whether two mediums may be connected and which
// compatibility group a medium belongs to.
type Strategy interface {
	AreCompatible(a, b string) bool
	Group(medium string) string
}

// Describer is implemented by strategies that can explain a compatibility
// decision in human-readable form.
type Describer interface {
	Describe(a, b string) string
}

// Namer is implemented by strategies that report a stable name.
type Namer interface {
	Name() string
}

// Describe explains the relation between a and b using s when it implements
// Describer, falling back to a generic text.
func Describe(s Strategy, a, b string) string {
	if d, ok := s.(Describer); ok {
		return d.Describe(a, b)
	}
	switch {
	case a == b:
		return fmt.Sprintf("exact match (%s)", a)
	case s.AreCompatible(a, b):
		return fmt.Sprintf("compatible (%s <-> %s)", a, b)
	default:
		return fmt.Sprintf("incompatible (%s x %s)", a, b)
	}
}

// Name returns the strategy name used in reports.
func Name(s Strategy) string {
	if n, ok := s.(Namer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
