package compatibility

import (
	"fmt"
	"strings"
)

// DefaultSeparator splits "Regenabwasser Gemeinde" into "Regenabwasser".
const DefaultSeparator = " "

// Prefix treats two mediums as compatible when the text before the first
// separator matches, ignoring case and surrounding whitespace.
type Prefix struct {
	separator string
}

// NewPrefix returns a prefix strategy. An empty separator is rejected.
func NewPrefix(separator string) (*Prefix, error) {
	if separator == "" {
		return nil, configErr("separator", "must not be empty")
	}
	return &Prefix{separator: separator}, nil
}

// Token returns the leading token of medium, or the whole trimmed medium
// when the separator does not occur.
func (p *Prefix) Token(medium string) string {
	head, _, _ := strings.Cut(medium, p.separator)
	return strings.TrimSpace(head)
}

func (p *Prefix) AreCompatible(a, b string) bool {
	if a == b {
		return true
	}
	return strings.EqualFold(p.Token(a), p.Token(b))
}

// Group returns the leading token with its case preserved. Tokens that
// differ only in case are compatible, so callers partitioning by group
// should fold case.
func (p *Prefix) Group(medium string) string {
	return p.Token(medium)
}

func (p *Prefix) Describe(a, b string) string {
	switch {
	case a == b:
		return fmt.Sprintf("exact match (%s)", a)
	case p.AreCompatible(a, b):
		return fmt.Sprintf("compatible prefix (%s <-> %s)", a, b)
	default:
		return fmt.Sprintf("incompatible (%s x %s)", a, b)
	}
}

func (p *Prefix) Name() string { return "prefix" }
