package compatibility

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genMedium produces two-token medium names such as "Abc Xyz".
func genMedium() gopter.Gen {
	return gopter.CombineGens(gen.AlphaString(), gen.AlphaString()).Map(func(v []interface{}) string {
		return v[0].(string) + " " + v[1].(string)
	})
}

func TestCompatibilityLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	prefix, _ := NewPrefix(DefaultSeparator)
	explicit, _ := NewExplicitRules(map[string][]string{"Abwasser Gemeinde": {"Abwasser Privat"}})
	pattern, _ := NewPattern(testPatternGroups())
	strategies := []Strategy{prefix, explicit, pattern}

	properties.Property("every strategy is reflexive", prop.ForAll(
		func(m string) bool {
			for _, s := range strategies {
				if !s.AreCompatible(m, m) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("prefix compatibility is symmetric", prop.ForAll(
		func(a, b string) bool {
			return prefix.AreCompatible(a, b) == prefix.AreCompatible(b, a)
		},
		genMedium(),
		genMedium(),
	))

	properties.Property("prefix compatibility depends only on the leading token", prop.ForAll(
		func(token, restA, restB string) bool {
			return prefix.AreCompatible(token+" "+restA, token+" "+restB)
		},
		gen.AlphaString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("pattern compatibility agrees with group identity", prop.ForAll(
		func(a, b string) bool {
			if a == b {
				return pattern.AreCompatible(a, b)
			}
			_, okA := pattern.lookup(a)
			_, okB := pattern.lookup(b)
			want := okA && okB && pattern.Group(a) == pattern.Group(b)
			return pattern.AreCompatible(a, b) == want
		},
		genMedium(),
		genMedium(),
	))

	properties.TestingRun(t)
}
