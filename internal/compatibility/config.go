package compatibility

import (
	"fmt"
	"sort"
)

// Strategy names accepted by FromConfig.
const (
	StrategyPrefix   = "prefix"
	StrategyExplicit = "explicit"
	StrategyPattern  = "pattern"
)

// Config selects and parameterizes a strategy. Rules is kept untyped so that
// tables decoded from YAML or TOML can be checked for non-string entries.
type Config struct {
	Strategy  string         `koanf:"strategy" json:"strategy" validate:"omitempty,oneof=prefix explicit pattern"`
	Separator string         `koanf:"separator" json:"separator,omitempty"`
	Rules     map[string]any `koanf:"rules" json:"rules,omitempty"`
	Patterns  []PatternGroup `koanf:"patterns" json:"patterns,omitempty"`
}

// DefaultConfig returns the prefix strategy split on a single space.
func DefaultConfig() Config {
	return Config{Strategy: StrategyPrefix, Separator: DefaultSeparator}
}

// FromConfig builds the configured strategy. Any malformed table yields a
// *ConfigError wrapping ErrInvalidConfiguration.
func FromConfig(cfg Config) (Strategy, error) {
	switch cfg.Strategy {
	case "", StrategyPrefix:
		sep := cfg.Separator
		if sep == "" {
			sep = DefaultSeparator
		}
		return NewPrefix(sep)
	case StrategyExplicit:
		rules, err := parseRules(cfg.Rules)
		if err != nil {
			return nil, err
		}
		return NewExplicitRules(rules)
	case StrategyPattern:
		return NewPattern(cfg.Patterns)
	default:
		return nil, configErr("strategy", "unknown strategy %q", cfg.Strategy)
	}
}

func parseRules(raw map[string]any) (map[string][]string, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make(map[string][]string, len(raw))
	for _, medium := range keys {
		field := "rules." + medium
		switch v := raw[medium].(type) {
		case []string:
			rules[medium] = v
		case []any:
			list := make([]string, 0, len(v))
			for i, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, configErr(field, "entry %d must be a string, got %T", i, item)
				}
				list = append(list, s)
			}
			rules[medium] = list
		case nil:
			rules[medium] = nil
		default:
			return nil, configErr(field, "must be a list of medium names, got %s", describeType(v))
		}
	}
	return rules, nil
}

func describeType(v any) string {
	if _, ok := v.(map[string]any); ok {
		return "a nested table (medium names must not contain the key delimiter)"
	}
	return fmt.Sprintf("%T", v)
}
