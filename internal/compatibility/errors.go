package compatibility

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is the sentinel wrapped by every ConfigError.
var ErrInvalidConfiguration = errors.New("invalid compatibility configuration")

// ConfigError describes a malformed compatibility table. It is returned at
// construction time and is fatal to the run.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
