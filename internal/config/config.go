// Package config loads pipegrade configuration from defaults, an optional
// YAML or TOML file and PIPEGRADE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fyrsmithlabs/pipegrade/internal/compatibility"
	"github.com/fyrsmithlabs/pipegrade/internal/gradient"
	"github.com/fyrsmithlabs/pipegrade/internal/logging"
	"github.com/fyrsmithlabs/pipegrade/internal/telemetry"
)

// Config is the full configuration of the CLI and the HTTP server.
type Config struct {
	Gradient      gradient.Params      `koanf:"gradient" json:"gradient"`
	Compatibility compatibility.Config `koanf:"compatibility" json:"compatibility"`
	Server        ServerConfig         `koanf:"server" json:"server"`
	Logging       logging.Config       `koanf:"logging" json:"logging"`
	Telemetry     telemetry.Config     `koanf:"telemetry" json:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host" json:"host"`
	Port            int           `koanf:"port" json:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout" validate:"gt=0"`
	// RateLimit is the sustained request rate per second; 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit" json:"rate_limit" validate:"gte=0"`
	RateBurst int     `koanf:"rate_burst" json:"rate_burst" validate:"gte=0"`
	// BodyLimit uses echo's size syntax, e.g. "32M".
	BodyLimit string `koanf:"body_limit" json:"body_limit" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Gradient:      gradient.DefaultParams(),
		Compatibility: compatibility.DefaultConfig(),
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8085,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       20,
			RateBurst:       40,
			BodyLimit:       "32M",
		},
		Logging:   *logging.NewDefaultConfig(),
		Telemetry: telemetry.NewDefaultConfig(),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct tag validation and the cross-field checks of each
// section. The compatibility section is validated by building the strategy.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q constraint (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	if err := c.Gradient.Validate(); err != nil {
		return err
	}
	if _, err := compatibility.FromConfig(c.Compatibility); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("server.rate_burst must be >= 1 when rate_limit is set")
	}
	return nil
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
