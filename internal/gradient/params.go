package gradient

import (
	"fmt"
	"math"
)

// Params are the tunables of a gradient run. Distances and altitudes are
// in meters, gradients in percent.
type Params struct {
	ManholeSearchRadius float64 `koanf:"manhole_search_radius" json:"manhole_search_radius" validate:"gte=0"`
	MinGradientPercent  float64 `koanf:"min_gradient_percent" json:"min_gradient_percent" validate:"gt=0,lte=100"`
	// ElevationTolerance is the largest endpoint change treated as no change.
	ElevationTolerance float64 `koanf:"elevation_tolerance" json:"elevation_tolerance" validate:"gte=0"`
	// Workers bounds the number of medium groups processed concurrently.
	// Zero or one means sequential.
	Workers        int     `koanf:"workers" json:"workers" validate:"gte=0,lte=256"`
	MinShaftHeight float64 `koanf:"min_shaft_height" json:"min_shaft_height" validate:"gte=0"`
}

// MaxMinGradientPercent is the steepest minimum gradient accepted, a drop
// of one meter per horizontal meter.
const MaxMinGradientPercent = 100.0

// DefaultParams returns the defaults of the reference workflow.
func DefaultParams() Params {
	return Params{
		ManholeSearchRadius: 5.0,
		MinGradientPercent:  2.0,
		ElevationTolerance:  1e-6,
		Workers:             1,
		MinShaftHeight:      1.0,
	}
}

// Validate rejects negative, zero or non-finite values where they make no sense.
func (p Params) Validate() error {
	check := func(name string, v float64, allowZero bool) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidParams, name)
		}
		if v < 0 || (!allowZero && v == 0) {
			return fmt.Errorf("%w: %s out of range: %g", ErrInvalidParams, name, v)
		}
		return nil
	}
	if err := check("manhole_search_radius", p.ManholeSearchRadius, true); err != nil {
		return err
	}
	if err := check("min_gradient_percent", p.MinGradientPercent, false); err != nil {
		return err
	}
	if p.MinGradientPercent > MaxMinGradientPercent {
		return fmt.Errorf("%w: min_gradient_percent must be <= %g, got %g",
			ErrInvalidParams, MaxMinGradientPercent, p.MinGradientPercent)
	}
	if err := check("elevation_tolerance", p.ElevationTolerance, true); err != nil {
		return err
	}
	if err := check("min_shaft_height", p.MinShaftHeight, true); err != nil {
		return err
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidParams, p.Workers)
	}
	return nil
}
