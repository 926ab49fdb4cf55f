package network

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point3D is a position in projected coordinates, all values in meters.
// East and North come from the drawing, Altitude from the terrain model
// or an upstream correction.
type Point3D struct {
	East     float64 `json:"east"`
	North    float64 `json:"north"`
	Altitude float64 `json:"altitude"`
}

// Planar returns the horizontal projection of p.
func (p Point3D) Planar() orb.Point {
	return orb.Point{p.East, p.North}
}

// DistanceXY returns the horizontal distance to other, ignoring altitude.
func (p Point3D) DistanceXY(other Point3D) float64 {
	return planar.Distance(p.Planar(), other.Planar())
}

// WithAltitude returns a copy of p at the given altitude.
func (p Point3D) WithAltitude(altitude float64) Point3D {
	p.Altitude = altitude
	return p
}

// IsFinite reports whether all coordinates are finite numbers.
func (p Point3D) IsFinite() bool {
	return isFinite(p.East) && isFinite(p.North) && isFinite(p.Altitude)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
