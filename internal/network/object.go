package network

import (
	"fmt"
	"strings"
)

// ObjectType classifies what a network object represents.
type ObjectType string

const (
	ObjectTypeUnknown           ObjectType = "UNKNOWN"
	ObjectTypePipe              ObjectType = "PIPE"
	ObjectTypeDuct              ObjectType = "DUCT"
	ObjectTypeConduitBank       ObjectType = "CONDUIT_BANK"
	ObjectTypeGutter            ObjectType = "GUTTER"
	ObjectTypeShaft             ObjectType = "SHAFT"
	ObjectTypeShaftRound        ObjectType = "SHAFT_ROUND"
	ObjectTypeShaftRectangular  ObjectType = "SHAFT_RECTANGULAR"
	ObjectTypeShaftSpecial      ObjectType = "SHAFT_SPECIAL"
	ObjectTypeValve             ObjectType = "VALVE"
	ObjectTypeDistributionBoard ObjectType = "DISTRIBUTION_BOARD"
	ObjectTypeConsumer          ObjectType = "CONSUMER"
	ObjectTypeMast              ObjectType = "MAST"
)

// IsShaft reports whether the type is one of the shaft variants.
func (t ObjectType) IsShaft() bool {
	return strings.Contains(strings.ToLower(string(t)), "shaft")
}

// DefaultGeometry returns the geometry objects of this type carry, or ""
// when the type does not determine it.
func (t ObjectType) DefaultGeometry() Geometry {
	switch t {
	case ObjectTypePipe, ObjectTypeDuct, ObjectTypeConduitBank, ObjectTypeGutter:
		return GeometryLine
	case ObjectTypeShaft, ObjectTypeShaftRound, ObjectTypeShaftRectangular, ObjectTypeShaftSpecial,
		ObjectTypeValve, ObjectTypeDistributionBoard, ObjectTypeConsumer, ObjectTypeMast:
		return GeometryPoint
	default:
		return ""
	}
}

// Geometry is the kind of geometry an object carries.
type Geometry string

const (
	// GeometryPoint marks shafts, manholes and other single-point objects.
	GeometryPoint Geometry = "point"
	// GeometryLine marks pipelines and ducts.
	GeometryLine Geometry = "line"
)

// Shape tags the active variant of a Dimension.
type Shape string

const (
	ShapeUnknown     Shape = "UNKNOWN"
	ShapeRound       Shape = "ROUND"
	ShapeRectangular Shape = "RECTANGULAR"
)

// Dimension is the cross-section of an object. Only the fields belonging to
// Shape are meaningful: Diameter for round, Width and Depth for rectangular.
type Dimension struct {
	Shape    Shape   `json:"shape"`
	Diameter float64 `json:"diameter,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Depth    float64 `json:"depth,omitempty"`
}

// Round returns a round cross-section.
func Round(diameter float64) Dimension {
	return Dimension{Shape: ShapeRound, Diameter: diameter}
}

// Rectangular returns a rectangular cross-section.
func Rectangular(width, depth float64) Dimension {
	return Dimension{Shape: ShapeRectangular, Width: width, Depth: depth}
}

// Height returns the vertical extent of the cross-section, 0 when unknown.
func (d Dimension) Height() float64 {
	switch d.Shape {
	case ShapeRound:
		return d.Diameter
	case ShapeRectangular:
		return d.Depth
	default:
		return 0
	}
}

// Object is a single network element as delivered by the extraction stage.
//
// The adjuster borrows line-based objects and rewrites the Altitude of their
// points in place. Callers must not read or write the same object
// concurrently with an adjustment pass.
type Object struct {
	ID        string     `json:"id"`
	Medium    string     `json:"medium"`
	Type      ObjectType `json:"object_type"`
	Geometry  Geometry   `json:"geometry,omitempty"`
	Layer     string     `json:"layer,omitempty"`
	Family    string     `json:"family,omitempty"`
	Dimension Dimension  `json:"dimension"`
	Points    []Point3D  `json:"points"`
}

// Kind returns the effective geometry: the explicit Geometry, else the one
// implied by Type, else the one implied by the point count.
func (o *Object) Kind() Geometry {
	if o.Geometry != "" {
		return o.Geometry
	}
	if g := o.Type.DefaultGeometry(); g != "" {
		return g
	}
	switch {
	case len(o.Points) == 1:
		return GeometryPoint
	case len(o.Points) > 1:
		return GeometryLine
	default:
		return ""
	}
}

// IsPointBased reports whether the object is a single-point object.
func (o *Object) IsPointBased() bool {
	return o.Kind() == GeometryPoint
}

// IsLineBased reports whether the object is a polyline object.
func (o *Object) IsLineBased() bool {
	return o.Kind() == GeometryLine
}

// Start returns the first point. It panics on an object without points;
// call Validate first.
func (o *Object) Start() Point3D {
	return o.Points[0]
}

// End returns the last point.
func (o *Object) End() Point3D {
	return o.Points[len(o.Points)-1]
}

// Validate checks the geometry invariants of the object.
func (o *Object) Validate() error {
	switch {
	case o.Geometry != "" && o.Geometry != GeometryPoint && o.Geometry != GeometryLine:
		return fmt.Errorf("%w: object %s has unknown geometry %q", ErrMalformedObject, o.ID, o.Geometry)
	case len(o.Points) == 0:
		return fmt.Errorf("%w: object %s has no points", ErrMalformedObject, o.ID)
	case o.IsPointBased() && len(o.Points) != 1:
		return fmt.Errorf("%w: point-based object %s has %d points", ErrMalformedObject, o.ID, len(o.Points))
	case o.IsLineBased() && len(o.Points) < 2:
		return fmt.Errorf("%w: line-based object %s has %d point(s)", ErrMalformedObject, o.ID, len(o.Points))
	}

	for i, p := range o.Points {
		if !p.IsFinite() {
			return fmt.Errorf("%w: object %s point %d", ErrNonFiniteCoordinate, o.ID, i)
		}
	}
	return nil
}

// Altitudes returns a copy of the point altitudes in order.
func (o *Object) Altitudes() []float64 {
	out := make([]float64, len(o.Points))
	for i, p := range o.Points {
		out[i] = p.Altitude
	}
	return out
}
