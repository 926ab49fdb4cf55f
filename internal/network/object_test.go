package network

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoint3D_DistanceXY(t *testing.T) {
	tests := []struct {
		name string
		a, b Point3D
		want float64
	}{
		{"ignores altitude", Point3D{0, 0, 100}, Point3D{3, 4, 0}, 5},
		{"same position", Point3D{1, 1, 10}, Point3D{1, 1, 20}, 0},
		{"negative coordinates", Point3D{-1, -1, 0}, Point3D{2, 3, 0}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.DistanceXY(tt.b), 1e-12)
			assert.InDelta(t, tt.want, tt.b.DistanceXY(tt.a), 1e-12)
		})
	}
}

func TestPoint3D_WithAltitude(t *testing.T) {
	p := Point3D{East: 1, North: 2, Altitude: 3}
	q := p.WithAltitude(7)

	assert.Equal(t, 3.0, p.Altitude, "original must be unchanged")
	assert.Equal(t, Point3D{East: 1, North: 2, Altitude: 7}, q)
}

func TestObject_Kind(t *testing.T) {
	shaft := &Object{Points: []Point3D{{0, 0, 100}}}
	assert.True(t, shaft.IsPointBased())
	assert.False(t, shaft.IsLineBased())

	pipe := &Object{Points: []Point3D{{0, 0, 100}, {10, 0, 99}}}
	assert.False(t, pipe.IsPointBased())
	assert.True(t, pipe.IsLineBased())

	explicit := &Object{Geometry: GeometryLine, Points: []Point3D{{0, 0, 100}}}
	assert.True(t, explicit.IsLineBased(), "explicit geometry wins over point count")

	stub := &Object{Type: ObjectTypePipe, Points: []Point3D{{0, 0, 500}}}
	assert.True(t, stub.IsLineBased(), "pipe type is line-based regardless of point count")
	assert.False(t, stub.IsPointBased())

	valve := &Object{Type: ObjectTypeValve, Points: []Point3D{{0, 0, 1}, {1, 0, 1}}}
	assert.True(t, valve.IsPointBased())

	typed := &Object{Type: ObjectTypeShaft, Geometry: GeometryLine, Points: []Point3D{{0, 0, 1}, {1, 0, 1}}}
	assert.True(t, typed.IsLineBased(), "explicit geometry wins over type")
}

func TestObjectType_DefaultGeometry(t *testing.T) {
	tests := map[ObjectType]Geometry{
		ObjectTypePipe:             GeometryLine,
		ObjectTypeDuct:             GeometryLine,
		ObjectTypeConduitBank:      GeometryLine,
		ObjectTypeGutter:           GeometryLine,
		ObjectTypeShaft:            GeometryPoint,
		ObjectTypeShaftRectangular: GeometryPoint,
		ObjectTypeValve:            GeometryPoint,
		ObjectTypeMast:             GeometryPoint,
		ObjectTypeUnknown:          "",
		"":                         "",
	}
	for typ, want := range tests {
		assert.Equal(t, want, typ.DefaultGeometry(), string(typ))
	}
}

func TestObject_Validate(t *testing.T) {
	tests := []struct {
		name    string
		obj     *Object
		wantErr error
	}{
		{
			name: "valid shaft",
			obj:  &Object{ID: "s1", Points: []Point3D{{0, 0, 100}}},
		},
		{
			name: "valid pipe",
			obj:  &Object{ID: "p1", Points: []Point3D{{0, 0, 100}, {5, 0, 99}, {10, 0, 98}}},
		},
		{
			name:    "no points",
			obj:     &Object{ID: "x"},
			wantErr: ErrMalformedObject,
		},
		{
			name:    "line with one point",
			obj:     &Object{ID: "p2", Geometry: GeometryLine, Points: []Point3D{{0, 0, 100}}},
			wantErr: ErrMalformedObject,
		},
		{
			name:    "pipe type with one point",
			obj:     &Object{ID: "p5", Type: ObjectTypePipe, Points: []Point3D{{0, 0, 500}}},
			wantErr: ErrMalformedObject,
		},
		{
			name:    "shaft type with two points",
			obj:     &Object{ID: "s4", Type: ObjectTypeShaft, Points: []Point3D{{0, 0, 1}, {1, 0, 1}}},
			wantErr: ErrMalformedObject,
		},
		{
			name:    "point with two points",
			obj:     &Object{ID: "s2", Geometry: GeometryPoint, Points: []Point3D{{0, 0, 1}, {1, 0, 1}}},
			wantErr: ErrMalformedObject,
		},
		{
			name:    "unknown geometry",
			obj:     &Object{ID: "s3", Geometry: "polygon", Points: []Point3D{{0, 0, 1}}},
			wantErr: ErrMalformedObject,
		},
		{
			name:    "NaN altitude",
			obj:     &Object{ID: "p3", Points: []Point3D{{0, 0, math.NaN()}, {1, 0, 1}}},
			wantErr: ErrNonFiniteCoordinate,
		},
		{
			name:    "infinite altitude",
			obj:     &Object{ID: "p4", Points: []Point3D{{0, 0, 1}, {1, 0, math.Inf(-1)}}},
			wantErr: ErrNonFiniteCoordinate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obj.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDimension_Height(t *testing.T) {
	assert.Equal(t, 0.3, Round(0.3).Height())
	assert.Equal(t, 0.5, Rectangular(1.2, 0.5).Height())
	assert.Equal(t, 0.0, Dimension{}.Height())
	assert.Equal(t, 0.0, Dimension{Shape: ShapeUnknown, Diameter: 2}.Height())
}

func TestObjectType_IsShaft(t *testing.T) {
	assert.True(t, ObjectTypeShaft.IsShaft())
	assert.True(t, ObjectTypeShaftRound.IsShaft())
	assert.True(t, ObjectTypeShaftSpecial.IsShaft())
	assert.False(t, ObjectTypePipe.IsShaft())
	assert.False(t, ObjectTypeMast.IsShaft())
}

func TestDecodeObjects(t *testing.T) {
	input := `[
		{"medium": "Abwasser Gemeinde", "object_type": "SHAFT", "dimension": {"shape": "ROUND", "diameter": 1.0},
		 "points": [{"east": 0, "north": 0, "altitude": 100}]},
		{"id": "pipe-1", "medium": "Abwasser Gemeinde", "object_type": "PIPE", "geometry": "line",
		 "dimension": {"shape": "RECTANGULAR", "width": 0.4, "depth": 0.3},
		 "points": [{"east": 1, "north": 0, "altitude": 99.5}, {"east": 9, "north": 0, "altitude": 99.0}]}
	]`

	objects, err := DecodeObjects(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, objects, 2)

	_, err = uuid.Parse(objects[0].ID)
	assert.NoError(t, err, "missing IDs are filled with UUIDs")
	assert.Equal(t, "pipe-1", objects[1].ID)
	assert.Equal(t, ShapeRound, objects[0].Dimension.Shape)
	assert.Equal(t, 0.3, objects[1].Dimension.Height())
	assert.True(t, objects[1].IsLineBased())

	var buf bytes.Buffer
	require.NoError(t, EncodeObjects(&buf, objects))
	assert.Contains(t, buf.String(), `"id": "pipe-1"`)
	assert.Contains(t, buf.String(), `"object_type": "PIPE"`)
}

func TestDecodeObjects_InvalidJSON(t *testing.T) {
	_, err := DecodeObjects(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)
}
