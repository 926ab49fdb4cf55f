package network

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// DecodeObjects reads a JSON array of objects. Objects without an ID are
// assigned a random UUID so that adjustments and diagnostics can reference
// them. Geometry is not validated here; the adjuster reports malformed
// objects individually instead of rejecting the whole collection.
func DecodeObjects(r io.Reader) ([]*Object, error) {
	var objects []*Object
	dec := json.NewDecoder(r)
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("decoding network objects: %w", err)
	}
	AssignIDs(objects)
	return objects, nil
}

// AssignIDs gives every object without an ID a random UUID.
func AssignIDs(objects []*Object) {
	for _, obj := range objects {
		if obj != nil && obj.ID == "" {
			obj.ID = uuid.NewString()
		}
	}
}

// EncodeObjects writes objects as an indented JSON array.
func EncodeObjects(w io.Writer, objects []*Object) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(objects); err != nil {
		return fmt.Errorf("encoding network objects: %w", err)
	}
	return nil
}
