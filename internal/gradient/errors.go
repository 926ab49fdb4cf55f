package gradient

import "errors"

var (
	// ErrInvalidParams is returned by NewAdjuster for unusable parameters.
	ErrInvalidParams = errors.New("invalid gradient parameters")

	// ErrNonFiniteLength marks a pipeline whose horizontal length overflows
	// float64 although every coordinate is finite.
	ErrNonFiniteLength = errors.New("pipeline length is not finite")

	// ErrUncorrectable marks a pipeline for which no finite target
	// altitude satisfies the minimum gradient.
	ErrUncorrectable = errors.New("pipeline gradient cannot be corrected")
)

// Diagnostic records a pipeline or anchor that was skipped because its
// data was malformed. Diagnostics never abort a run.
type Diagnostic struct {
	ObjectID string `json:"object_id"`
	Medium   string `json:"medium"`
	Err      error  `json:"-"`
}

// Message returns the error text, or "" when Err is nil.
func (d Diagnostic) Message() string {
	if d.Err == nil {
		return ""
	}
	return d.Err.Error()
}
