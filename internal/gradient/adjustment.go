package gradient

import (
	"encoding/json"
	"math"

	"github.com/fyrsmithlabs/pipegrade/internal/network"
)

// Case names which anchors constrained a correction.
type Case string

const (
	CaseBothAnchors Case = "both_anchors"
	CaseStartAnchor Case = "start_anchor"
	CaseEndAnchor   Case = "end_anchor"
	CaseNoAnchor    Case = "no_anchor"
)

// Adjustment records one corrected pipeline. It is created once and
// never modified afterwards.
type Adjustment struct {
	Pipeline    *network.Object
	StartAnchor *network.Object
	EndAnchor   *network.Object

	OriginalStart float64
	OriginalEnd   float64
	AdjustedStart float64
	AdjustedEnd   float64

	// CalculatedGradient is the final gradient in percent, negative downhill.
	CalculatedGradient  float64
	Reason              string
	MediumCompatibility string
	Case                Case
	// AnchorOverridden is set when both anchors were found but the end
	// had to be lowered below its manhole to reach the minimum gradient.
	AnchorOverridden bool
}

// StartChange is the signed change of the start altitude.
func (a Adjustment) StartChange() float64 { return a.AdjustedStart - a.OriginalStart }

// EndChange is the signed change of the end altitude.
func (a Adjustment) EndChange() float64 { return a.AdjustedEnd - a.OriginalEnd }

// ElevationChange sums the absolute endpoint changes.
func (a Adjustment) ElevationChange() float64 {
	return math.Abs(a.StartChange()) + math.Abs(a.EndChange())
}

// Result is the outcome of one AdjustGradients pass. Adjustments and
// Diagnostics follow input order.
type Result struct {
	Adjustments []Adjustment
	Diagnostics []Diagnostic
	// Processed counts line-based objects that were examined.
	Processed int
	// Degenerate counts pipelines skipped for zero horizontal length.
	Degenerate int
}

func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ObjectID string `json:"object_id"`
		Medium   string `json:"medium"`
		Error    string `json:"error"`
	}{d.ObjectID, d.Medium, d.Message()})
}
