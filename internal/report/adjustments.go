package report

import (
	"fmt"
	"math"

	"github.com/fyrsmithlabs/pipegrade/internal/gradient"
)

// NoAdjustmentsSummary is the summary of a run that changed nothing.
const NoAdjustmentsSummary = "No pipeline adjustments needed"

// AdjustmentEntry describes one corrected pipeline.
type AdjustmentEntry struct {
	PipelineID             string  `json:"pipeline_id"`
	PipelineMedium         string  `json:"pipeline_medium"`
	PipelineLayer          string  `json:"pipeline_layer,omitempty"`
	GradientPercent        float64 `json:"gradient_percent"`
	Reason                 string  `json:"reason"`
	Case                   string  `json:"case"`
	OriginalStartElevation float64 `json:"original_start_elevation"`
	OriginalEndElevation   float64 `json:"original_end_elevation"`
	AdjustedStartElevation float64 `json:"adjusted_start_elevation"`
	AdjustedEndElevation   float64 `json:"adjusted_end_elevation"`
	StartElevationChange   float64 `json:"start_elevation_change"`
	EndElevationChange     float64 `json:"end_elevation_change"`
	StartAnchorConnected   bool    `json:"start_anchor_connected"`
	EndAnchorConnected     bool    `json:"end_anchor_connected"`
	AnchorOverridden       bool    `json:"anchor_overridden"`
	MediumCompatibility    string  `json:"medium_compatibility"`
}

// AdjustmentReport summarizes one gradient run.
type AdjustmentReport struct {
	Summary                    string            `json:"summary"`
	TotalAdjustments           int               `json:"total_adjustments"`
	MediumGroups               int               `json:"medium_groups"`
	AdjustmentsByMedium        map[string]int    `json:"adjustments_by_medium"`
	TotalElevationChangeMeters float64           `json:"total_elevation_change_meters"`
	AverageGradientPercent     float64           `json:"average_gradient_percent"`
	CompatibilityStrategy      string            `json:"compatibility_strategy,omitempty"`
	Adjustments                []AdjustmentEntry `json:"adjustments"`
}

// BuildAdjustmentReport aggregates adjustments in the given order.
// Elevations are rounded to millimeters, gradients to two decimals.
func BuildAdjustmentReport(adjustments []gradient.Adjustment, strategy string) AdjustmentReport {
	r := AdjustmentReport{
		Summary:               NoAdjustmentsSummary,
		AdjustmentsByMedium:   map[string]int{},
		CompatibilityStrategy: strategy,
		Adjustments:           make([]AdjustmentEntry, 0, len(adjustments)),
	}
	if len(adjustments) == 0 {
		return r
	}

	var totalChange, totalGradient float64
	for _, adj := range adjustments {
		p := adj.Pipeline
		r.AdjustmentsByMedium[p.Medium]++
		totalChange += adj.ElevationChange()
		totalGradient += adj.CalculatedGradient

		r.Adjustments = append(r.Adjustments, AdjustmentEntry{
			PipelineID:             p.ID,
			PipelineMedium:         p.Medium,
			PipelineLayer:          p.Layer,
			GradientPercent:        round(adj.CalculatedGradient, 2),
			Reason:                 adj.Reason,
			Case:                   string(adj.Case),
			OriginalStartElevation: round(adj.OriginalStart, 3),
			OriginalEndElevation:   round(adj.OriginalEnd, 3),
			AdjustedStartElevation: round(adj.AdjustedStart, 3),
			AdjustedEndElevation:   round(adj.AdjustedEnd, 3),
			StartElevationChange:   round(adj.StartChange(), 3),
			EndElevationChange:     round(adj.EndChange(), 3),
			StartAnchorConnected:   adj.StartAnchor != nil,
			EndAnchorConnected:     adj.EndAnchor != nil,
			AnchorOverridden:       adj.AnchorOverridden,
			MediumCompatibility:    adj.MediumCompatibility,
		})
	}

	r.TotalAdjustments = len(adjustments)
	r.MediumGroups = len(r.AdjustmentsByMedium)
	r.TotalElevationChangeMeters = round(totalChange, 3)
	r.AverageGradientPercent = round(totalGradient/float64(len(adjustments)), 2)
	r.Summary = fmt.Sprintf("Adjusted %d pipelines across %d mediums", r.TotalAdjustments, r.MediumGroups)
	return r
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
