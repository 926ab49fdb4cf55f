package report

import (
	"fmt"
	"math"

	"github.com/fyrsmithlabs/pipegrade/internal/gradient"
)

// NoCoverHeightsSummary is the summary of a report without shafts.
const NoCoverHeightsSummary = "No cover height calculations performed"

// CoverHeightEntry describes the depth of one shaft.
type CoverHeightEntry struct {
	ShaftID             string  `json:"shaft_id"`
	ShaftMedium         string  `json:"shaft_medium"`
	ShaftType           string  `json:"shaft_type"`
	CoverElevation      float64 `json:"cover_elevation"`
	LowestPipeID        string  `json:"lowest_pipe_id"`
	LowestPipeMedium    string  `json:"lowest_pipe_medium"`
	LowestPipeElevation float64 `json:"lowest_pipe_elevation"`
	HeightDifference    float64 `json:"height_difference"`
	ShaftHeight         float64 `json:"shaft_height"`
	ConnectedPipes      int     `json:"connected_pipes"`
	MediumCompatibility string  `json:"medium_compatibility"`
}

// HeightStatistics are computed over cover-to-pipe height differences.
type HeightStatistics struct {
	AverageHeight        float64 `json:"average_height"`
	MinHeight            float64 `json:"min_height"`
	MaxHeight            float64 `json:"max_height"`
	TotalPipeConnections int     `json:"total_pipe_connections"`
}

// CoverHeightReport aggregates shaft cover-to-pipe heights.
type CoverHeightReport struct {
	Summary          string             `json:"summary"`
	TotalShafts      int                `json:"total_shafts"`
	HeightStatistics HeightStatistics   `json:"height_statistics"`
	Shafts           []CoverHeightEntry `json:"shafts"`
}

// BuildCoverHeightReport summarizes heights in input order.
func BuildCoverHeightReport(heights []gradient.CoverHeight) CoverHeightReport {
	r := CoverHeightReport{
		Summary: NoCoverHeightsSummary,
		Shafts:  make([]CoverHeightEntry, 0, len(heights)),
	}
	if len(heights) == 0 {
		return r
	}

	stats := HeightStatistics{MinHeight: math.Inf(1), MaxHeight: math.Inf(-1)}
	var sum float64
	for _, h := range heights {
		sum += h.HeightDifference
		stats.MinHeight = min(stats.MinHeight, h.HeightDifference)
		stats.MaxHeight = max(stats.MaxHeight, h.HeightDifference)
		stats.TotalPipeConnections += len(h.ConnectedPipes)

		r.Shafts = append(r.Shafts, CoverHeightEntry{
			ShaftID:             h.Shaft.ID,
			ShaftMedium:         h.Shaft.Medium,
			ShaftType:           string(h.Shaft.Type),
			CoverElevation:      round(h.CoverElevation, 3),
			LowestPipeID:        h.LowestPipe.ID,
			LowestPipeMedium:    h.LowestPipe.Medium,
			LowestPipeElevation: round(h.LowestPipeElevation, 3),
			HeightDifference:    round(h.HeightDifference, 3),
			ShaftHeight:         round(h.ShaftHeight, 3),
			ConnectedPipes:      len(h.ConnectedPipes),
			MediumCompatibility: h.MediumCompatibility,
		})
	}
	stats.AverageHeight = round(sum/float64(len(heights)), 3)
	stats.MinHeight = round(stats.MinHeight, 3)
	stats.MaxHeight = round(stats.MaxHeight, 3)

	r.TotalShafts = len(heights)
	r.HeightStatistics = stats
	r.Summary = fmt.Sprintf("Calculated cover heights for %d shafts", r.TotalShafts)
	return r
}
