package http

import (
	"github.com/fyrsmithlabs/pipegrade/internal/gradient"
	"github.com/fyrsmithlabs/pipegrade/internal/network"
	"github.com/fyrsmithlabs/pipegrade/internal/report"
)

// ParamsOverride replaces selected gradient parameters for one request.
// Nil fields keep the server's configured value.
type ParamsOverride struct {
	ManholeSearchRadius *float64 `json:"manhole_search_radius" validate:"omitempty,gte=0"`
	MinGradientPercent  *float64 `json:"min_gradient_percent" validate:"omitempty,gt=0,lte=100"`
	ElevationTolerance  *float64 `json:"elevation_tolerance" validate:"omitempty,gte=0"`
	Workers             *int     `json:"workers" validate:"omitempty,gte=0,lte=256"`
	MinShaftHeight      *float64 `json:"min_shaft_height" validate:"omitempty,gte=0"`
}

// Apply returns base with the non-nil fields of o.
func (o *ParamsOverride) Apply(base gradient.Params) gradient.Params {
	if o == nil {
		return base
	}
	if o.ManholeSearchRadius != nil {
		base.ManholeSearchRadius = *o.ManholeSearchRadius
	}
	if o.MinGradientPercent != nil {
		base.MinGradientPercent = *o.MinGradientPercent
	}
	if o.ElevationTolerance != nil {
		base.ElevationTolerance = *o.ElevationTolerance
	}
	if o.Workers != nil {
		base.Workers = *o.Workers
	}
	if o.MinShaftHeight != nil {
		base.MinShaftHeight = *o.MinShaftHeight
	}
	return base
}

// AdjustRequest is the request body for POST /api/v1/adjust.
type AdjustRequest struct {
	Objects []*network.Object `json:"objects" validate:"required"`
	Params  *ParamsOverride   `json:"params,omitempty"`
}

// AdjustResponse is the response body for POST /api/v1/adjust. Objects
// carry the corrected altitudes.
type AdjustResponse struct {
	Objects     []*network.Object       `json:"objects"`
	Report      report.AdjustmentReport `json:"report"`
	Diagnostics []gradient.Diagnostic   `json:"diagnostics"`
}

// CoverHeightRequest is the request body for POST /api/v1/cover-heights.
type CoverHeightRequest struct {
	Objects []*network.Object `json:"objects" validate:"required"`
	Params  *ParamsOverride   `json:"params,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
