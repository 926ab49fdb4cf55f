package gradient

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/pipegrade/internal/compatibility"
	"github.com/fyrsmithlabs/pipegrade/internal/logging"
	"github.com/fyrsmithlabs/pipegrade/internal/network"
)

// CoverHeight is the depth from a shaft cover down to the invert of the
// lowest compatible pipe connected to it.
type CoverHeight struct {
	Shaft          *network.Object
	ConnectedPipes []*network.Object
	LowestPipe     *network.Object

	CoverElevation      float64
	LowestPipeElevation float64
	HeightDifference    float64
	// ShaftHeight is HeightDifference raised to Params.MinShaftHeight.
	ShaftHeight         float64
	MediumCompatibility string
}

// CoverHeights computes a CoverHeight for every valid shaft that has at
// least one compatible pipe endpoint within the search radius. Pipe
// inverts are the altitude of the endpoint nearer to the shaft minus the
// pipe's dimension height. Objects are not modified.
func (a *Adjuster) CoverHeights(ctx context.Context, objects []*network.Object) []CoverHeight {
	started := time.Now()
	ctx = logging.WithRunID(ctx, newRunID())
	ctx, span := a.tracer.Start(ctx, "gradient.CoverHeights")
	defer span.End()

	var shafts, pipes []*network.Object
	for _, o := range objects {
		if o == nil || o.Validate() != nil {
			continue
		}
		switch {
		case o.IsPointBased() && o.Type.IsShaft():
			shafts = append(shafts, o)
		case o.IsLineBased():
			pipes = append(pipes, o)
		}
	}

	var out []CoverHeight
	for _, shaft := range shafts {
		if ch, ok := a.coverHeight(shaft, pipes); ok {
			out = append(out, ch)
		}
	}

	if a.metrics != nil {
		a.metrics.Duration.WithLabelValues("cover_heights").Observe(time.Since(started).Seconds())
	}
	a.logger.Info(ctx, "cover heights computed",
		zap.Int("shafts", len(shafts)),
		zap.Int("with_connections", len(out)))
	return out
}

func (a *Adjuster) coverHeight(shaft *network.Object, pipes []*network.Object) (CoverHeight, bool) {
	center := shaft.Start()
	radius := a.params.ManholeSearchRadius

	ch := CoverHeight{Shaft: shaft, CoverElevation: center.Altitude}
	var mediums []string
	seen := make(map[string]bool)

	for _, p := range pipes {
		if !a.strategy.AreCompatible(shaft.Medium, p.Medium) {
			continue
		}
		dStart := HorizontalDistance(center, p.Start())
		dEnd := HorizontalDistance(center, p.End())
		if dStart > radius && dEnd > radius {
			continue
		}
		near := p.Start()
		if dEnd < dStart {
			near = p.End()
		}
		invert := near.Altitude - p.Dimension.Height()

		ch.ConnectedPipes = append(ch.ConnectedPipes, p)
		if ch.LowestPipe == nil || invert < ch.LowestPipeElevation {
			ch.LowestPipe = p
			ch.LowestPipeElevation = invert
		}
		if !seen[p.Medium] {
			seen[p.Medium] = true
			mediums = append(mediums, p.Medium)
		}
	}
	if ch.LowestPipe == nil {
		return CoverHeight{}, false
	}

	ch.HeightDifference = ch.CoverElevation - ch.LowestPipeElevation
	ch.ShaftHeight = max(a.params.MinShaftHeight, ch.HeightDifference)

	descs := make([]string, len(mediums))
	for i, m := range mediums {
		descs[i] = compatibility.Describe(a.strategy, shaft.Medium, m)
	}
	ch.MediumCompatibility = strings.Join(descs, "; ")
	return ch, true
}
