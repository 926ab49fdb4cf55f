package gradient

import (
	"github.com/fyrsmithlabs/pipegrade/internal/compatibility"
	"github.com/fyrsmithlabs/pipegrade/internal/network"
)

// Finder locates the anchor for a pipeline endpoint: the nearest
// point-based object of a compatible medium within the search radius.
type Finder struct {
	strategy compatibility.Strategy
	radius   float64
}

// NewFinder returns a finder matching anchors within radius meters.
func NewFinder(strategy compatibility.Strategy, radius float64) *Finder {
	return &Finder{strategy: strategy, radius: radius}
}

// Nearest scans candidates in order. Non point-based candidates are
// ignored. On equal distance the earlier candidate wins.
func (f *Finder) Nearest(p network.Point3D, medium string, candidates []*network.Object) (*network.Object, bool) {
	var (
		best     *network.Object
		bestDist float64
	)
	for _, c := range candidates {
		if c == nil || !c.IsPointBased() || len(c.Points) != 1 {
			continue
		}
		d := HorizontalDistance(p, c.Start())
		if d > f.radius {
			continue
		}
		if best != nil && d >= bestDist {
			continue
		}
		if !f.strategy.AreCompatible(medium, c.Medium) {
			continue
		}
		best, bestDist = c, d
	}
	return best, best != nil
}
