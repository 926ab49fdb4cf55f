package gradient

import (
	"math"

	"github.com/fyrsmithlabs/pipegrade/internal/network"
)

// Classification is the verdict on a single gradient.
type Classification int

const (
	DownhillOK Classification = iota
	TooShallow
	Uphill
)

func (c Classification) String() string {
	switch c {
	case DownhillOK:
		return "downhill_ok"
	case TooShallow:
		return "too_shallow"
	case Uphill:
		return "uphill"
	default:
		return "unknown"
	}
}

// HorizontalDistance ignores altitude.
func HorizontalDistance(a, b network.Point3D) float64 {
	return a.DistanceXY(b)
}

// CumulativeDistances returns, for every point, the horizontal distance
// travelled along the path from the first point.
func CumulativeDistances(points []network.Point3D) []float64 {
	out := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		out[i] = out[i-1] + HorizontalDistance(points[i-1], points[i])
	}
	return out
}

// PathLength is the sum of horizontal segment lengths.
func PathLength(points []network.Point3D) float64 {
	if len(points) < 2 {
		return 0
	}
	cum := CumulativeDistances(points)
	return cum[len(cum)-1]
}

// Percent returns the gradient between two altitudes over a horizontal
// distance. ok is false when the distance is not positive.
func Percent(start, end, horizontal float64) (percent float64, ok bool) {
	if horizontal <= 0 {
		return 0, false
	}
	return (end - start) / horizontal * 100, true
}

// Classify applies the minimum gradient rule. minPct is a positive percentage.
func Classify(percent, minPct float64) Classification {
	switch {
	case percent <= -minPct:
		return DownhillOK
	case percent > 0:
		return Uphill
	default:
		return TooShallow
	}
}

// maxNudges bounds the rounding correction in lowerFrom and raiseFrom.
// Finite inputs settle within a few ulps.
const maxNudges = 64

// lowerFrom returns the altitude a pipeline end must have, given the
// altitude of its upper end, so that the gradient over length is at most -minPct.
// The result is nudged down past floating point rounding so that
// Classify(Percent(high, result, length), minPct) is always DownhillOK.
// ok is false when no finite altitude satisfies the bound.
func lowerFrom(high, length, minPct float64) (float64, bool) {
	if !finite(high, length, minPct) || length <= 0 {
		return 0, false
	}
	low := high - minPct/100*length
	for range maxNudges {
		if !finite(low) {
			return 0, false
		}
		if g, _ := Percent(high, low, length); g <= -minPct {
			return low, true
		}
		low = math.Nextafter(low, math.Inf(-1))
	}
	return 0, false
}

// raiseFrom is the mirror of lowerFrom for a pinned lower end.
func raiseFrom(low, length, minPct float64) (float64, bool) {
	if !finite(low, length, minPct) || length <= 0 {
		return 0, false
	}
	high := low + minPct/100*length
	for range maxNudges {
		if !finite(high) {
			return 0, false
		}
		if g, _ := Percent(high, low, length); g <= -minPct {
			return high, true
		}
		high = math.Nextafter(high, math.Inf(1))
	}
	return 0, false
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
