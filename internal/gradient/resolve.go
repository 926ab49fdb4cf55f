package gradient

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/pipegrade/internal/compatibility"
	"github.com/fyrsmithlabs/pipegrade/internal/network"
)

// plan is the resolved target profile of one pipeline.
type plan struct {
	start, end float64
	reason     string
	kind       Case
	overridden bool
}

// resolve picks target endpoint altitudes. ok is false when the pipeline
// has no anchor and already drains correctly. The error wraps
// ErrUncorrectable when the target altitude would not be finite.
//
// With both anchors the start anchor is authoritative and only the end may
// be lowered. With one anchor the anchored end is pinned and the free end
// moves. Without anchors the start is kept and the end lowered, for uphill
// pipelines too, so flow direction stays start to end.
func (a *Adjuster) resolve(start, end float64, startAnchor, endAnchor *network.Object, length float64) (plan, bool, error) {
	minPct := a.params.MinGradientPercent
	lower := func(high float64) (float64, error) {
		v, ok := lowerFrom(high, length, minPct)
		if !ok {
			return 0, fmt.Errorf("%w: lowering %g over %g m at %g%%", ErrUncorrectable, high, length, minPct)
		}
		return v, nil
	}
	raise := func(low float64) (float64, error) {
		v, ok := raiseFrom(low, length, minPct)
		if !ok {
			return 0, fmt.Errorf("%w: raising %g over %g m at %g%%", ErrUncorrectable, low, length, minPct)
		}
		return v, nil
	}

	switch {
	case startAnchor != nil && endAnchor != nil:
		ts, te := startAnchor.Start().Altitude, endAnchor.Start().Altitude
		g, _ := Percent(ts, te, length)
		if cls := Classify(g, minPct); cls != DownhillOK {
			te, err := lower(ts)
			if err != nil {
				return plan{}, false, err
			}
			return plan{
				start:      ts,
				end:        te,
				kind:       CaseBothAnchors,
				overridden: true,
				reason: fmt.Sprintf("Connected to compatible start and end manholes; manhole gradient %.2f%% is %s, end shaft overridden to minimum gradient %.2f%%",
					g, cls, minPct),
			}, true, nil
		}
		return plan{
			start:  ts,
			end:    te,
			kind:   CaseBothAnchors,
			reason: fmt.Sprintf("Connected to compatible start and end manholes (%.2f%% gradient)", g),
		}, true, nil

	case startAnchor != nil:
		ts := startAnchor.Start().Altitude
		g, _ := Percent(ts, end, length)
		if Classify(g, minPct) == DownhillOK {
			return plan{
				start:  ts,
				end:    end,
				kind:   CaseStartAnchor,
				reason: fmt.Sprintf("Pinned start to compatible manhole, kept end elevation (%.2f%% gradient)", g),
			}, true, nil
		}
		te, err := lower(ts)
		if err != nil {
			return plan{}, false, err
		}
		return plan{
			start:  ts,
			end:    te,
			kind:   CaseStartAnchor,
			reason: fmt.Sprintf("Pinned start to compatible manhole, lowered end to minimum gradient %.2f%%", minPct),
		}, true, nil

	case endAnchor != nil:
		te := endAnchor.Start().Altitude
		g, _ := Percent(start, te, length)
		if Classify(g, minPct) == DownhillOK {
			return plan{
				start:  start,
				end:    te,
				kind:   CaseEndAnchor,
				reason: fmt.Sprintf("Pinned end to compatible manhole, kept start elevation (%.2f%% gradient)", g),
			}, true, nil
		}
		ts, err := raise(te)
		if err != nil {
			return plan{}, false, err
		}
		return plan{
			start:  ts,
			end:    te,
			kind:   CaseEndAnchor,
			reason: fmt.Sprintf("Pinned end to compatible manhole, raised start to minimum gradient %.2f%%", minPct),
		}, true, nil
	}

	g, _ := Percent(start, end, length)
	cls := Classify(g, minPct)
	if cls == DownhillOK {
		return plan{}, false, nil
	}
	te, err := lower(start)
	if err != nil {
		return plan{}, false, err
	}
	switch cls {
	case Uphill:
		return plan{
			start:  start,
			end:    te,
			kind:   CaseNoAnchor,
			reason: "Fixed uphill DGM gradient to proper downhill flow",
		}, true, nil
	default:
		return plan{
			start:  start,
			end:    te,
			kind:   CaseNoAnchor,
			reason: fmt.Sprintf("Applied minimum gradient %.2f%% to shallow DGM gradient (%.2f%%)", minPct, g),
		}, true, nil
	}
}

func (a *Adjuster) describeAnchors(medium string, startAnchor, endAnchor *network.Object) string {
	var parts []string
	if startAnchor != nil {
		parts = append(parts, "Start: "+compatibility.Describe(a.strategy, medium, startAnchor.Medium))
	}
	if endAnchor != nil {
		parts = append(parts, "End: "+compatibility.Describe(a.strategy, medium, endAnchor.Medium))
	}
	if len(parts) == 0 {
		return "No compatible manholes found for " + medium
	}
	return strings.Join(parts, "; ")
}
