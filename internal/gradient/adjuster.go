package gradient

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/pipegrade/internal/compatibility"
	"github.com/fyrsmithlabs/pipegrade/internal/logging"
	"github.com/fyrsmithlabs/pipegrade/internal/network"
)

// Adjuster corrects pipeline gradients in place.
//
// An Adjuster is immutable after construction and safe for concurrent use,
// but two passes must not share objects.
type Adjuster struct {
	params   Params
	strategy compatibility.Strategy
	finder   *Finder
	logger   *logging.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// Option configures an Adjuster.
type Option func(*Adjuster)

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *logging.Logger) Option {
	return func(a *Adjuster) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics enables Prometheus accounting. Without it no metrics are recorded.
func WithMetrics(m *Metrics) Option {
	return func(a *Adjuster) { a.metrics = m }
}

// WithTracer sets the tracer for run and group spans.
func WithTracer(t trace.Tracer) Option {
	return func(a *Adjuster) {
		if t != nil {
			a.tracer = t
		}
	}
}

// NewAdjuster validates params and binds a compatibility strategy.
// A nil strategy means prefix matching on the first word.
func NewAdjuster(params Params, strategy compatibility.Strategy, opts ...Option) (*Adjuster, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if strategy == nil {
		prefix, err := compatibility.NewPrefix(compatibility.DefaultSeparator)
		if err != nil {
			return nil, err
		}
		strategy = prefix
	}

	a := &Adjuster{
		params:   params,
		strategy: strategy,
		finder:   NewFinder(strategy, params.ManholeSearchRadius),
		logger:   logging.NewNop(),
		tracer:   Tracer(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.Named("gradient")
	return a, nil
}

// Params returns the parameters the adjuster was built with.
func (a *Adjuster) Params() Params { return a.params }

// Strategy returns the compatibility strategy in use.
func (a *Adjuster) Strategy() compatibility.Strategy { return a.strategy }

// WithParams returns a copy of a bound to params. Logger, metrics, tracer
// and strategy are shared with a.
func (a *Adjuster) WithParams(params Params) (*Adjuster, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	c := *a
	c.params = params
	c.finder = NewFinder(a.strategy, params.ManholeSearchRadius)
	return &c, nil
}

func newRunID() string { return uuid.NewString() }

type outcomeKind int

const (
	outcomeNone outcomeKind = iota
	outcomeUnchanged
	outcomeAdjusted
	outcomeDegenerate
	outcomeInvalid
)

func (k outcomeKind) label() string {
	switch k {
	case outcomeUnchanged:
		return "unchanged"
	case outcomeAdjusted:
		return "adjusted"
	case outcomeDegenerate:
		return "skipped"
	case outcomeInvalid:
		return "invalid"
	default:
		return ""
	}
}

type outcome struct {
	kind       outcomeKind
	adjustment Adjustment
	diagnostic Diagnostic
}

// mediumGroup holds the input indices of the pipelines sharing one
// compatibility group.
type mediumGroup struct {
	key     string
	indices []int
}

// AdjustGradients checks every line-based object and corrects those that
// do not drain downhill by at least the minimum gradient. Point-based
// objects serve as anchors. Objects are modified in place.
//
// Malformed objects are reported in Result.Diagnostics and otherwise
// ignored. The returned error is non-nil only if a worker panicked, in
// which case some pipelines may already have been modified.
func (a *Adjuster) AdjustGradients(ctx context.Context, objects []*network.Object) (*Result, error) {
	started := time.Now()
	runID := newRunID()
	ctx = logging.WithRunID(ctx, runID)
	ctx, span := a.tracer.Start(ctx, "gradient.AdjustGradients",
		trace.WithAttributes(runAttributes(runID, len(objects), a.params)...))
	defer span.End()

	outcomes := make([]outcome, len(objects))
	anchors, groups := a.partition(ctx, objects, outcomes)

	a.logger.Debug(ctx, "starting gradient run",
		zap.Int("objects", len(objects)),
		zap.Int("anchors", len(anchors)),
		zap.Int("groups", len(groups)),
		zap.String("strategy", compatibility.Name(a.strategy)))

	err := a.forEachGroup(ctx, groups, func(ctx context.Context, g mediumGroup) {
		a.logger.Info(ctx, "adjusting compatibility group",
			zap.Int("pipelines", len(g.indices)),
			zap.Int("anchors", len(anchors)))
		for _, i := range g.indices {
			outcomes[i] = a.adjustPipeline(ctx, objects[i], anchors)
		}
	})
	if err != nil {
		recordError(ctx, err)
		a.logger.Error(ctx, "gradient run aborted", zap.Error(err))
		return nil, err
	}

	res := &Result{}
	for _, o := range outcomes {
		switch o.kind {
		case outcomeAdjusted:
			res.Adjustments = append(res.Adjustments, o.adjustment)
			res.Processed++
		case outcomeUnchanged:
			res.Processed++
		case outcomeDegenerate:
			res.Processed++
			res.Degenerate++
		case outcomeInvalid:
			res.Diagnostics = append(res.Diagnostics, o.diagnostic)
		}
	}
	a.record(outcomes, time.Since(started))

	span.SetAttributes(
		attribute.Int("pipegrade.adjusted", len(res.Adjustments)),
		attribute.Int("pipegrade.diagnostics", len(res.Diagnostics)))
	a.logger.Info(ctx, "gradient run finished",
		zap.Int("processed", res.Processed),
		zap.Int("adjusted", len(res.Adjustments)),
		zap.Int("degenerate", res.Degenerate),
		zap.Int("diagnostics", len(res.Diagnostics)),
		zap.Duration("duration", time.Since(started)))
	return res, nil
}

// partition splits objects into anchors and per-group pipeline indices.
// Groups keep the order in which they first appear. Group keys are folded
// to lower case since Prefix compares tokens case-insensitively; a coarser
// partition only serializes more work.
func (a *Adjuster) partition(ctx context.Context, objects []*network.Object, outcomes []outcome) ([]*network.Object, []mediumGroup) {
	var anchors []*network.Object
	var groups []mediumGroup
	byKey := make(map[string]int)

	for i, o := range objects {
		if o == nil {
			continue
		}
		if err := o.Validate(); err != nil {
			outcomes[i] = outcome{kind: outcomeInvalid, diagnostic: Diagnostic{ObjectID: o.ID, Medium: o.Medium, Err: err}}
			a.logger.Warn(ctx, "skipping malformed object",
				zap.String("object.id", o.ID),
				zap.String("medium", o.Medium),
				zap.Error(err))
			continue
		}
		switch {
		case o.IsPointBased():
			anchors = append(anchors, o)
		case o.IsLineBased():
			key := strings.ToLower(a.strategy.Group(o.Medium))
			gi, ok := byKey[key]
			if !ok {
				gi = len(groups)
				byKey[key] = gi
				groups = append(groups, mediumGroup{key: key})
			}
			groups[gi].indices = append(groups[gi].indices, i)
		}
	}
	return anchors, groups
}

// forEachGroup runs fn for every group on at most Params.Workers
// goroutines. Each group writes only its own outcome slots.
func (a *Adjuster) forEachGroup(ctx context.Context, groups []mediumGroup, fn func(context.Context, mediumGroup)) error {
	limit := a.params.Workers
	if limit < 1 {
		limit = 1
	}
	eg := new(errgroup.Group)
	eg.SetLimit(limit)

	for _, g := range groups {
		eg.Go(func() (err error) {
			gctx := logging.WithMediumGroup(ctx, g.key)
			gctx, span := a.tracer.Start(gctx, "gradient.group",
				trace.WithAttributes(
					attribute.String("pipegrade.medium_group", g.key),
					attribute.Int("pipegrade.pipelines", len(g.indices))))
			defer span.End()
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("medium group %q: recovered panic: %v", g.key, r)
					recordError(gctx, err)
				}
			}()
			fn(gctx, g)
			return nil
		})
	}
	return eg.Wait()
}

// adjustPipeline expects p to have passed Validate. Pipelines whose
// correction would leave the float64 range are reported, never written.
func (a *Adjuster) adjustPipeline(ctx context.Context, p *network.Object, anchors []*network.Object) outcome {
	cum := CumulativeDistances(p.Points)
	length := cum[len(cum)-1]
	if !finite(length) {
		return a.reject(ctx, p, fmt.Errorf("%w: object %s", ErrNonFiniteLength, p.ID))
	}
	if length <= 0 {
		a.logger.Debug(ctx, "skipping zero-length pipeline", zap.String("pipeline.id", p.ID))
		return outcome{kind: outcomeDegenerate}
	}

	first, last := p.Start(), p.End()
	startAnchor, _ := a.finder.Nearest(first, p.Medium, anchors)
	endAnchor, _ := a.finder.Nearest(last, p.Medium, anchors)

	pl, ok, err := a.resolve(first.Altitude, last.Altitude, startAnchor, endAnchor, length)
	if err != nil {
		return a.reject(ctx, p, fmt.Errorf("object %s: %w", p.ID, err))
	}
	if !ok {
		return outcome{kind: outcomeUnchanged}
	}
	tol := a.params.ElevationTolerance
	if math.Abs(pl.start-first.Altitude) <= tol && math.Abs(pl.end-last.Altitude) <= tol {
		a.logger.Trace(ctx, "pipeline within tolerance", zap.String("pipeline.id", p.ID))
		return outcome{kind: outcomeUnchanged}
	}

	profile, ok := interpolate(cum, pl.start, pl.end)
	final, _ := Percent(pl.start, pl.end, length)
	if !ok || !finite(final) {
		return a.reject(ctx, p, fmt.Errorf("%w: object %s profile %g -> %g overflows", ErrUncorrectable, p.ID, pl.start, pl.end))
	}
	for i := range p.Points {
		p.Points[i].Altitude = profile[i]
	}

	adj := Adjustment{
		Pipeline:            p,
		StartAnchor:         startAnchor,
		EndAnchor:           endAnchor,
		OriginalStart:       first.Altitude,
		OriginalEnd:         last.Altitude,
		AdjustedStart:       pl.start,
		AdjustedEnd:         pl.end,
		CalculatedGradient:  final,
		Reason:              pl.reason,
		MediumCompatibility: a.describeAnchors(p.Medium, startAnchor, endAnchor),
		Case:                pl.kind,
		AnchorOverridden:    pl.overridden,
	}

	if pl.overridden {
		a.logger.Warn(ctx, "end anchor overridden to reach minimum gradient",
			zap.String("pipeline.id", p.ID),
			zap.String("end_anchor.id", endAnchor.ID),
			zap.Float64("anchor.altitude", endAnchor.Start().Altitude),
			zap.Float64("adjusted_end", pl.end))
	}
	a.logger.Debug(ctx, "pipeline adjusted",
		zap.String("pipeline.id", p.ID),
		zap.String("case", string(pl.kind)),
		zap.Float64("gradient", final),
		zap.Float64("elevation_change", adj.ElevationChange()))
	return outcome{kind: outcomeAdjusted, adjustment: adj}
}

// reject reports p as a skipped pipeline, leaving its points untouched.
func (a *Adjuster) reject(ctx context.Context, p *network.Object, err error) outcome {
	a.logger.Warn(ctx, "skipping uncorrectable pipeline",
		zap.String("pipeline.id", p.ID),
		zap.String("medium", p.Medium),
		zap.Error(err))
	return outcome{kind: outcomeInvalid, diagnostic: Diagnostic{ObjectID: p.ID, Medium: p.Medium, Err: err}}
}

// interpolate pins both ends and places interior altitudes by cumulative
// horizontal distance. ok is false if any altitude is not finite.
func interpolate(cum []float64, start, end float64) ([]float64, bool) {
	n := len(cum)
	length := cum[n-1]
	out := make([]float64, n)
	for i := range out {
		switch i {
		case 0:
			out[i] = start
		case n - 1:
			out[i] = end
		default:
			out[i] = start + cum[i]/length*(end-start)
		}
		if !finite(out[i]) {
			return nil, false
		}
	}
	return out, true
}

func (a *Adjuster) record(outcomes []outcome, elapsed time.Duration) {
	if a.metrics == nil {
		return
	}
	for _, o := range outcomes {
		if o.kind == outcomeNone {
			continue
		}
		a.metrics.PipelinesProcessed.WithLabelValues(o.kind.label()).Inc()
		if o.kind == outcomeAdjusted {
			a.metrics.Adjustments.WithLabelValues(string(o.adjustment.Case)).Inc()
			a.metrics.ElevationChange.Add(o.adjustment.ElevationChange())
		}
	}
	a.metrics.Duration.WithLabelValues("adjust").Observe(elapsed.Seconds())
}
