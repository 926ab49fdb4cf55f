// Package logging provides structured logging for pipegrade.
//
// It wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Automatic context fields (trace_id, run.id, medium.group, request.id)
//   - Per-level sampling (errors never sampled)
//
// Create a logger from config:
//
//	logger, err := logging.NewLogger(logging.NewDefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.Info(ctx, "gradient run finished", zap.Int("adjusted", n))
//
// Use TestLogger in tests:
//
//	tl := logging.NewTestLogger()
//	tl.AssertLogged(t, zapcore.WarnLevel, "anchor overridden")
//
// Logger is safe for concurrent use.
package logging
