package logging

import (
	"sort"

	"go.uber.org/zap/zapcore"
)

// newSampledCore wraps core with one sampler per configured level.
// Levels without a sampling entry, and Error and above, pass through.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled || len(cfg.Levels) == 0 {
		return core
	}

	sampled := make(map[zapcore.Level]LevelSamplingConfig, len(cfg.Levels))
	for name, lc := range cfg.Levels {
		lvl, err := LevelFromString(name)
		if err != nil || lvl >= zapcore.ErrorLevel {
			continue
		}
		sampled[lvl] = lc
	}
	if len(sampled) == 0 {
		return core
	}

	levels := make([]zapcore.Level, 0, len(sampled))
	for lvl := range sampled {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	cores := []zapcore.Core{&levelFilterCore{Core: core, allow: func(l zapcore.Level) bool {
		_, ok := sampled[l]
		return !ok
	}}}
	for _, lvl := range levels {
		lc := sampled[lvl]
		exact := lvl
		cores = append(cores, zapcore.NewSamplerWithOptions(
			&levelFilterCore{Core: core, allow: func(l zapcore.Level) bool { return l == exact }},
			cfg.Tick,
			lc.Initial,
			lc.Thereafter,
		))
	}
	return zapcore.NewTee(cores...)
}

// levelFilterCore only forwards entries whose level passes allow.
type levelFilterCore struct {
	zapcore.Core
	allow func(zapcore.Level) bool
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return c.allow(lvl) && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), allow: c.allow}
}
