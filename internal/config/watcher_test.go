package config

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "pipegrade.yaml", "gradient:\n  min_gradient_percent: 1.0\n")

	var (
		mu     sync.Mutex
		loaded []*Config
		errs   []error
	)
	w, err := NewWatcher(path,
		func(cfg *Config) {
			mu.Lock()
			defer mu.Unlock()
			loaded = append(loaded, cfg)
		},
		func(err error) {
			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, err)
		})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("gradient:\n  min_gradient_percent: 4.5\n"), 0600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, cfg := range loaded {
			if cfg.Gradient.MinGradientPercent == 4.5 {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	path := writeFile(t, "pipegrade.yaml", "gradient:\n  min_gradient_percent: 1.0\n")

	errCh := make(chan error, 16)
	w, err := NewWatcher(path, func(*Config) {}, func(err error) { errCh <- err })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("gradient:\n  min_gradient_percent: -1\n"), 0600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-errCh:
			if strings.Contains(err.Error(), "config validation failed") {
				return
			}
		case <-deadline:
			t.Fatal("expected a validation error from reload")
		}
	}
}

func TestNewWatcher_RequiresCallback(t *testing.T) {
	_, err := NewWatcher("pipegrade.yaml", nil, nil)
	require.ErrorIs(t, err, ErrWatcherFailed)
}

func TestWatcher_StopAfterContextCancel(t *testing.T) {
	path := writeFile(t, "pipegrade.yaml", "")
	w, err := NewWatcher(path, func(*Config) {}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
	w.Stop()
}
