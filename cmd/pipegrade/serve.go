package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/pipegrade/internal/config"
	"github.com/fyrsmithlabs/pipegrade/internal/gradient"
	pghttp "github.com/fyrsmithlabs/pipegrade/internal/http"
	"github.com/fyrsmithlabs/pipegrade/internal/logging"
)

type serveOptions struct {
	host string
	port int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve the gradient adjuster over HTTP until SIGINT or SIGTERM.

When --config is given the file is watched and gradient and compatibility
settings are reloaded on change. Server settings require a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cmd.Flags().Changed("host") {
				cfg.Server.Host = opts.host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = opts.port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, root.configPath, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down
// within cfg.Server.ShutdownTimeout.
func serve(ctx context.Context, configPath string, cfg *config.Config, logger *logging.Logger) error {
	tel, stopTelemetry, err := startTelemetry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	metrics := gradient.NewMetrics()
	adjuster, err := newAdjuster(cfg, logger, metrics, tel)
	if err != nil {
		return err
	}
	srv, err := pghttp.NewServer(adjuster, logger, cfg.Server,
		pghttp.WithTracer(tel.Tracer(pghttp.InstrumentationName)))
	if err != nil {
		return err
	}

	if configPath != "" {
		w, err := config.NewWatcher(configPath,
			func(next *config.Config) {
				a, err := newAdjuster(next, logger, metrics, tel)
				if err != nil {
					logger.Error(ctx, "rejected reloaded config", zap.Error(err))
					return
				}
				srv.SetAdjuster(a)
				logger.Info(ctx, "config reloaded",
					zap.Float64("min_gradient_percent", next.Gradient.MinGradientPercent),
					zap.Float64("manhole_search_radius", next.Gradient.ManholeSearchRadius),
					zap.String("compatibility", next.Compatibility.Strategy))
			},
			func(err error) {
				logger.Warn(ctx, "config reload failed, keeping previous config", zap.Error(err))
			})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	logger.Info(ctx, "starting pipegrade",
		zap.String("addr", cfg.Server.Address()),
		zap.String("version", version),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info(shutdownCtx, "server shutdown complete")
	return nil
}
