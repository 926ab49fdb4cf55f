// Package http exposes the gradient adjuster over a JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/pipegrade/internal/compatibility"
	"github.com/fyrsmithlabs/pipegrade/internal/config"
	"github.com/fyrsmithlabs/pipegrade/internal/gradient"
	"github.com/fyrsmithlabs/pipegrade/internal/logging"
	"github.com/fyrsmithlabs/pipegrade/internal/network"
	"github.com/fyrsmithlabs/pipegrade/internal/report"
)

// Server provides HTTP endpoints for pipegrade.
type Server struct {
	echo     *echo.Echo
	adjuster atomic.Pointer[gradient.Adjuster]
	logger   *logging.Logger
	config   config.ServerConfig
	metrics  *HTTPMetrics
	tracer   trace.Tracer
}

// Option configures a Server.
type Option func(*Server)

// WithTracer sets the tracer for request spans. The default is the
// global provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		if t != nil {
			s.tracer = t
		}
	}
}

// requestValidator adapts validator/v10 to echo.Validator.
type requestValidator struct {
	v *validator.Validate
}

// newRequestValidator reports fields by their JSON names.
func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	if err := rv.v.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("%s: failed %q constraint", fe.Namespace(), fe.Tag()))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewServer creates a new HTTP server around adjuster.
func NewServer(adjuster *gradient.Adjuster, logger *logging.Logger, cfg config.ServerConfig, opts ...Option) (*Server, error) {
	if adjuster == nil {
		return nil, fmt.Errorf("adjuster cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = config.Default().Server.BodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	s := &Server{
		echo:    e,
		logger:  logger.Named("http"),
		config:  cfg,
		metrics: NewHTTPMetrics(),
		tracer:  otel.Tracer(InstrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.adjuster.Store(adjuster)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.tracing())
	e.Use(s.requestLogger())
	e.Use(s.metrics.Middleware())

	s.registerRoutes()
	return s, nil
}

// SetAdjuster replaces the adjuster used by subsequent requests.
// In-flight requests finish with the previous one.
func (s *Server) SetAdjuster(a *gradient.Adjuster) {
	if a != nil {
		s.adjuster.Store(a)
	}
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1",
		rateLimit(s.config.RateLimit, s.config.RateBurst),
		middleware.BodyLimit(s.config.BodyLimit))
	v1.POST("/adjust", s.handleAdjust)
	v1.POST("/cover-heights", s.handleCoverHeights)
}

// requestLogger stores the request ID in the request context and logs
// every request once it completes.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logging.WithRequestID(req.Context(), id)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.Info(ctx, "http request",
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// adjusterFor returns the current adjuster, rebound to overridden params
// when the request carries any.
func (s *Server) adjusterFor(o *ParamsOverride) (*gradient.Adjuster, error) {
	base := s.adjuster.Load()
	if o == nil {
		return base, nil
	}
	a, err := base.WithParams(o.Apply(base.Params()))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return a, nil
}

func (s *Server) handleAdjust(c echo.Context) error {
	ctx := c.Request().Context()
	var req AdjustRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid adjust request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a, err := s.adjusterFor(req.Params)
	if err != nil {
		return err
	}

	network.AssignIDs(req.Objects)
	res, err := a.AdjustGradients(ctx, req.Objects)
	if err != nil {
		s.logger.Error(ctx, "adjustment failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "adjustment failed")
	}

	diags := res.Diagnostics
	if diags == nil {
		diags = []gradient.Diagnostic{}
	}
	return c.JSON(http.StatusOK, AdjustResponse{
		Objects:     req.Objects,
		Report:      report.BuildAdjustmentReport(res.Adjustments, compatibility.Name(a.Strategy())),
		Diagnostics: diags,
	})
}

func (s *Server) handleCoverHeights(c echo.Context) error {
	ctx := c.Request().Context()
	var req CoverHeightRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid cover-heights request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a, err := s.adjusterFor(req.Params)
	if err != nil {
		return err
	}

	network.AssignIDs(req.Objects)
	heights := a.CoverHeights(ctx, req.Objects)
	return c.JSON(http.StatusOK, report.BuildCoverHeightReport(heights))
}

// Start serves until Shutdown is called. It returns http.ErrServerClosed
// after a graceful shutdown.
func (s *Server) Start() error {
	addr := s.config.Address()
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
