// Package httpapi exposes the Voxnote enhancement pipeline and note storage
// over HTTP using the Echo framework.
//
// Routes:
//
//	POST   /api/rephrase     — rewrite text in a requested tone
//	POST   /api/notes        — process a voice recording and persist the result
//	GET    /api/notes        — list stored notes, newest first
//	GET    /api/notes/search — search stored notes
//	GET    /api/notes/:id    — fetch one note
//	DELETE /api/notes/:id    — delete one note
//	GET    /healthz          — liveness probe
//	GET    /readyz           — readiness probe over registered dependency checks
//	GET    /metrics          — Prometheus scrape endpoint
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"

	"github.com/fwehrmann/voxnote/internal/enhance"
	"github.com/fwehrmann/voxnote/internal/notes"
	"github.com/fwehrmann/voxnote/internal/observe"
)

// readyCheckTimeout bounds a single readiness check.
const readyCheckTimeout = 5 * time.Second

// ReadyCheck is a named dependency probe evaluated by /readyz. Check returns
// nil when the dependency is healthy.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Server wraps an Echo instance with the Voxnote routes. Construct with New.
type Server struct {
	echo     *echo.Echo
	pipeline *enhance.Pipeline
	store    notes.Store
	checks   []ReadyCheck
	logger   *slog.Logger
	metrics  *observe.Metrics
}

// Option is a functional option for Server.
type Option func(*Server)

// WithNotes enables the note storage routes backed by store.
func WithNotes(store notes.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithReadyCheck registers a dependency probe for /readyz. May be given more
// than once; checks run sequentially in registration order.
func WithReadyCheck(check ReadyCheck) Option {
	return func(s *Server) {
		s.checks = append(s.checks, check)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics sets the metrics sink. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New constructs a Server around the given pipeline and registers all routes.
func New(pipeline *enhance.Pipeline, opts ...Option) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("httpapi: pipeline must not be nil")
	}
	s := &Server{pipeline: pipeline}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestDuration)
	e.HTTPErrorHandler = s.errorHandler

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/readyz", s.readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/rephrase", s.rephrase)

	if s.store != nil {
		api.POST("/notes", s.createNote)
		api.GET("/notes", s.listNotes)
		api.GET("/notes/search", s.searchNotes)
		api.GET("/notes/:id", s.getNote)
		api.DELETE("/notes/:id", s.deleteNote)
	}

	s.echo = e
	return s, nil
}

// Start serves plain HTTP on addr. It blocks until Shutdown is called or the
// listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.echo.Start(addr)
}

// StartTLS serves HTTPS on addr with the given certificate pair.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	s.logger.Info("https server listening", "addr", addr)
	return s.echo.StartTLS(addr, certFile, keyFile)
}

// Shutdown gracefully stops the server, waiting for in-flight requests up to
// the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// readyz reports 200 only when every registered ReadyCheck passes. The body
// carries a per-check result map so a failing dependency is identifiable from
// the probe alone.
func (s *Server) readyz(c echo.Context) error {
	checks := make(map[string]string, len(s.checks))
	allOK := true

	for _, check := range s.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyCheckTimeout)
		err := check.Check(ctx)
		cancel()

		if err != nil {
			checks[check.Name] = "fail: " + err.Error()
			allOK = false
		} else {
			checks[check.Name] = "ok"
		}
	}

	status := http.StatusOK
	body := map[string]any{"status": "ok"}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	if !allOK {
		status = http.StatusServiceUnavailable
		body["status"] = "fail"
	}
	return c.JSON(status, body)
}

// requestDuration records HTTP latency per method and route template.
func (s *Server) requestDuration(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.metrics.HTTPRequestDuration.Record(c.Request().Context(), time.Since(start).Seconds(),
			metric.WithAttributes(
				observe.Attr("method", c.Request().Method),
				observe.Attr("path", c.Path()),
			),
		)
		return err
	}
}

// errorHandler renders every error as a JSON body {"error": "..."} with the
// mapped status code and logs server-side failures.
func (s *Server) errorHandler(err error, c echo.Context) {
	he := mapError(err)

	if he.Code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", he.Code,
			"error", err)
	} else {
		s.logger.Debug("request rejected",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", he.Code,
			"error", err)
	}

	if c.Response().Committed {
		return
	}
	_ = c.JSON(he.Code, map[string]string{"error": fmt.Sprint(he.Message)})
}

// mapError converts domain errors to HTTP status codes. Failures of upstream
// providers are the gateway's fault, not the client's, hence 502.
func mapError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var upstream *enhance.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return echo.NewHTTPError(http.StatusBadGateway, upstream.Error())
	case errors.Is(err, enhance.ErrEmptyInput):
		return echo.NewHTTPError(http.StatusBadRequest, "text must not be empty")
	case errors.Is(err, enhance.ErrNoTranscriber):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "transcription is not configured")
	case errors.Is(err, notes.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
