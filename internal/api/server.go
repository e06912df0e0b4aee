// Package api serves the event store and the layout engine over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/javiermolinar/eventide/internal/config"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/layout"
	"github.com/javiermolinar/eventide/internal/llm"
	"github.com/javiermolinar/eventide/internal/logging"
)

// Optimizer proposes an improved schedule.
type Optimizer interface {
	Optimize(ctx context.Context, events []*event.Event, mask event.Mask) (*llm.OptimizeResult, error)
}

// Summarizer describes a schedule in one line.
type Summarizer interface {
	Summarize(ctx context.Context, events []*event.Event) (string, error)
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Repo       event.Repository
	Optimizer  Optimizer  // nil disables /optimize_schedule
	Summarizer Summarizer // nil disables /summarize_calendar
	Layout     layout.Config
}

// Server is the HTTP server.
type Server struct {
	echo     *echo.Echo
	config   config.ServerConfig
	logger   *logging.Logger
	deps     Deps
	registry *prometheus.Registry
}

// CustomValidator wraps the validator.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// New creates a server. The repository is required.
func New(cfg config.ServerConfig, deps Deps, logger *logging.Logger) (*Server, error) {
	if deps.Repo == nil {
		return nil, errors.New("api: repository is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(logger)

	s := &Server{
		echo:   e,
		config: cfg,
		logger: logger.WithComponent("api"),
		deps:   deps,
	}

	s.setupMiddleware()
	if cfg.Metrics {
		s.setupMetrics()
	}
	s.setupRoutes()

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Infow("Starting server", "address", s.config.Addr)
	err := s.echo.Start(s.config.Addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", s.healthCheck)

	s.echo.GET("/schedule", s.getSchedule)
	s.echo.GET("/schedule/range", s.getScheduleRange)
	s.echo.GET("/schedule/:id", s.getEvent)
	s.echo.POST("/create_schedule", s.createSchedule)
	s.echo.PATCH("/update_schedule/:id", s.updateSchedule)
	s.echo.DELETE("/delete_schedule/:id", s.deleteSchedule)

	s.echo.POST("/optimize_schedule", s.optimizeSchedule)
	s.echo.POST("/summarize_calendar", s.summarizeCalendar)

	s.echo.GET("/layout", s.getLayout)
}
