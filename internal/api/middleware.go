package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// setupMiddleware configures middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			latency := float64(values.Latency.Nanoseconds()) / 1e6
			if values.Error != nil {
				s.logger.Errorw("HTTP request failed",
					"method", values.Method,
					"uri", values.URI,
					"status", values.Status,
					"request_id", values.RequestID,
					"latency_ms", latency,
					"error", values.Error.Error(),
				)
				return nil
			}
			s.logger.LogHTTPRequest(values.Method, values.URI, values.RequestID, values.Status, latency)
			return nil
		},
	}))

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	}))

	if s.config.RateLimit > 0 {
		burst := max(1, int(s.config.RateLimit))
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(s.config.RateLimit),
					Burst:     burst,
					ExpiresIn: 3 * time.Minute,
				},
			),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(http.StatusForbidden, messageResponse{Message: "rate limit exceeded"})
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return c.JSON(http.StatusTooManyRequests, messageResponse{Message: "rate limit exceeded"})
			},
		}))
	}
}

// setupMetrics registers request metrics and serves them on /metrics.
func (s *Server) setupMetrics() {
	s.registry = prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventide_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventide_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	s.registry.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(c.Response().Status),
			).Inc()
			requestDuration.WithLabelValues(c.Request().Method, c.Path()).
				Observe(time.Since(start).Seconds())

			return nil
		}
	})

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}
