// Package httpapi provides the HTTP API for the tutor service.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mitthhuu3110/dsa-sensei/internal/retriever"
	"github.com/mitthhuu3110/dsa-sensei/internal/tutor"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
}

// Server exposes the tutor over HTTP.
type Server struct {
	echo   *echo.Echo
	tutor  *tutor.Service
	logger *zap.Logger
	config Config
}

// NewServer creates the HTTP server.
func NewServer(cfg Config, svc *tutor.Service, logger *zap.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("tutor service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			RequestsTotal.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(c.Response().Status)).Inc()
			RequestDuration.WithLabelValues(c.Request().Method, c.Path()).Observe(duration.Seconds())

			return err
		}
	})

	s := &Server{
		echo:   e,
		tutor:  svc,
		logger: logger,
		config: cfg,
	}
	s.registerRoutes()

	return s, nil
}

// Echo exposes the underlying router, for tests and extra routes.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.POST("/ask", s.handleAsk)

	v1 := s.echo.Group("/api/v1")
	v1.GET("/plan", s.handlePlan)
	v1.POST("/interview", s.handleInterview)
}

// AskRequest is the request body for POST /ask.
type AskRequest struct {
	UserID   string `json:"user_id"`
	Question string `json:"question"`
}

// ContextResponse is one retrieved excerpt in an answer.
type ContextResponse struct {
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	Score      float64 `json:"score"`
	Provenance string  `json:"provenance"`
}

// AskResponse is the response body for POST /ask.
type AskResponse struct {
	Answer     string            `json:"answer"`
	Contexts   []ContextResponse `json:"contexts"`
	Provenance string            `json:"provenance"`
	LatencyMS  int64             `json:"latency_ms"`
}

// InterviewRequest is the request body for POST /api/v1/interview.
type InterviewRequest struct {
	Topic string `json:"topic"`
}

// InterviewResponse is the response body for POST /api/v1/interview.
type InterviewResponse struct {
	Topic     string   `json:"topic"`
	Questions []string `json:"questions"`
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleAsk(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid ask request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := s.tutor.Answer(c.Request().Context(), req.Question)
	if err != nil {
		if errors.Is(err, tutor.ErrBlankQuestion) {
			return echo.NewHTTPError(http.StatusBadRequest, "question field is required")
		}
		s.logger.Error("answering failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to answer question")
	}

	AnswersTotal.WithLabelValues(string(resp.Provenance)).Inc()

	return c.JSON(http.StatusOK, AskResponse{
		Answer:     resp.Answer,
		Contexts:   contextResponses(resp.Contexts),
		Provenance: string(resp.Provenance),
		LatencyMS:  resp.Latency.Milliseconds(),
	})
}

func (s *Server) handlePlan(c echo.Context) error {
	plan, err := s.tutor.WeeklyPlan(c.QueryParam("level"))
	if err != nil {
		if errors.Is(err, tutor.ErrUnknownLevel) {
			return echo.NewHTTPError(http.StatusBadRequest, "level must be beginner, intermediate or advanced")
		}
		s.logger.Error("building plan failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build plan")
	}
	return c.JSON(http.StatusOK, plan)
}

func (s *Server) handleInterview(c echo.Context) error {
	var req InterviewRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid interview request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	questions, err := s.tutor.InterviewQuestions(req.Topic)
	if err != nil {
		if errors.Is(err, tutor.ErrBlankTopic) {
			return echo.NewHTTPError(http.StatusBadRequest, "topic field is required")
		}
		s.logger.Error("generating interview questions failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate questions")
	}

	return c.JSON(http.StatusOK, InterviewResponse{Topic: req.Topic, Questions: questions})
}

func contextResponses(contexts []retriever.Context) []ContextResponse {
	out := make([]ContextResponse, len(contexts))
	for i, rc := range contexts {
		out[i] = ContextResponse{
			Text:       rc.Text,
			Source:     rc.Source,
			Score:      rc.Score,
			Provenance: string(rc.Provenance),
		}
	}
	return out
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
