package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spacesedan/empathybot/internal/chat"
	"github.com/spacesedan/empathybot/internal/events"
	"github.com/spacesedan/empathybot/internal/metrics"
	"github.com/spacesedan/empathybot/internal/stats"
	"github.com/spacesedan/empathybot/web"
)

const PAGE_TITLE = "Echo of Empathy"

// Responder turns a chat message into a reply.
type Responder interface {
	Respond(message string) chat.Reply
}

// HealthCheck is one named readiness probe.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps are the collaborators the server is built from. Responder is
// required; the rest fall back to in-process no-op or memory variants.
type Deps struct {
	Responder    Responder
	Tally        stats.Tally
	Publisher    events.Publisher
	Registry     *prometheus.Registry
	HealthChecks []HealthCheck
}

type Server struct {
	echo         *echo.Echo
	responder    Responder
	tally        stats.Tally
	publisher    events.Publisher
	registry     *prometheus.Registry
	httpMetrics  *metrics.HTTPMetrics
	replyMetrics *metrics.ReplyMetrics
	healthChecks []HealthCheck
	page         *template.Template
	startTime    time.Time
}

func NewServer(deps Deps) (*Server, error) {
	if deps.Responder == nil {
		return nil, errors.New("[Server] responder is required")
	}

	page, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("[Server] failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		responder:    deps.Responder,
		tally:        deps.Tally,
		publisher:    deps.Publisher,
		registry:     deps.Registry,
		healthChecks: deps.HealthChecks,
		page:         page,
		startTime:    time.Now(),
	}
	if srv.tally == nil {
		srv.tally = stats.NewMemoryTally()
	}
	if srv.publisher == nil {
		srv.publisher = events.NopPublisher{}
	}
	if srv.registry != nil {
		srv.httpMetrics = metrics.NewHTTPMetrics(srv.registry)
		srv.replyMetrics = metrics.NewReplyMetrics(srv.registry)
	}

	srv.registerMiddleware()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(port string) error {
	slog.Info("[Server] starting", "port", port)
	err := s.echo.Start(":" + port)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("[Server] shutting down")
	return s.echo.Shutdown(ctx)
}
