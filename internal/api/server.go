// Package api wires the ops HTTP server used by the schedule command.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/pricediff/internal/api/handlers"
	mw "github.com/donaldgifford/pricediff/internal/api/middleware"
)

// Scheduler is what the ops server needs from the scheduler.
type Scheduler interface {
	handlers.ReadinessChecker
	handlers.Runner
}

// Server serves health probes, Prometheus metrics and the run API.
type Server struct {
	echo *echo.Echo
	api  huma.API
	log  *slog.Logger
}

// NewServer builds the ops server. version is reported in the OpenAPI doc.
func NewServer(s Scheduler, version string, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.RequestLog(log), mw.Recovery(log), mw.Metrics())

	health := handlers.NewHealthHandler(s)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("pricediff", version))
	handlers.RegisterRunRoutes(api, handlers.NewRunHandler(s))

	return &Server{echo: e, api: api, log: log}
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// API returns the Huma API, mainly for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info("ops server listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving %s: %w", addr, err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down ops server: %w", err)
	}
	return nil
}
