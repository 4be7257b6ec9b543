// Package httpapi serves the discovery endpoints over echo.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/niche-finder/internal/config"
	"github.com/niche-finder/internal/metrics"
	"github.com/niche-finder/internal/models"
	"github.com/niche-finder/internal/storage"
	"github.com/niche-finder/pkg/logger"
)

// Pipeline runs the discovery pipelines. *discovery.Agent implements it.
type Pipeline interface {
	Discover(ctx context.Context, query string, platform models.Platform) ([]models.Niche, error)
	Trending(ctx context.Context) ([]models.Niche, error)
}

// Server wires the HTTP routes to the discovery pipeline
type Server struct {
	echo       *echo.Echo
	pipeline   Pipeline
	repository storage.Repository
	metrics    *metrics.Registry
	cfg        config.ServerConfig
	devErrors  bool
	log        *logger.Logger
}

// NewServer builds the router. repository and reg may be nil; without a
// repository /api/history answers 503, without a registry /metrics is absent.
func NewServer(cfg *config.Config, pipeline Pipeline, repository storage.Repository, reg *metrics.Registry, log *logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	s := &Server{
		echo:       e,
		pipeline:   pipeline,
		repository: repository,
		metrics:    reg,
		cfg:        cfg.Server,
		devErrors:  cfg.App.IsDevelopment(),
		log:        log.WithComponent("http"),
	}

	e.Use(RequestLogger(s.log, reg))
	e.Use(middleware.Recover())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", s.metrics.EchoHandler())
	}

	api := s.echo.Group("/api")
	api.POST("/discover", s.handleDiscover)
	api.GET("/trending", s.handleTrending)
	api.GET("/history", s.handleHistory)
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Address()).Msg("HTTP server starting")
		if err := s.echo.Start(s.cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info().Msg("Shutting down HTTP server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	return nil
}
