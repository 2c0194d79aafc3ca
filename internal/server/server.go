// Package server exposes the trading pipeline over HTTP: market data,
// per-agent pipeline steps, tool invocation, decision and audit queries,
// and a websocket event stream.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/data"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/pipeline"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/storage"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/telemetry"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/tools"
)

// Options configures the HTTP server
type Options struct {
	Addr      string
	Pipeline  *pipeline.Pipeline
	Provider  *data.Provider
	Store     storage.Store
	StoreKind string
	Registry  *tools.Registry
	Hub       *telemetry.Hub
}

// Server is the HTTP front of the trading pipeline
type Server struct {
	echo      *echo.Echo
	addr      string
	pipeline  *pipeline.Pipeline
	provider  *data.Provider
	store     storage.Store
	storeKind string
	registry  *tools.Registry
	hub       *telemetry.Hub
	logger    zerolog.Logger
}

// New builds the server and registers all routes
func New(opts Options) *Server {
	s := &Server{
		addr:      opts.Addr,
		pipeline:  opts.Pipeline,
		provider:  opts.Provider,
		store:     opts.Store,
		storeKind: opts.StoreKind,
		registry:  opts.Registry,
		hub:       opts.Hub,
		logger:    log.With().Str("component", "http_server").Logger(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(s.requestLogging())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
	}))

	s.registerRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo = e
	return s
}

func (s *Server) registerRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/health", s.handleHealth)
	api.GET("/symbols", s.handleSymbols)
	api.GET("/market/:symbol", s.handleMarket)

	api.POST("/pipeline/:symbol/run/:role", s.handleRunStep)
	api.POST("/pipeline/:symbol/run", s.handleRunAll)
	api.GET("/pipeline/:symbol", s.handleState)
	api.POST("/pipeline/:symbol/reset", s.handleReset)
	api.POST("/pipeline/:symbol/trade", s.handleTrade)

	api.GET("/tools", s.handleListTools)
	api.POST("/tools/:name", s.handleInvokeTool)

	api.GET("/decisions", s.handleDecisions)
	api.GET("/audit", s.handleAudit)
	api.GET("/audit/summary", s.handleAuditSummary)

	api.GET("/events", s.handleEvents)
}

func (s *Server) requestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			s.logger.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Msg("Request handled")
			return err
		}
	}
}

// Start runs the server until the listener fails or Stop is called
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.addr).Msg("HTTP server listening")
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("starting http server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
