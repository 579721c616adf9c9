// Package api exposes the agent over a localhost HTTP surface: health and
// status, the media bin, a read-only timeline snapshot, export, and range
// streaming. Timeline mutations stay in-process; the API never edits.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/assets"
	"github.com/reelsmith/reelsmith-agent/internal/export"
	"github.com/reelsmith/reelsmith-agent/internal/probe"
	"github.com/reelsmith/reelsmith-agent/internal/share"
	"github.com/reelsmith/reelsmith-agent/internal/stream"
	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port       int
	Assets     *assets.Service
	Repository assets.Repository
	Runner     *assets.Runner
	Doctor     *probe.Doctor
	Store      *timeline.Store
	Exporter   *export.Exporter
	Share      share.Client
	Stream     *stream.Server
	Logger     *slog.Logger
	StartTime  time.Time
	DeviceID   string
	Version    string
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
