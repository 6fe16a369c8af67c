package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/mcoot/skylandly/internal/config"
)

// Server wraps the HTTP server with graceful shutdown support
type Server struct {
	server   *http.Server
	listener net.Listener
	logger   *slog.Logger
	cfg      config.ServerConfig
}

// NewServer creates an API server for the configured address and timeouts
func NewServer(handler http.Handler, cfg config.ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		logger: logger,
		cfg:    cfg,
	}
}

// Listen binds the listen address. Port 0 picks a free port, reported by Addr.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	return nil
}

// Serve accepts connections until Shutdown, binding first if Listen was not called
func (s *Server) Serve() error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.logger.Info("serving HTTP", slog.String("addr", s.Addr()))
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, bounded by the configured shutdown timeout
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the bound address once listening, else the configured one
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}
