// Package server exposes any catalog backend over the lakecat REST protocol,
// making it reachable from the rest adapter and from plain HTTP clients.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gear6io/lakecat/catalog"
	"github.com/gear6io/lakecat/pkg/errors"
	"github.com/rs/zerolog"
)

// Server error codes
var (
	ErrListenFailed   = errors.MustNewCode("server.listen_failed")
	ErrShutdownFailed = errors.MustNewCode("server.shutdown_failed")
)

// Server serves a catalog over HTTP
type Server struct {
	cat       catalog.Catalog
	logger    zerolog.Logger
	server    *http.Server
	listener  net.Listener
	wg        sync.WaitGroup
	startedAt time.Time
}

// New creates a catalog server listening on addr
func New(addr string, cat catalog.Catalog, logger zerolog.Logger) *Server {
	s := &Server{
		cat:    cat,
		logger: logger.With().Str("component", "catalog-server").Logger(),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start binds the listener and serves until Shutdown. Binding errors surface
// synchronously; serve errors after that are logged.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return errors.New(ErrListenFailed, "failed to bind catalog server address", err).AddContext("address", s.server.Addr)
	}
	s.listener = listener
	s.startedAt = time.Now()

	s.logger.Info().Str("address", listener.Addr().String()).Msg("Starting catalog server")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Catalog server error")
		}
	}()

	return nil
}

// Addr returns the bound listen address; empty before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down catalog server")
	if err := s.server.Shutdown(ctx); err != nil {
		return errors.New(ErrShutdownFailed, "failed to shut down catalog server", err)
	}
	s.wg.Wait()
	return nil
}

// Uptime reports how long the server has been running
func (s *Server) Uptime() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}
