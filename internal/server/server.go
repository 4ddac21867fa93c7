package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultAddr     = "127.0.0.1:5000"
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	http   *http.Server
	logger *zap.Logger
}

func New(addr string, deps Deps) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: deps.Logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving dashboard: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down dashboard")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down dashboard: %w", err)
	}
	return nil
}
