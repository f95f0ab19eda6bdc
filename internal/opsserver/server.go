// Package opsserver exposes health and Prometheus endpoints for the bot.
package opsserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server timeouts
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 20 * time.Second
	ShutdownTimeout = 5 * time.Second
)

// HealthFunc reports extra health details, such as the number of active sessions
type HealthFunc func() map[string]any

// Server is the ops HTTP endpoint
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewRouter builds the ops routes
func NewRouter(health HealthFunc, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		details := map[string]any{"status": "ok"}
		if health != nil {
			for k, v := range health() {
				details[k] = v
			}
		}
		writeJSON(w, http.StatusOK, details)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// New creates a server listening on addr
func New(addr string, health HealthFunc, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(health, logger),
			ReadTimeout:  ReadTimeout,
			WriteTimeout: WriteTimeout,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("ops server listening", zap.String("addr", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("ops server shutdown", zap.Error(err))
		return err
	}
	return nil
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("ops request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
