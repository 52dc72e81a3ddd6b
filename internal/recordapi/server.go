// Package recordapi serves a store.Backend over HTTP and provides the
// matching client, so the game can run against a local file or a shared
// server through the same interface.
package recordapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abhisek/learnquest/internal/config"
	"github.com/abhisek/learnquest/internal/store"
)

// BasePath prefixes the record routes.
const BasePath = "/api/v1/records"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server exposes a Backend over HTTP.
type Server struct {
	backend store.Backend
	cfg     config.ServerConfig
	logger  *zap.Logger
	metrics *Metrics
	router  chi.Router
}

// NewServer builds the router. A nil logger disables logging.
func NewServer(backend store.Backend, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		backend: backend,
		cfg:     cfg,
		logger:  logger,
		metrics: NewMetrics(),
	}
	s.router = s.routes()
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
	})
	return c.Handler(s.router)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route(BasePath+"/{collection}", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			burst := s.cfg.RateBurst
			if burst < 1 {
				burst = 1
			}
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.cfg.RateLimit), burst), s.metrics))
		}
		r.Use(s.collectionCtx)
		r.Post("/query", s.query)
		r.Get("/{id}", s.get)
		r.Post("/", s.create)
		r.Put("/", s.update)
		r.Delete("/", s.remove)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down within
// the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("record api listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("record api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
