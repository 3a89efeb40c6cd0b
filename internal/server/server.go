// Package server assembles the HTTP server: router, middleware chain,
// and endpoint registration.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lakefront/bucketview/internal/config"
	"github.com/lakefront/bucketview/internal/server/handlers"
	"github.com/lakefront/bucketview/internal/server/middleware"
	"github.com/lakefront/bucketview/pkg/objects"
)

// Server is the HTTP front end over the object service.
type Server struct {
	cfg  config.ServerConfig
	log  *zap.Logger
	http *http.Server
	mux  *chi.Mux
}

// New builds the server with its full middleware chain and routes.
func New(cfg config.ServerConfig, svc *objects.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recovery(log))
	mux.Use(middleware.Logging(log))

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, middleware.ErrorBody{
			Code:      "NOT_FOUND",
			Message:   "no such endpoint",
			RequestID: middleware.GetRequestID(r.Context()),
		})
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusMethodNotAllowed, middleware.ErrorBody{
			Code:      "METHOD_NOT_ALLOWED",
			Message:   "method not allowed",
			RequestID: middleware.GetRequestID(r.Context()),
		})
	})

	(&handlers.Health{}).Register(mux)
	handlers.NewObjects(svc, log).Register(mux)

	return &Server{
		cfg: cfg,
		log: log,
		mux: mux,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.cfg.Addr()))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down")
	return s.http.Shutdown(ctx)
}
