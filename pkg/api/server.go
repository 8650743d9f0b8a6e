// Package api serves document validation, inspection and the document spool
// over HTTP.
//
// Routes live under /api/v1 and are protected by the X-API-Key header when a
// key is configured. /metrics is left open for scraping.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

// Routes builds the router with all routes configured
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", s.metrics.Handler())

	m := s.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey, m))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Post("/validate", m.InstrumentHandler("POST", "/api/v1/validate", s.handleValidate))
		r.Post("/inspect", m.InstrumentHandler("POST", "/api/v1/inspect", s.handleInspect))

		r.Post("/documents", m.InstrumentHandler("POST", "/api/v1/documents", s.handleCreateDocument))
		r.Get("/documents", m.InstrumentHandler("GET", "/api/v1/documents", s.handleListDocuments))
		r.Get("/documents/{id}", m.InstrumentHandler("GET", "/api/v1/documents/{id}", s.handleGetDocument))
		r.Get("/documents/{id}/lookup", m.InstrumentHandler("GET", "/api/v1/documents/{id}/lookup", s.handleLookup))
		r.Delete("/documents/{id}", m.InstrumentHandler("DELETE", "/api/v1/documents/{id}", s.handleDeleteDocument))
	})

	return r
}

// ListenAndServe serves the API on config.Addr until ctx is cancelled, then
// shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.refreshSpoolGauge()

	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.config.Addr).Info("starting bsonview API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
