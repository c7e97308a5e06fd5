// Package server exposes recommendations, the librarian chat, favorites and search
// history over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shpitdev/lumina/internal/librarian"
	"github.com/shpitdev/lumina/internal/library"
	"github.com/shpitdev/lumina/internal/llm"
	"github.com/shpitdev/lumina/internal/recommend"
)

type Recommender interface {
	GetRecommendations(ctx context.Context, req recommend.Request) *recommend.Response
	Available() bool
}

type Librarian interface {
	Ask(ctx context.Context, question string, history []llm.Turn, books []string) string
}

// Library is the favorites and history store.
type Library interface {
	AddFavorite(ctx context.Context, r recommend.Recommendation) (library.Favorite, error)
	RemoveFavorite(ctx context.Context, id string) error
	Favorites(ctx context.Context) ([]library.Favorite, error)
	AddHistory(ctx context.Context, req recommend.Request) (library.Search, error)
	History(ctx context.Context) ([]library.Search, error)
	ClearHistory(ctx context.Context) error
}

type Config struct {
	Addr        string
	CORSOrigins []string
	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit       int
	ShutdownTimeout time.Duration
}

type Server struct {
	cfg       Config
	recs      Recommender
	librarian Librarian
	library   Library
	log       zerolog.Logger
}

var (
	_ Recommender = (*recommend.Service)(nil)
	_ Librarian   = (*librarian.Librarian)(nil)
	_ Library     = (*library.Store)(nil)
)

func New(cfg Config, recs Recommender, lib Librarian, store Library, log zerolog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		recs:      recs,
		librarian: lib,
		library:   store,
		log:       log,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog(s.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(httprate.Limit(s.cfg.RateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
				}),
			))
		}
		r.Post("/recommendations", s.handleRecommendations)
		r.Post("/librarian", s.handleLibrarian)
		r.Get("/favorites", s.handleListFavorites)
		r.Post("/favorites", s.handleAddFavorite)
		r.Delete("/favorites/{id}", s.handleRemoveFavorite)
		r.Get("/history", s.handleListHistory)
		r.Delete("/history", s.handleClearHistory)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
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
	s.log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
