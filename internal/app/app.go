// Package app wires configuration into the recommendation service, librarian, store and HTTP server.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shpitdev/lumina/internal/catalog"
	"github.com/shpitdev/lumina/internal/catalog/googlebooks"
	"github.com/shpitdev/lumina/internal/catalog/openlibrary"
	"github.com/shpitdev/lumina/internal/config"
	"github.com/shpitdev/lumina/internal/librarian"
	"github.com/shpitdev/lumina/internal/library"
	"github.com/shpitdev/lumina/internal/llm/gemini"
	"github.com/shpitdev/lumina/internal/recommend"
	"github.com/shpitdev/lumina/internal/server"
)

// App holds the wired components. Close releases the store.
type App struct {
	Config    *config.Config
	Service   *recommend.Service
	Librarian *librarian.Librarian
	Library   *library.Store
	Server    *server.Server

	log zerolog.Logger
}

// New builds every component from cfg. A missing Gemini key is not an error: the
// service starts and every recommendation comes back empty.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	var (
		model recommend.TextModel
		chat  librarian.ChatModel
	)
	if cfg.Gemini.APIKey != "" {
		gc, err := gemini.New(ctx, gemini.Config{
			APIKey:         cfg.Gemini.APIKey,
			Model:          cfg.Gemini.Model,
			BaseURL:        cfg.Gemini.BaseURL,
			ResponseSchema: gemini.RecommendationsSchema,
		})
		if err != nil {
			return nil, err
		}
		model = deadlineModel{model: gc, timeout: cfg.Gemini.Timeout}
		chat = gc
		log.Info().Str("model", gc.Model()).Msg("gemini configured")
	} else {
		log.Warn().Msg("GOOGLE_API_KEY is not set; recommendations and the librarian are unavailable")
	}

	hc := &http.Client{Timeout: cfg.Catalog.HTTPTimeout}
	breaker := catalog.BreakerConfig{
		FailureThreshold: cfg.Catalog.BreakerThreshold,
		OpenTimeout:      cfg.Catalog.BreakerTimeout,
	}
	books := googlebooks.New(googlebooks.Config{
		BaseURL: cfg.Catalog.GoogleBooksURL,
		APIKey:  cfg.CatalogKey(),
		HTTP:    hc,
		Log:     log.With().Str("source", recommend.SourcePrimary).Logger(),
	})
	covers := openlibrary.New(openlibrary.Config{
		SearchURL: cfg.Catalog.OpenLibrarySearchURL,
		CoversURL: cfg.Catalog.OpenLibraryCoversURL,
		HTTP:      hc,
	})

	svc := recommend.NewService(
		model,
		catalog.GuardMetadata(recommend.SourcePrimary, books, breaker, log),
		catalog.Covers(catalog.GuardCover(recommend.SourceFallback, covers, breaker, log)),
		recommend.Options{
			Count:          cfg.Gemini.Count,
			Workers:        cfg.Enrich.Workers,
			RateLimitRPS:   cfg.Enrich.RateLimitRPS,
			RequestTimeout: cfg.Enrich.RequestTimeout,
		},
		log.With().Str("component", "recommend").Logger(),
	)

	store, err := library.Open(cfg.Library.Path, log)
	if err != nil {
		return nil, err
	}
	lib := librarian.New(chat, log.With().Str("component", "librarian").Logger())

	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimit:       cfg.Server.RateLimit,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, svc, lib, store, log.With().Str("component", "http").Logger())

	return &App{
		Config:    cfg,
		Service:   svc,
		Librarian: lib,
		Library:   store,
		Server:    srv,
		log:       log,
	}, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a == nil || a.Library == nil {
		return nil
	}
	return a.Library.Close()
}
