// Package config loads Lumina's layered configuration: defaults, an optional YAML file,
// then environment variables.
package config

import (
	"time"
)

// Config is the full runtime configuration.
type Config struct {
	Gemini  GeminiConfig  `koanf:"gemini" yaml:"gemini"`
	Catalog CatalogConfig `koanf:"catalog" yaml:"catalog"`
	Enrich  EnrichConfig  `koanf:"enrich" yaml:"enrich"`
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Library LibraryConfig `koanf:"library" yaml:"library"`
	Logging LoggingConfig `koanf:"logging" yaml:"logging"`
}

type GeminiConfig struct {
	// APIKey is optional. Without it the service runs but cannot recommend.
	APIKey  string `koanf:"api_key" yaml:"api_key"`
	Model   string `koanf:"model" yaml:"model" validate:"required"`
	BaseURL string `koanf:"base_url" yaml:"base_url" validate:"omitempty,url"`
	// Count is how many recommendations each request asks for.
	Count int `koanf:"count" yaml:"count" validate:"min=1,max=20"`
	// Timeout bounds the generation call. Zero means no timeout.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout" validate:"min=0"`
}

type CatalogConfig struct {
	GoogleBooksURL string `koanf:"google_books_url" yaml:"google_books_url" validate:"required,url"`
	// APIKey for Google Books; falls back to the Gemini key.
	APIKey               string        `koanf:"api_key" yaml:"api_key"`
	OpenLibrarySearchURL string        `koanf:"openlibrary_search_url" yaml:"openlibrary_search_url" validate:"required,url"`
	OpenLibraryCoversURL string        `koanf:"openlibrary_covers_url" yaml:"openlibrary_covers_url" validate:"required,url"`
	HTTPTimeout          time.Duration `koanf:"http_timeout" yaml:"http_timeout" validate:"min=0"`
	// BreakerThreshold is the consecutive failures that open a source's breaker. Zero disables it.
	BreakerThreshold uint32        `koanf:"breaker_threshold" yaml:"breaker_threshold"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout" yaml:"breaker_timeout" validate:"min=0"`
}

type EnrichConfig struct {
	// Workers bounds concurrent candidate enrichment. Zero enriches all at once.
	Workers        int           `koanf:"workers" yaml:"workers" validate:"min=0"`
	RateLimitRPS   float64       `koanf:"rate_limit_rps" yaml:"rate_limit_rps" validate:"min=0"`
	RequestTimeout time.Duration `koanf:"request_timeout" yaml:"request_timeout" validate:"min=0"`
}

type ServerConfig struct {
	Addr        string   `koanf:"addr" yaml:"addr" validate:"required"`
	CORSOrigins []string `koanf:"cors_origins" yaml:"cors_origins"`
	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit       int           `koanf:"rate_limit" yaml:"rate_limit" validate:"min=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout" validate:"min=0"`
}

type LibraryConfig struct {
	// Path is the BadgerDB directory. Empty keeps favorites and history in memory.
	Path string `koanf:"path" yaml:"path"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"oneof=trace debug info warn error disabled off"`
	Format string `koanf:"format" yaml:"format" validate:"oneof=json console"`
}

// Default returns the configuration used before any file or environment is applied.
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model: "gemini-3-flash-preview",
			Count: 5,
		},
		Catalog: CatalogConfig{
			GoogleBooksURL:       "https://www.googleapis.com/books/v1/volumes",
			OpenLibrarySearchURL: "https://openlibrary.org/search.json",
			OpenLibraryCoversURL: "https://covers.openlibrary.org",
			HTTPTimeout:          10 * time.Second,
			BreakerThreshold:     5,
			BreakerTimeout:       30 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"*"},
			RateLimit:       120,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// CatalogKey is the key sent to Google Books.
func (c *Config) CatalogKey() string {
	if c.Catalog.APIKey != "" {
		return c.Catalog.APIKey
	}
	return c.Gemini.APIKey
}
