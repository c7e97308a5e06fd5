package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	// Zero disables the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through.
	OpenTimeout time.Duration
}

// CoverFinder is a CoverSource that reports why a lookup failed.
type CoverFinder interface {
	FindCover(ctx context.Context, title, author string) (string, error)
}

func newBreaker[T any](name string, cfg BreakerConfig, log zerolog.Logger) *gobreaker.CircuitBreaker[T] {
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A miss is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("catalog breaker state change")
		},
	})
}

type guardedMetadata struct {
	src MetadataSource
	cb  *gobreaker.CircuitBreaker[Metadata]
}

// GuardMetadata wraps src with a circuit breaker. While open, lookups fail fast
// with gobreaker.ErrOpenState, which callers treat as a miss.
func GuardMetadata(name string, src MetadataSource, cfg BreakerConfig, log zerolog.Logger) MetadataSource {
	if cfg.FailureThreshold == 0 {
		return src
	}
	return &guardedMetadata{src: src, cb: newBreaker[Metadata](name, cfg, log)}
}

func (g *guardedMetadata) Lookup(ctx context.Context, title, author string) (Metadata, error) {
	return g.cb.Execute(func() (Metadata, error) {
		return g.src.Lookup(ctx, title, author)
	})
}

type guardedCover struct {
	src CoverFinder
	cb  *gobreaker.CircuitBreaker[string]
}

// GuardCover wraps src with a circuit breaker.
func GuardCover(name string, src CoverFinder, cfg BreakerConfig, log zerolog.Logger) CoverFinder {
	if cfg.FailureThreshold == 0 {
		return src
	}
	return &guardedCover{src: src, cb: newBreaker[string](name, cfg, log)}
}

func (g *guardedCover) FindCover(ctx context.Context, title, author string) (string, error) {
	return g.cb.Execute(func() (string, error) {
		return g.src.FindCover(ctx, title, author)
	})
}

type coverSource struct {
	f CoverFinder
}

// Covers adapts a CoverFinder into a CoverSource that swallows every failure.
func Covers(f CoverFinder) CoverSource {
	return coverSource{f: f}
}

func (c coverSource) Cover(ctx context.Context, title, author string) (string, bool) {
	u, err := c.f.FindCover(ctx, title, author)
	if err != nil || u == "" {
		return "", false
	}
	return u, true
}
