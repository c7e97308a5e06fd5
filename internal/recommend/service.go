package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shpitdev/lumina/internal/catalog"
	"github.com/shpitdev/lumina/internal/metrics"
	"github.com/shpitdev/lumina/pkg/pipeline/redact"
	"github.com/shpitdev/lumina/pkg/pipeline/worker"
)

type Options struct {
	// Count is how many recommendations to ask the model for.
	Count int
	// Workers bounds concurrent enrichment. Zero enriches every candidate at once.
	Workers int
	// RateLimitRPS throttles catalog lookups across workers. Zero disables it.
	RateLimitRPS float64
	// RequestTimeout bounds each candidate's enrichment. Zero means no timeout.
	RequestTimeout time.Duration
}

// Service generates candidates and enriches them from the catalogs.
type Service struct {
	gen      *Generator
	enricher *Enricher
	opts     Options
	log      zerolog.Logger
}

// NewService wires a Service. A nil model makes every call fail with ErrUnavailable
// without touching the network; nil catalogs are treated as always missing.
func NewService(model TextModel, metadata catalog.MetadataSource, covers catalog.CoverSource, opts Options, log zerolog.Logger) *Service {
	s := &Service{
		enricher: NewEnricher(metadata, covers, log),
		opts:     opts,
		log:      log,
	}
	if model != nil {
		s.gen = NewGenerator(model, opts.Count)
	}
	return s
}

// Available reports whether a generative model is configured.
func (s *Service) Available() bool { return s.gen != nil }

// GetRecommendations returns enriched recommendations, or nil when anything went wrong.
// Failures are logged; callers only see the absent result.
func (s *Service) GetRecommendations(ctx context.Context, req Request) *Response {
	resp, err := s.Recommend(ctx, req)
	if err != nil {
		return nil
	}
	return resp
}

// Recommend is GetRecommendations with the failure kept. The error is ErrUnavailable,
// a *GenerationError, or wraps ErrParse or ErrUnexpected.
func (s *Service) Recommend(ctx context.Context, req Request) (resp *Response, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("%w: panic: %v", ErrUnexpected, r)
		}
		s.observe(req, resp, err, time.Since(start))
	}()

	if s.gen == nil {
		return nil, ErrUnavailable
	}

	candidates, err := s.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	recs, err := s.enrichAll(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	return &Response{Recommendations: recs}, nil
}

func (s *Service) enrichAll(ctx context.Context, candidates []Candidate) ([]Recommendation, error) {
	results, err := worker.ProcessAllWithCallback(ctx, candidates,
		func(ctx context.Context, c Candidate) (Recommendation, error) {
			return s.enricher.Enrich(ctx, c), nil
		},
		func(res worker.Result[Candidate, Recommendation]) error {
			s.log.Debug().
				Int("index", res.Index).
				Str("title", res.Input.Title).
				Bool("cover", res.Output.Thumbnail != "").
				Msg("candidate enriched")
			return nil
		},
		worker.Options{
			Workers:        s.opts.Workers,
			RequestTimeout: s.opts.RequestTimeout,
			RateLimitRPS:   s.opts.RateLimitRPS,
		},
	)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, len(results))
	for i, r := range results {
		if r.Err != nil {
			// Only the limiter or a timeout can get here; keep the bare candidate.
			out[i] = newRecommendation(r.Input)
			continue
		}
		out[i] = r.Output
	}
	return out, nil
}

func (s *Service) observe(req Request, resp *Response, err error, elapsed time.Duration) {
	if err == nil {
		metrics.RecordRecommendation(metrics.OutcomeSuccess)
		s.log.Info().
			Str("mode", string(req.Mode)).
			Int("count", len(resp.Recommendations)).
			Dur("elapsed", elapsed).
			Msg("recommendations ready")
		return
	}

	msg := redact.Secrets(err.Error())
	var genErr *GenerationError
	switch {
	case errors.Is(err, ErrUnavailable):
		metrics.RecordRecommendation(metrics.OutcomeUnavailable)
		s.log.Warn().Str("mode", string(req.Mode)).Msg("generative model credential missing; recommendations unavailable")
	case errors.As(err, &genErr):
		metrics.RecordRecommendation(metrics.OutcomeGeneration)
		s.log.Error().Str("mode", string(req.Mode)).Bool("transient", genErr.Transient()).Str("error", msg).Msg("recommendation generation failed")
	case errors.Is(err, ErrParse):
		metrics.RecordRecommendation(metrics.OutcomeParse)
		s.log.Error().Str("mode", string(req.Mode)).Str("error", msg).Msg("model reply could not be parsed")
	default:
		metrics.RecordRecommendation(metrics.OutcomeUnexpected)
		s.log.Error().Str("mode", string(req.Mode)).Str("error", msg).Msg("recommendation pipeline failed")
	}
}
