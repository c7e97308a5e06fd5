package recommend

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shpitdev/lumina/internal/catalog"
	"github.com/shpitdev/lumina/internal/metrics"
)

// Source labels used for lookup metrics and logs.
const (
	SourcePrimary  = "googlebooks"
	SourceFallback = "openlibrary"
)

// Enricher merges catalog metadata onto candidates. The primary source supplies
// everything it can; the cover source is consulted only when no thumbnail was found.
type Enricher struct {
	metadata catalog.MetadataSource
	covers   catalog.CoverSource
	log      zerolog.Logger
}

// NewEnricher accepts nil sources; a nil source never matches.
func NewEnricher(metadata catalog.MetadataSource, covers catalog.CoverSource, log zerolog.Logger) *Enricher {
	return &Enricher{metadata: metadata, covers: covers, log: log}
}

// Enrich never fails: every lookup problem degrades to defaults for this candidate only.
func (e *Enricher) Enrich(ctx context.Context, c Candidate) Recommendation {
	rec := newRecommendation(c)

	if md, ok := e.lookupPrimary(ctx, c); ok {
		rec.CatalogID = md.CatalogID
		if md.Genre != "" {
			rec.Genre = md.Genre
		}
		if md.Description != "" {
			rec.Description = md.Description
		}
		rec.Thumbnail = catalog.SecureURL(md.Thumbnail)
	}

	if rec.Thumbnail == "" {
		if u, ok := e.lookupCover(ctx, c); ok {
			rec.Thumbnail = catalog.SecureURL(u)
		}
	}
	return rec
}

func (e *Enricher) lookupPrimary(ctx context.Context, c Candidate) (md catalog.Metadata, ok bool) {
	if e.metadata == nil {
		return catalog.Metadata{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("title", c.Title).Interface("panic", r).Msg("primary catalog lookup panicked")
			metrics.RecordLookup(SourcePrimary, metrics.LookupError)
			md, ok = catalog.Metadata{}, false
		}
	}()

	md, err := e.metadata.Lookup(ctx, c.Title, c.Author)
	switch {
	case err == nil:
		metrics.RecordLookup(SourcePrimary, metrics.LookupHit)
		return md, true
	case errors.Is(err, catalog.ErrNotFound):
		metrics.RecordLookup(SourcePrimary, metrics.LookupMiss)
	default:
		metrics.RecordLookup(SourcePrimary, metrics.LookupError)
		e.log.Warn().
			Str("title", c.Title).
			Str("author", c.Author).
			Str("error", catalog.Redact(err.Error())).
			Msg("primary catalog lookup failed")
	}
	return catalog.Metadata{}, false
}

func (e *Enricher) lookupCover(ctx context.Context, c Candidate) (u string, ok bool) {
	if e.covers == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("title", c.Title).Interface("panic", r).Msg("cover lookup panicked")
			metrics.RecordLookup(SourceFallback, metrics.LookupError)
			u, ok = "", false
		}
	}()

	u, ok = e.covers.Cover(ctx, c.Title, c.Author)
	if ok {
		metrics.RecordLookup(SourceFallback, metrics.LookupHit)
	} else {
		metrics.RecordLookup(SourceFallback, metrics.LookupMiss)
	}
	return u, ok
}

