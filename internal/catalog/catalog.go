// Package catalog defines the book-metadata lookups used to enrich model-proposed candidates.
package catalog

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound reports an empty result set. It is an expected outcome, not a failure.
var ErrNotFound = errors.New("catalog: no matching volume")

// Metadata is what a catalog contributes to a candidate. Any field may be empty.
type Metadata struct {
	CatalogID   string
	Genre       string
	Description string
	Thumbnail   string
}

// MetadataSource looks up the best matching volume for a title/author pair.
type MetadataSource interface {
	Lookup(ctx context.Context, title, author string) (Metadata, error)
}

// CoverSource resolves a cover image URL. ok is false when no cover is known.
type CoverSource interface {
	Cover(ctx context.Context, title, author string) (url string, ok bool)
}

// SecureURL upgrades an http:// scheme to https://. The rest of the URL, query
// values included, is left as is.
func SecureURL(raw string) string {
	raw = strings.TrimSpace(raw)
	const insecure = "http://"
	if len(raw) >= len(insecure) && strings.EqualFold(raw[:len(insecure)], insecure) {
		return "https://" + raw[len(insecure):]
	}
	return raw
}
