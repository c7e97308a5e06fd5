// Package googlebooks queries the Google Books volumes API for cover art, categories and descriptions.
package googlebooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/shpitdev/lumina/internal/catalog"
	"github.com/shpitdev/lumina/internal/version"
)

const DefaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

const source = "googlebooks"

// Doer is the subset of *http.Client the client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	// BaseURL is the volumes search endpoint.
	BaseURL string
	// APIKey is optional. When set it is tried first; the public quota is used
	// only if Google rejects the key.
	APIKey string
	// HTTP defaults to a client with a 10s timeout.
	HTTP Doer
	Log  zerolog.Logger
}

// Client is a minimal Google Books volumes search client.
type Client struct {
	baseURL string
	apiKey  string
	http    Doer
	log     zerolog.Logger
}

var _ catalog.MetadataSource = (*Client)(nil)

func New(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: base,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    hc,
		log:     cfg.Log,
	}
}

type volumesResponse struct {
	Items []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title       string     `json:"title"`
	Categories  []string   `json:"categories"`
	Description string     `json:"description"`
	ImageLinks  imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
	ExtraLarge     string `json:"extraLarge"`
}

// Lookup returns metadata for the first volume matching title and author.
//
// It returns catalog.ErrNotFound for an empty result set. If the keyed request is
// rejected with 401/403 the request is repeated once without the key; other
// failures are returned as-is.
func (c *Client) Lookup(ctx context.Context, title, author string) (catalog.Metadata, error) {
	resp, err := c.search(ctx, title, author, c.apiKey)
	// Only a refused key earns the public-quota attempt. A 429 or 5xx says nothing
	// about the key, and retrying it unkeyed would just spend the shared quota.
	if c.apiKey != "" && isAuthRejected(err) {
		c.log.Debug().Str("title", title).Err(err).Msg("google books rejected api key; retrying unauthenticated")
		resp, err = c.search(ctx, title, author, "")
	}
	if err != nil {
		return catalog.Metadata{}, err
	}
	if len(resp.Items) == 0 {
		return catalog.Metadata{}, catalog.ErrNotFound
	}
	return toMetadata(resp.Items[0]), nil
}

func isAuthRejected(err error) bool {
	var he *catalog.HTTPError
	return errors.As(err, &he) && he.AuthRejected()
}

// Query builds the "intitle: inauthor:" search expression.
func Query(title, author string) string {
	return fmt.Sprintf("intitle:%s inauthor:%s", strings.TrimSpace(title), strings.TrimSpace(author))
}

func (c *Client) search(ctx context.Context, title, author, key string) (volumesResponse, error) {
	q := url.Values{}
	q.Set("q", Query(title, author))
	q.Set("maxResults", "1")
	if key != "" {
		q.Set("key", key)
	}
	endpoint := c.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return volumesResponse{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return volumesResponse{}, &transportError{err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return volumesResponse{}, err
	}
	if resp.StatusCode/100 != 2 {
		return volumesResponse{}, catalog.NewHTTPError(source, resp, b)
	}

	var out volumesResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return volumesResponse{}, fmt.Errorf("googlebooks: parse volumes response: %w", err)
	}
	return out, nil
}

func toMetadata(v volume) catalog.Metadata {
	info := v.VolumeInfo
	md := catalog.Metadata{
		CatalogID:   strings.TrimSpace(v.ID),
		Description: strings.TrimSpace(info.Description),
		Thumbnail:   catalog.SecureURL(bestImage(info.ImageLinks)),
	}
	for _, c := range info.Categories {
		if c = strings.TrimSpace(c); c != "" {
			md.Genre = c
			break
		}
	}
	return md
}

// bestImage prefers the largest available rendition.
func bestImage(l imageLinks) string {
	for _, u := range []string{l.ExtraLarge, l.Large, l.Medium, l.Thumbnail, l.SmallThumbnail} {
		if strings.TrimSpace(u) != "" {
			return u
		}
	}
	return ""
}

// transportError hides the request URL (and with it the key) that url.Error embeds.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "googlebooks: " + catalog.Redact(e.err.Error()) }

func (e *transportError) Unwrap() error { return e.err }
