// Package openlibrary resolves cover images from the Open Library search API.
package openlibrary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shpitdev/lumina/internal/catalog"
	"github.com/shpitdev/lumina/internal/version"
)

const (
	DefaultSearchURL = "https://openlibrary.org/search.json"
	DefaultCoversURL = "https://covers.openlibrary.org"
)

const source = "openlibrary"

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	SearchURL string
	CoversURL string
	HTTP      Doer
}

type Client struct {
	searchURL string
	coversURL string
	http      Doer
}

var (
	_ catalog.CoverFinder = (*Client)(nil)
	_ catalog.CoverSource = (*Client)(nil)
)

func New(cfg Config) *Client {
	search := strings.TrimSpace(cfg.SearchURL)
	if search == "" {
		search = DefaultSearchURL
	}
	covers := strings.TrimRight(strings.TrimSpace(cfg.CoversURL), "/")
	if covers == "" {
		covers = DefaultCoversURL
	}
	hc := cfg.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{searchURL: search, coversURL: covers, http: hc}
}

type searchResponse struct {
	Docs []doc `json:"docs"`
}

type doc struct {
	CoverI int64    `json:"cover_i"`
	ISBN   []string `json:"isbn"`
}

// Cover returns a large cover URL for the best match. Every failure is reported as ok=false.
func (c *Client) Cover(ctx context.Context, title, author string) (string, bool) {
	u, err := c.FindCover(ctx, title, author)
	if err != nil {
		return "", false
	}
	return u, true
}

// FindCover is Cover with the failure reason kept: catalog.ErrNotFound when the
// best match has neither a cover id nor an ISBN.
func (c *Client) FindCover(ctx context.Context, title, author string) (string, error) {
	q := url.Values{}
	q.Set("title", strings.TrimSpace(title))
	if a := strings.TrimSpace(author); a != "" {
		q.Set("author", a)
	}
	q.Set("limit", "1")
	q.Set("fields", "cover_i,isbn")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", catalog.NewHTTPError(source, resp, b)
	}

	var out searchResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return "", fmt.Errorf("openlibrary: parse search response: %w", err)
	}
	if len(out.Docs) == 0 {
		return "", catalog.ErrNotFound
	}
	return c.coverURL(out.Docs[0])
}

func (c *Client) coverURL(d doc) (string, error) {
	if d.CoverI > 0 {
		return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, d.CoverI), nil
	}
	if len(d.ISBN) > 0 && strings.TrimSpace(d.ISBN[0]) != "" {
		return fmt.Sprintf("%s/b/isbn/%s-L.jpg", c.coversURL, url.PathEscape(strings.TrimSpace(d.ISBN[0]))), nil
	}
	return "", catalog.ErrNotFound
}
