package openlibrary

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/shpitdev/lumina/internal/catalog"
)

type recorder struct {
	mu      sync.Mutex
	queries []url.Values
	status  int
	body    string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.queries = append(r.queries, req.URL.Query())
	r.mu.Unlock()
	if r.status != 0 {
		w.WriteHeader(r.status)
	}
	_, _ = io.WriteString(w, r.body)
}

func newTestClient(t *testing.T, rec *recorder) *Client {
	t.Helper()
	ts := httptest.NewServer(rec)
	t.Cleanup(ts.Close)
	return New(Config{SearchURL: ts.URL + "/search.json", CoversURL: "https://covers.test/"})
}

func TestCover(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
		ok     bool
	}{
		{name: "cover_id", body: `{"docs":[{"cover_i":8231856,"isbn":["9780441013593"]}]}`, want: "https://covers.test/b/id/8231856-L.jpg", ok: true},
		{name: "isbn_fallback", body: `{"docs":[{"isbn":["9780441013593","0441013597"]}]}`, want: "https://covers.test/b/isbn/9780441013593-L.jpg", ok: true},
		{name: "doc_without_cover", body: `{"docs":[{"isbn":[]}]}`, ok: false},
		{name: "no_docs", body: `{"numFound":0,"docs":[]}`, ok: false},
		{name: "server_error", status: 500, body: "oops", ok: false},
		{name: "malformed", body: `{"docs":`, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{status: tt.status, body: tt.body}
			c := newTestClient(t, rec)

			got, ok := c.Cover(context.Background(), "Dune", "Frank Herbert")
			if ok != tt.ok || got != tt.want {
				t.Fatalf("Cover()=(%q,%v) want (%q,%v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFindCover_QueryShape(t *testing.T) {
	rec := &recorder{body: `{"docs":[]}`}
	c := newTestClient(t, rec)

	_, err := c.FindCover(context.Background(), " The Name of the Rose ", "Umberto Eco")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.queries) != 1 {
		t.Fatalf("expected 1 request, got %d", len(rec.queries))
	}
	q := rec.queries[0]
	if q.Get("title") != "The Name of the Rose" || q.Get("author") != "Umberto Eco" || q.Get("limit") != "1" {
		t.Fatalf("unexpected query: %v", q)
	}
}

func TestCover_UnreachableHost(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	c := New(Config{SearchURL: addr + "/search.json"})
	if got, ok := c.Cover(context.Background(), "Dune", "Frank Herbert"); ok || got != "" {
		t.Fatalf("expected miss for unreachable host, got %q", got)
	}
}
