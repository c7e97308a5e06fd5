package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

func TestSecureURL(t *testing.T) {
	tests := map[string]string{
		"":                                    "",
		"  http://books.google.com/x.jpg  ":   "https://books.google.com/x.jpg",
		"https://covers.openlibrary.org/b/id": "https://covers.openlibrary.org/b/id",
		"HTTP://books.google.com/x.jpg":       "https://books.google.com/x.jpg",
		"http://a/?next=http://b":             "https://a/?next=http://b",
		"https://x/?u=http://y":               "https://x/?u=http://y",
		"//covers.openlibrary.org/b/id/1.jpg": "//covers.openlibrary.org/b/id/1.jpg",
	}
	for in, want := range tests {
		if got := SecureURL(in); got != want {
			t.Fatalf("SecureURL(%q)=%q want %q", in, got, want)
		}
		if got := strings.ToLower(SecureURL(in)); strings.HasPrefix(got, "http://") {
			t.Fatalf("SecureURL(%q) kept an insecure scheme", in)
		}
	}
}

func TestNewHTTPError_GoogleEnvelope(t *testing.T) {
	resp := &http.Response{StatusCode: 403, Status: "403 Forbidden"}
	body := []byte(`{"error":{"code":403,"message":"The request is missing a valid API key.","status":"PERMISSION_DENIED"}}`)

	err := NewHTTPError("googlebooks", resp, body)
	if !err.AuthRejected() {
		t.Fatalf("expected auth rejection for 403")
	}
	if err.Reason != "PERMISSION_DENIED" || err.Snippet != "" {
		t.Fatalf("unexpected error fields: %#v", err)
	}
	if !strings.Contains(err.Error(), "status=403 Forbidden") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestNewHTTPError_RedactsSnippet(t *testing.T) {
	resp := &http.Response{StatusCode: 502, Status: "502 Bad Gateway"}
	err := NewHTTPError("googlebooks", resp, []byte("upstream said: /volumes?q=x&key=AIzaSecret\n"))
	if err.AuthRejected() {
		t.Fatalf("502 is not an auth rejection")
	}
	if strings.Contains(err.Error(), "AIzaSecret") {
		t.Fatalf("key leaked: %s", err.Error())
	}
}

type countingSource struct {
	calls int
	err   error
}

func (c *countingSource) Lookup(context.Context, string, string) (Metadata, error) {
	c.calls++
	return Metadata{}, c.err
}

func TestGuardMetadata_OpensAfterConsecutiveFailures(t *testing.T) {
	src := &countingSource{err: errors.New("connection refused")}
	g := GuardMetadata("googlebooks", src, BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if _, err := g.Lookup(context.Background(), "Dune", "Frank Herbert"); err == nil {
			t.Fatalf("expected error on call %d", i)
		}
	}
	_, err := g.Lookup(context.Background(), "Dune", "Frank Herbert")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", src.calls)
	}
}

func TestGuardMetadata_NotFoundDoesNotTrip(t *testing.T) {
	src := &countingSource{err: ErrNotFound}
	g := GuardMetadata("googlebooks", src, BreakerConfig{FailureThreshold: 1}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, err := g.Lookup(context.Background(), "Unknown", "Nobody"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if src.calls != 3 {
		t.Fatalf("expected every call to reach upstream, got %d", src.calls)
	}
}

func TestGuardMetadata_DisabledReturnsSource(t *testing.T) {
	src := &countingSource{}
	if g := GuardMetadata("googlebooks", src, BreakerConfig{}, zerolog.Nop()); g != MetadataSource(src) {
		t.Fatalf("expected unwrapped source when breaker disabled")
	}
}

type coverFunc func(ctx context.Context, title, author string) (string, error)

func (f coverFunc) FindCover(ctx context.Context, title, author string) (string, error) {
	return f(ctx, title, author)
}

func TestCovers_SwallowsErrors(t *testing.T) {
	failing := Covers(coverFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("dial tcp: refused")
	}))
	if u, ok := failing.Cover(context.Background(), "Dune", "Frank Herbert"); ok || u != "" {
		t.Fatalf("expected miss, got %q %v", u, ok)
	}

	found := Covers(GuardCover("openlibrary", coverFunc(func(context.Context, string, string) (string, error) {
		return "https://covers.openlibrary.org/b/id/42-L.jpg", nil
	}), BreakerConfig{FailureThreshold: 3}, zerolog.Nop()))
	if u, ok := found.Cover(context.Background(), "Dune", "Frank Herbert"); !ok || u != "https://covers.openlibrary.org/b/id/42-L.jpg" {
		t.Fatalf("unexpected cover: %q %v", u, ok)
	}
}

func TestRedact_KeyQueryParam(t *testing.T) {
	in := `Get "https://www.googleapis.com/books/v1/volumes?maxResults=1&key=AIzaSy123&q=dune": EOF`
	want := `Get "https://www.googleapis.com/books/v1/volumes?maxResults=1&key=<redacted>&q=dune": EOF`
	if got := Redact(in); got != want {
		t.Fatalf("Redact=%q want %q", got, want)
	}
	if got := Redact("GOOGLE_API_KEY=AIzaSy123"); strings.Contains(got, "AIzaSy123") {
		t.Fatalf("generic secrets not redacted: %q", got)
	}
}

func TestNewHTTPError_TruncatesOnRuneBoundary(t *testing.T) {
	// 255 ASCII bytes then a 3-byte rune straddling the 256-byte cut.
	body := []byte(strings.Repeat("a", 255) + "書" + strings.Repeat("b", 10))
	err := NewHTTPError("openlibrary", &http.Response{StatusCode: 500, Status: "500 Internal Server Error"}, body)

	if !utf8.ValidString(err.Snippet) {
		t.Fatalf("snippet is not valid utf-8: %q", err.Snippet)
	}
	if want := strings.Repeat("a", 255) + "..."; err.Snippet != want {
		t.Fatalf("unexpected snippet %q", err.Snippet)
	}
}
