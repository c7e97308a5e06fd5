package mockcatalog_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shpitdev/lumina/internal/mockcatalog"
)

func get(t *testing.T, rawURL string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(rawURL)
	if err != nil {
		t.Fatalf("get %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", rawURL, err)
	}
	return resp.StatusCode, out
}

func TestVolumes(t *testing.T) {
	srv := mockcatalog.New(mockcatalog.DefaultShelf()...)
	srv.RequireAPIKey("good")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	q := url.Values{"q": {"intitle:Piranesi inauthor:Susanna Clarke"}, "key": {"good"}}
	status, body := get(t, ts.URL+mockcatalog.VolumesPath+"?"+q.Encode())
	if status != http.StatusOK || body["totalItems"].(float64) != 1 {
		t.Fatalf("unexpected response %d %v", status, body)
	}

	q.Set("key", "bad")
	if status, _ := get(t, ts.URL+mockcatalog.VolumesPath+"?"+q.Encode()); status != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong key, got %d", status)
	}

	q = url.Values{"q": {"intitle:The Hearing Trumpet inauthor:Leonora Carrington"}}
	if _, body := get(t, ts.URL+mockcatalog.VolumesPath+"?"+q.Encode()); body["totalItems"].(float64) != 0 {
		t.Fatalf("expected no volume for openlibrary-only book: %v", body)
	}

	if got := len(srv.CallsTo(mockcatalog.VolumesPath)); got != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", got)
	}
}

func TestSearch(t *testing.T) {
	srv := mockcatalog.New(mockcatalog.DefaultShelf()...)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_, body := get(t, ts.URL+mockcatalog.SearchPath+"?title=The+Hearing+Trumpet&limit=1")
	docs := body["docs"].([]any)
	if len(docs) != 1 || docs[0].(map[string]any)["isbn"].([]any)[0] != "9781878972101" {
		t.Fatalf("unexpected docs: %v", docs)
	}

	_, body = get(t, ts.URL+mockcatalog.SearchPath+"?title=Piranesi")
	if len(body["docs"].([]any)) != 0 {
		t.Fatalf("expected no docs for a book without covers: %v", body)
	}
}

func TestGenerate(t *testing.T) {
	srv := mockcatalog.New(mockcatalog.DefaultShelf()...)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	endpoint := ts.URL + "/v1beta/models/gemini-test:generateContent"
	resp, err := http.Post(endpoint, "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(b), "Piranesi") || !strings.Contains(string(b), "recommendations") {
		t.Fatalf("unexpected generate response %d: %s", resp.StatusCode, b)
	}

	srv.FailGeneration(http.StatusTooManyRequests)
	resp, err = http.Post(endpoint, "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}

	if calls := srv.CallsTo(":generateContent"); len(calls) != 2 || calls[0].Method != http.MethodPost {
		t.Fatalf("unexpected calls: %#v", calls)
	}
}
