// Package mockcatalog fakes the three upstreams Lumina talks to: the Gemini
// generateContent endpoint, the Google Books volumes search and the OpenLibrary search.
package mockcatalog

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// Upstream paths served by Handler.
const (
	VolumesPath = "/books/v1/volumes"
	SearchPath  = "/search.json"
)

// Call records a request made to the mock service.
type Call struct {
	Method string
	Path   string
	Query  string
}

// Book is one title the fake catalogs know about.
type Book struct {
	Title     string
	Author    string
	Reasoning string
	VibeScore int

	// Google Books fields; a book without VolumeID is unknown to Google Books.
	VolumeID    string
	Categories  []string
	Description string
	Thumbnail   string

	// OpenLibrary fields; a book with neither is unknown to OpenLibrary.
	CoverID int
	ISBN    string
}

// Server implements a minimal fake of the Gemini, Google Books and OpenLibrary APIs.
type Server struct {
	mu    sync.Mutex
	calls []Call

	books []Book
	// reply overrides the generated recommendations text when non-empty.
	reply            string
	generationStatus int
	apiKey           string
}

// New constructs a mock seeded with books.
func New(books ...Book) *Server {
	return &Server{books: books}
}

// AddBook adds a title to the shelf.
func (s *Server) AddBook(b Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = append(s.books, b)
}

// SetReply makes generateContent answer with text verbatim instead of the shelf.
func (s *Server) SetReply(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply = text
}

// FailGeneration makes generateContent answer with status. Zero restores success.
func (s *Server) FailGeneration(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generationStatus = status
}

// RequireAPIKey makes the volumes endpoint reject any other non-empty key with 403.
// Unkeyed requests are always served, like Google's public quota.
func (s *Server) RequireAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = strings.TrimSpace(key)
}

// Handler returns an http.Handler that serves the mock API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(VolumesPath, s.handleVolumes)
	mux.HandleFunc(SearchPath, s.handleSearch)
	mux.HandleFunc("/", s.handleGenerate)
	return mux
}

// Calls returns a snapshot of calls made to the server.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded calls whose path ends with suffix.
func (s *Server) CallsTo(suffix string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if strings.HasSuffix(c.Path, suffix) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) recordCall(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery})
}

func (s *Server) find(title string) (Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.books {
		if strings.EqualFold(strings.TrimSpace(b.Title), strings.TrimSpace(title)) {
			return b, true
		}
	}
	return Book{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if !strings.HasSuffix(r.URL.Path, ":generateContent") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, _ = io.Copy(io.Discard, r.Body)

	s.mu.Lock()
	status := s.generationStatus
	text := s.reply
	books := append([]Book(nil), s.books...)
	s.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		writeJSON(w, status, map[string]any{
			"error": map[string]any{"code": status, "message": "mock generation failure", "status": http.StatusText(status)},
		})
		return
	}
	if text == "" {
		text = recommendationsText(books)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": text}},
			},
			"finishReason": "STOP",
		}},
	})
}

func recommendationsText(books []Book) string {
	type rec struct {
		Title     string `json:"title"`
		Author    string `json:"author"`
		Reasoning string `json:"reasoning"`
		VibeScore int    `json:"vibeScore"`
	}
	recs := make([]rec, 0, len(books))
	for _, b := range books {
		recs = append(recs, rec{Title: b.Title, Author: b.Author, Reasoning: b.Reasoning, VibeScore: b.VibeScore})
	}
	b, _ := json.Marshal(map[string]any{"recommendations": recs})
	return "Here are some books from the archive:\n```json\n" + string(b) + "\n```"
}

// parseVolumesQuery splits "intitle:<title> inauthor:<author>".
func parseVolumesQuery(q string) (title, author string) {
	q = strings.TrimPrefix(strings.TrimSpace(q), "intitle:")
	title, author, _ = strings.Cut(q, " inauthor:")
	return strings.TrimSpace(title), strings.TrimSpace(author)
}

func (s *Server) handleVolumes(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	want := s.apiKey
	s.mu.Unlock()
	if key := r.URL.Query().Get("key"); key != "" && want != "" && key != want {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error": map[string]any{"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"},
		})
		return
	}

	title, _ := parseVolumesQuery(r.URL.Query().Get("q"))
	b, ok := s.find(title)
	if !ok || b.VolumeID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"kind": "books#volumes", "totalItems": 0})
		return
	}

	info := map[string]any{
		"title":       b.Title,
		"authors":     []string{b.Author},
		"categories":  b.Categories,
		"description": b.Description,
	}
	if b.Thumbnail != "" {
		info["imageLinks"] = map[string]any{"thumbnail": b.Thumbnail}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"kind":       "books#volumes",
		"totalItems": 1,
		"items":      []any{map[string]any{"id": b.VolumeID, "volumeInfo": info}},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	b, ok := s.find(r.URL.Query().Get("title"))
	if !ok || (b.CoverID == 0 && b.ISBN == "") {
		writeJSON(w, http.StatusOK, map[string]any{"numFound": 0, "docs": []any{}})
		return
	}
	doc := map[string]any{}
	if b.CoverID != 0 {
		doc["cover_i"] = b.CoverID
	}
	if b.ISBN != "" {
		doc["isbn"] = []string{b.ISBN}
	}
	writeJSON(w, http.StatusOK, map[string]any{"numFound": 1, "docs": []any{doc}})
}

// DefaultShelf is a small catalog for local development.
func DefaultShelf() []Book {
	return []Book{
		{
			Title: "Piranesi", Author: "Susanna Clarke", VibeScore: 96,
			Reasoning:   "A hushed, tidal labyrinth that rewards slow, wondering reading.",
			VolumeID:    "mock-piranesi",
			Categories:  []string{"Fantasy"},
			Description: "Piranesi lives in the House, a world of endless halls and captive tides.",
			Thumbnail:   "http://books.example/piranesi.jpg",
		},
		{
			Title: "The Secret History", Author: "Donna Tartt", VibeScore: 91,
			Reasoning:   "Dark academia steeped in Greek tragedy and winter light.",
			VolumeID:    "mock-secret-history",
			Categories:  []string{"Fiction"},
			Description: "A clique of classics students drifts from beauty into murder.",
			CoverID:     8231991,
		},
		{
			Title: "The Hearing Trumpet", Author: "Leonora Carrington", VibeScore: 84,
			Reasoning: "A surrealist cult classic full of mischief.",
			ISBN:      "9781878972101",
		},
	}
}
