package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/shpitdev/lumina/internal/librarian"
	"github.com/shpitdev/lumina/internal/library"
	"github.com/shpitdev/lumina/internal/llm"
	"github.com/shpitdev/lumina/internal/recommend"
)

// ErrNoRecommendations is the body message for an absent recommendation result.
const ErrNoRecommendations = "no recommendations available, try again"

const maxBodyBytes = 1 << 20

var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decode reads a JSON body into v and validates it.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "invalid field "+verrs[0].Namespace()+": "+verrs[0].Tag())
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

type preferencesBody struct {
	Genres []string `json:"genres" validate:"max=5,dive,max=64"`
	Pacing string   `json:"pacing" validate:"max=64"`
	Tone   string   `json:"tone" validate:"max=64"`
	Era    string   `json:"era" validate:"max=64"`
}

type recommendationsBody struct {
	Mode        string           `json:"mode" validate:"required,oneof=vibe blueprint restricted"`
	VibeText    string           `json:"vibeText" validate:"max=2000"`
	Preferences *preferencesBody `json:"preferences"`
}

func (b recommendationsBody) request() recommend.Request {
	switch recommend.Mode(b.Mode) {
	case recommend.ModeVibe:
		return recommend.NewVibeRequest(b.VibeText)
	case recommend.ModeRestricted:
		return recommend.NewRestrictedRequest()
	default:
		var p recommend.Preferences
		if b.Preferences != nil {
			p = recommend.Preferences{
				Genres: b.Preferences.Genres,
				Pacing: b.Preferences.Pacing,
				Tone:   b.Preferences.Tone,
				Era:    b.Preferences.Era,
			}
		}
		return recommend.NewBlueprintRequest(p)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"modelAvailable": s.recs.Available(),
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var body recommendationsBody
	if !decode(w, r, &body) {
		return
	}
	req := body.request()

	resp := s.recs.GetRecommendations(r.Context(), req)
	if resp == nil {
		writeError(w, http.StatusServiceUnavailable, ErrNoRecommendations)
		return
	}

	if req.Mode != recommend.ModeRestricted && s.library != nil {
		if _, err := s.library.AddHistory(r.Context(), req); err != nil {
			s.log.Warn().Err(err).Msg("record search history")
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type turnBody struct {
	Role    string `json:"role" validate:"required,oneof=user librarian model"`
	Content string `json:"content" validate:"max=8000"`
}

type librarianBody struct {
	Question string     `json:"question" validate:"required,max=2000"`
	History  []turnBody `json:"history" validate:"max=50,dive"`
	Books    []string   `json:"books" validate:"max=20,dive,max=256"`
}

func (s *Server) handleLibrarian(w http.ResponseWriter, r *http.Request) {
	var body librarianBody
	if !decode(w, r, &body) {
		return
	}
	history := make([]llm.Turn, 0, len(body.History))
	for _, t := range body.History {
		history = append(history, llm.Turn{Role: librarian.ParseRole(t.Role), Content: t.Content})
	}
	answer := s.librarian.Ask(r.Context(), body.Question, history, body.Books)
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

type favoriteBody struct {
	Title       string `json:"title" validate:"required,max=512"`
	Author      string `json:"author" validate:"required,max=512"`
	Reasoning   string `json:"reasoning"`
	VibeScore   int    `json:"vibeScore"`
	CatalogID   string `json:"catalogId" validate:"max=128"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,url"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.library.Favorites(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list favorites")
		writeError(w, http.StatusInternalServerError, "could not list favorites")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"favorites": favs})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var body favoriteBody
	if !decode(w, r, &body) {
		return
	}
	fav, err := s.library.AddFavorite(r.Context(), recommend.Recommendation(body))
	if err != nil {
		s.log.Error().Err(err).Msg("add favorite")
		writeError(w, http.StatusInternalServerError, "could not save favorite")
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	err := s.library.RemoveFavorite(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, library.ErrNotFound):
		writeError(w, http.StatusNotFound, "favorite not found")
	default:
		s.log.Error().Err(err).Str("id", id).Msg("remove favorite")
		writeError(w, http.StatusInternalServerError, "could not remove favorite")
	}
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.library.History(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list history")
		writeError(w, http.StatusInternalServerError, "could not list history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": h})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.library.ClearHistory(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("clear history")
		writeError(w, http.StatusInternalServerError, "could not clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
