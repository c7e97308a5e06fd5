// Package recommend turns a reader's vibe or reading preferences into enriched book recommendations.
//
// A Generator asks a generative model for candidate titles; the Service then looks each
// candidate up in the book catalogs, concurrently, and merges cover art, genre and a
// description onto it.
package recommend

import (
	"fmt"
	"strings"
)

const (
	// DefaultGenre is used when neither the model nor the catalog supplies a genre.
	DefaultGenre = "Literature"
	// PlaceholderDescription is used when no catalog description is available.
	PlaceholderDescription = "No archival summary available."
	// DefaultCount is how many recommendations the model is asked for.
	DefaultCount = 5
)

type Mode string

const (
	ModeVibe       Mode = "vibe"
	ModeBlueprint  Mode = "blueprint"
	ModeRestricted Mode = "restricted"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeVibe, ModeBlueprint, ModeRestricted:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want vibe, blueprint or restricted)", s)
	}
}

// Preferences is the structured blueprint payload.
type Preferences struct {
	Genres []string `json:"genres" yaml:"genres"`
	Pacing string   `json:"pacing" yaml:"pacing"`
	Tone   string   `json:"tone" yaml:"tone"`
	Era    string   `json:"era" yaml:"era"`
}

// Request is a tagged union: VibeText is set for ModeVibe, Preferences for ModeBlueprint,
// neither for ModeRestricted. Use the constructors to keep it consistent.
type Request struct {
	Mode        Mode         `json:"mode" yaml:"mode"`
	VibeText    string       `json:"vibeText,omitempty" yaml:"vibeText,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty" yaml:"preferences,omitempty"`
}

func NewVibeRequest(vibe string) Request {
	return Request{Mode: ModeVibe, VibeText: vibe}
}

func NewBlueprintRequest(p Preferences) Request {
	return Request{Mode: ModeBlueprint, Preferences: &p}
}

func NewRestrictedRequest() Request {
	return Request{Mode: ModeRestricted}
}

// Candidate is a model-proposed book before enrichment.
type Candidate struct {
	Title     string
	Author    string
	Reasoning string
	VibeScore int
	// Genre is only set when the model volunteered one.
	Genre string
}

// Recommendation is a Candidate with catalog metadata merged in.
type Recommendation struct {
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	Reasoning   string `json:"reasoning" yaml:"reasoning"`
	VibeScore   int    `json:"vibeScore" yaml:"vibeScore"`
	CatalogID   string `json:"catalogId" yaml:"catalogId"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail"`
	Genre       string `json:"genre" yaml:"genre"`
	Description string `json:"description" yaml:"description"`
}

type Response struct {
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
}

// newRecommendation applies the defaults for a candidate nothing is known about yet.
func newRecommendation(c Candidate) Recommendation {
	genre := strings.TrimSpace(c.Genre)
	if genre == "" {
		genre = DefaultGenre
	}
	return Recommendation{
		Title:       c.Title,
		Author:      c.Author,
		Reasoning:   c.Reasoning,
		VibeScore:   c.VibeScore,
		Genre:       genre,
		Description: PlaceholderDescription,
	}
}
