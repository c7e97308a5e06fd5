package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"
)

// ExtractJSON returns the first balanced {...} object in text, ignoring braces
// inside JSON strings. Models often wrap the object in prose or code fences.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object in reply", ErrParse)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: unbalanced JSON object in reply", ErrParse)
}

type replyEnvelope struct {
	Recommendations *[]*replyCandidate `json:"recommendations"`
}

// Pointer fields distinguish absent values from zero values.
type replyCandidate struct {
	Title     *string  `json:"title"`
	Author    *string  `json:"author"`
	Reasoning *string  `json:"reasoning"`
	VibeScore *float64 `json:"vibeScore"`
	Genre     *string  `json:"genre"`
}

// ParseCandidates decodes and validates a recommendations object. Any entry with a
// wrongly typed field or a blank title or author rejects the whole reply.
func ParseCandidates(raw string) ([]Candidate, error) {
	var env replyEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if env.Recommendations == nil {
		return nil, fmt.Errorf("%w: missing recommendations array", ErrParse)
	}

	entries := *env.Recommendations
	out := make([]Candidate, 0, len(entries))
	for i, e := range entries {
		c, err := e.candidate()
		if err != nil {
			return nil, fmt.Errorf("%w: recommendations[%d]: %v", ErrParse, i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *replyCandidate) candidate() (Candidate, error) {
	if r == nil {
		return Candidate{}, fmt.Errorf("entry is null")
	}
	title := deref(r.Title)
	author := deref(r.Author)
	if title == "" {
		return Candidate{}, fmt.Errorf("title is required")
	}
	if author == "" {
		return Candidate{}, fmt.Errorf("author is required")
	}

	c := Candidate{
		Title:     title,
		Author:    author,
		Reasoning: deref(r.Reasoning),
		Genre:     deref(r.Genre),
	}
	if r.VibeScore != nil {
		c.VibeScore = int(math.Round(*r.VibeScore))
	}
	return c, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
