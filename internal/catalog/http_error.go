package catalog

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// googleErrorEnvelope is the error body shape returned by Google APIs.
type googleErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// HTTPError is a sanitized summary of a non-2xx catalog API response.
//
// Raw bodies are never included: they can echo the request URL and with it the API key.
type HTTPError struct {
	Source     string
	StatusCode int
	Status     string
	Reason     string

	// Snippet is a redacted, truncated hint for responses without a known envelope.
	Snippet string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "catalog http error"
	}
	parts := []string{
		fmt.Sprintf("catalog api error: source=%s status=%s", strings.TrimSpace(e.Source), strings.TrimSpace(e.Status)),
	}
	if strings.TrimSpace(e.Reason) != "" {
		parts = append(parts, "reason="+strings.TrimSpace(e.Reason))
	}
	if strings.TrimSpace(e.Snippet) != "" {
		parts = append(parts, "body="+strings.TrimSpace(e.Snippet))
	}
	return strings.Join(parts, " ")
}

// AuthRejected reports whether the upstream refused the credential (401/403).
func (e *HTTPError) AuthRejected() bool {
	if e == nil {
		return false
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NewHTTPError builds an HTTPError from a failed response and its (already read) body.
func NewHTTPError(source string, resp *http.Response, body []byte) *HTTPError {
	h := &HTTPError{Source: source}
	if resp != nil {
		h.StatusCode = resp.StatusCode
		h.Status = resp.Status
	}

	var env googleErrorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil && strings.TrimSpace(env.Error.Status) != "" {
		h.Reason = strings.TrimSpace(env.Error.Status)
		return h
	}

	h.Snippet = redactAndTruncate(body)
	return h
}

func redactAndTruncate(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	const max = 256
	b := body
	if len(b) > max {
		n := max
		for n > 0 && !utf8.RuneStart(body[n]) {
			n--
		}
		b = body[:n]
	}
	s := Redact(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(body) > max {
		return s + "..."
	}
	return s
}
