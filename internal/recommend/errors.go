package recommend

import (
	"errors"

	"github.com/shpitdev/lumina/internal/llm"
)

var (
	// ErrUnavailable means no generative model is configured (missing credential).
	ErrUnavailable = errors.New("recommend: generative model is not configured")

	// ErrParse means the model replied but the reply is not a recommendations object.
	ErrParse = errors.New("recommend: model reply is not a valid recommendations object")

	// ErrUnexpected wraps anything else that escaped the pipeline, panics included.
	ErrUnexpected = errors.New("recommend: unexpected failure")
)

// GenerationError wraps a failed generative model call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	if e == nil || e.Err == nil {
		return "recommend: generation failed"
	}
	return "recommend: generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Transient reports whether the model failure looked temporary (rate limit, 5xx, timeout).
func (e *GenerationError) Transient() bool {
	return e != nil && llm.IsTransient(e.Err)
}
