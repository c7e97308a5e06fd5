// Package llm holds the model-agnostic pieces shared by generative model clients.
package llm

import (
	"context"
	"errors"
	"net"
)

// Turn is one message in a conversation with the model.
type Turn struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// TransientError marks an upstream failure that would likely succeed later
// (rate limiting, 5xx, timeouts). Callers use it to classify failures; nothing retries.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	if e == nil || e.Err == nil {
		return "transient error"
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether err is a TransientError, a deadline, or a timing-out net.Error.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
