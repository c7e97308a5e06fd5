// Package librarian answers follow-up questions about a set of recommended books.
package librarian

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shpitdev/lumina/internal/llm"
	"github.com/shpitdev/lumina/pkg/pipeline/redact"
)

// Apology is returned whenever the model cannot be reached.
const Apology = "I apologize, the magical link to my archives has flickered. Please try again."

const maxOutputTokens = 500

// ChatModel is a multi-turn generative model. *gemini.Client satisfies it.
type ChatModel interface {
	Chat(ctx context.Context, history []llm.Turn, message string, maxOutputTokens int) (string, error)
}

type Librarian struct {
	model ChatModel
	log   zerolog.Logger
}

// New returns a Librarian. A nil model answers every question with Apology.
func New(model ChatModel, log zerolog.Logger) *Librarian {
	return &Librarian{model: model, log: log}
}

// Ask sends question with the prior conversation and the titles currently on screen.
// It never fails; errors are logged and answered with Apology.
func (l *Librarian) Ask(ctx context.Context, question string, history []llm.Turn, books []string) (answer string) {
	if l.model == nil {
		l.log.Warn().Msg("librarian asked without a configured model")
		return Apology
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Interface("panic", r).Msg("librarian chat panicked")
			answer = Apology
		}
	}()

	reply, err := l.model.Chat(ctx, history, Message(question, books), maxOutputTokens)
	if err != nil {
		l.log.Error().
			Bool("transient", llm.IsTransient(err)).
			Str("error", redact.Secrets(err.Error())).
			Msg("librarian chat failed")
		return Apology
	}
	if strings.TrimSpace(reply) == "" {
		return Apology
	}
	return reply
}

// Message frames the user's question with the librarian persona and the book context.
func Message(question string, books []string) string {
	return fmt.Sprintf(`You are Lumina, a world-class Digital Librarian.
The current recommended books are: %s.
Answer the reader's questions about these books or their reading journey with wisdom, magic and helpfulness.
Keep responses concise and elegant.

User Question: %s`, strings.Join(books, ", "), question)
}

// ParseRole maps a conversation role from a client to a model role. "librarian"
// and "model" are the model's turns; anything else is the reader's.
func ParseRole(s string) llm.Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "librarian", string(llm.RoleModel):
		return llm.RoleModel
	default:
		return llm.RoleUser
	}
}
