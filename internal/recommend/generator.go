package recommend

import (
	"context"
	"time"

	"github.com/shpitdev/lumina/internal/metrics"
)

// TextModel is a single-prompt generative model. *gemini.Client satisfies it.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator asks a TextModel for candidate books.
type Generator struct {
	model TextModel
	count int
}

func NewGenerator(model TextModel, count int) *Generator {
	if count <= 0 {
		count = DefaultCount
	}
	return &Generator{model: model, count: count}
}

// Generate returns the model's candidates in reply order. Errors are a
// *GenerationError when the call fails and wrap ErrParse when the reply is unusable.
func (g *Generator) Generate(ctx context.Context, req Request) ([]Candidate, error) {
	prompt := BuildPrompt(req, g.count)

	start := time.Now()
	text, err := g.model.Generate(ctx, prompt)
	metrics.RecordGeneration(time.Since(start))
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	return ParseCandidates(raw)
}
