package app

import (
	"context"
	"time"

	"github.com/shpitdev/lumina/internal/recommend"
)

// deadlineModel bounds each generation call when timeout is positive.
type deadlineModel struct {
	model   recommend.TextModel
	timeout time.Duration
}

func (m deadlineModel) Generate(ctx context.Context, prompt string) (string, error) {
	if m.timeout <= 0 {
		return m.model.Generate(ctx, prompt)
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.model.Generate(ctx, prompt)
}
