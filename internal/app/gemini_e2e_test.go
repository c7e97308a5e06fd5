//go:build gemini_e2e

package app_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shpitdev/lumina/internal/app"
	"github.com/shpitdev/lumina/internal/config"
	"github.com/shpitdev/lumina/internal/recommend"
)

func TestRecommendations_RealGemini_EndToEnd(t *testing.T) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		t.Fatalf("GOOGLE_API_KEY or GEMINI_API_KEY is required for gemini_e2e tests")
	}

	cfg := config.Default()
	cfg.Gemini.APIKey = apiKey
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Gemini.Model = model
	}
	cfg.Gemini.BaseURL = os.Getenv("GEMINI_BASE_URL")
	cfg.Gemini.Timeout = 60 * time.Second
	cfg.Enrich.RequestTimeout = 20 * time.Second

	a, err := app.New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	defer a.Close()

	requests := map[string]recommend.Request{
		"vibe": recommend.NewVibeRequest("a rainy afternoon, melancholic but hopeful"),
		"blueprint": recommend.NewBlueprintRequest(recommend.Preferences{
			Genres: []string{"Mystery"},
			Pacing: "slow burn",
			Tone:   "atmospheric",
			Era:    "Victorian",
		}),
		"restricted": recommend.NewRestrictedRequest(),
	}
	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			resp, err := a.Service.Recommend(context.Background(), req)
			if err != nil {
				t.Fatalf("recommend: %v", err)
			}
			if len(resp.Recommendations) == 0 {
				t.Fatalf("expected at least one recommendation")
			}
			for i, r := range resp.Recommendations {
				if r.Title == "" || r.Author == "" || r.Genre == "" || r.Description == "" {
					t.Fatalf("recommendation %d incomplete: %#v", i, r)
				}
			}
		})
	}

	if answer := a.Librarian.Ask(context.Background(), "Which of these should I read first?", nil, []string{"Piranesi", "Dune"}); answer == "" {
		t.Fatalf("expected an answer")
	}
}
