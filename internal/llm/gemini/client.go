package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/shpitdev/lumina/internal/llm"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string

	// ResponseSchema, when set, asks Generate for JSON output matching the schema.
	ResponseSchema *genai.Schema

	// MaxOutputTokens caps Generate replies. Zero leaves the model default.
	MaxOutputTokens int
}

// Client wraps a genai client bound to a single model.
type Client struct {
	client          *genai.Client
	model           string
	schema          *genai.Schema
	maxOutputTokens int32
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{
		client:          client,
		model:           model,
		schema:          cfg.ResponseSchema,
		maxOutputTokens: int32(cfg.MaxOutputTokens),
	}, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// Generate sends a single prompt and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	gc := &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: c.maxOutputTokens,
	}
	if c.schema != nil {
		gc.ResponseMIMEType = "application/json"
		gc.ResponseSchema = c.schema
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), gc)
	if err != nil {
		return "", classifyErr(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini: empty reply")
	}
	return text, nil
}

// Chat replays history and sends message as the next user turn.
func (c *Client) Chat(ctx context.Context, history []llm.Turn, message string, maxOutputTokens int) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == llm.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: int32(maxOutputTokens),
	})
	if err != nil {
		return "", classifyErr(err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// RecommendationsSchema mirrors the JSON object the recommendation prompt asks for.
var RecommendationsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendations": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":     {Type: genai.TypeString},
					"author":    {Type: genai.TypeString},
					"reasoning": {Type: genai.TypeString},
					"vibeScore": {Type: genai.TypeInteger},
				},
				Required: []string{"title", "author", "reasoning", "vibeScore"},
			},
		},
	},
	Required: []string{"recommendations"},
}

func classifyErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code/100 == 5 {
			return &llm.TransientError{Err: err}
		}
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &llm.TransientError{Err: err}
	}
	return err
}
