// Package llm wraps the upstream completion API. All prompt text is templated
// on this side; the service layer never sees provider types.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/algoprep/backend/internal/domain"
)

// Client is the completion interface the services depend on. Tests substitute
// a fake; production uses the Gemini-backed implementation below.
type Client interface {
	// GenerateJSON asks for a structured response and unmarshals it into out
	GenerateJSON(ctx context.Context, system, prompt string, out interface{}) error
	// GenerateText asks for a plain-text completion
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// GeminiClient talks to the Google generative AI API
type GeminiClient struct {
	apiKey string
	model  string
}

// NewGeminiClient creates a client for the given model
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
}

// GenerateJSON requests a JSON-mode completion and decodes it into out.
// Malformed upstream JSON is returned as an error; callers decide whether to
// degrade or fail.
func (c *GeminiClient) GenerateJSON(ctx context.Context, system, prompt string, out interface{}) error {
	text, err := c.generate(ctx, system, prompt, true)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripCodeFence(text)), out); err != nil {
		return fmt.Errorf("%w: malformed model output: %v", domain.ErrReviewUpstream, err)
	}
	return nil
}

// GenerateText requests a plain-text completion
func (c *GeminiClient) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, system, prompt, false)
}

func (c *GeminiClient) generate(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.model)
	if jsonMode {
		m.GenerationConfig = genai.GenerationConfig{
			ResponseMIMEType: "application/json",
		}
	}
	if system != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrReviewUpstream, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", domain.ErrReviewUpstream)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text parts in response", domain.ErrReviewUpstream)
	}
	return sb.String(), nil
}

// stripCodeFence removes a surrounding markdown code fence if the model added
// one despite JSON mode
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
