package provider

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiChat calls the Gemini API. A client is created per call, so a missing
// key only fails the requests that need it.
type GeminiChat struct {
	apiKey  string
	baseURL string
}

func NewGeminiChat(apiKey, baseURL string) *GeminiChat {
	return &GeminiChat{apiKey: apiKey, baseURL: baseURL}
}

func (g *GeminiChat) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("gemini api key is not configured (set GEMINI_API_KEY)")
	}

	cc := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	result, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}
	return "", nil
}
