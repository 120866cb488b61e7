package provider

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIChat calls the OpenAI chat completions API, or any compatible server
// when baseURL is set.
type OpenAIChat struct {
	client openai.Client
	apiKey string
}

func NewOpenAIChat(apiKey, baseURL string, httpClient *http.Client) *OpenAIChat {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIChat{client: openai.NewClient(opts...), apiKey: apiKey}
}

func (o *OpenAIChat) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if o.apiKey == "" {
		return "", errors.New("openai api key is not configured (set OPENAI_API_KEY)")
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
