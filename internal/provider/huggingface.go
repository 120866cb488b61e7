package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHFRouterURL    = "https://router.huggingface.co"
	defaultHFInferenceURL = "https://api-inference.huggingface.co"
	defaultHTTPTimeout    = 10 * time.Minute
	maxHFResponseBytes    = 8 << 20
)

// hfClient is the shared HTTP client for both HuggingFace endpoints.
type hfClient struct {
	httpClient *http.Client
	token      string
	maxBody    int64
}

func newHFClient(token string, httpClient *http.Client) *hfClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &hfClient{httpClient: httpClient, token: strings.TrimSpace(token), maxBody: maxHFResponseBytes}
}

type hfErrorResponse struct {
	Error json.RawMessage `json:"error"`
}

func (c *hfClient) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	if c.token == "" {
		return nil, errors.New("huggingface token is not configured (set HF_TOKEN)")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	truncated := int64(len(respBody)) > c.maxBody
	if truncated {
		respBody = respBody[:c.maxBody]
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("huggingface API error (%d): %s", resp.StatusCode, hfErrorMessage(respBody))
	}
	if truncated {
		return nil, fmt.Errorf("huggingface response exceeds %d bytes", c.maxBody)
	}
	return respBody, nil
}

// hfErrorMessage extracts {"error": "..."} or {"error": {"message": "..."}}
// and falls back to the raw body.
func hfErrorMessage(body []byte) string {
	message := strings.TrimSpace(string(body))
	var apiErr hfErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && len(apiErr.Error) > 0 {
		var s string
		if json.Unmarshal(apiErr.Error, &s) == nil && s != "" {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(apiErr.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	if message == "" {
		return "unknown huggingface error"
	}
	return message
}

// HuggingFaceChat calls the OpenAI-compatible chat completions endpoint of the
// HuggingFace router.
type HuggingFaceChat struct {
	client  *hfClient
	baseURL string
}

func NewHuggingFaceChat(token, baseURL string, httpClient *http.Client) *HuggingFaceChat {
	if baseURL == "" {
		baseURL = defaultHFRouterURL
	}
	return &HuggingFaceChat{
		client:  newHFClient(token, httpClient),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type hfChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type hfChatRequest struct {
	Model       string          `json:"model"`
	Messages    []hfChatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type hfChatResponse struct {
	Choices []struct {
		Message hfChatMessage `json:"message"`
	} `json:"choices"`
}

func (h *HuggingFaceChat) Complete(ctx context.Context, req ChatRequest) (string, error) {
	body, err := h.client.post(ctx, h.baseURL+"/v1/chat/completions", hfChatRequest{
		Model:       req.Model,
		Messages:    []hfChatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", err
	}

	var resp hfChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// HuggingFaceSummarization calls the Inference API summarization task.
type HuggingFaceSummarization struct {
	client  *hfClient
	baseURL string
}

func NewHuggingFaceSummarization(token, baseURL string, httpClient *http.Client) *HuggingFaceSummarization {
	if baseURL == "" {
		baseURL = defaultHFInferenceURL
	}
	return &HuggingFaceSummarization{
		client:  newHFClient(token, httpClient),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type hfSummarizationParameters struct {
	MaxLength int  `json:"max_length,omitempty"`
	MinLength int  `json:"min_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type hfSummarizationRequest struct {
	Inputs     string                    `json:"inputs"`
	Parameters hfSummarizationParameters `json:"parameters"`
}

func (h *HuggingFaceSummarization) Summarize(ctx context.Context, req SummarizationRequest) (json.RawMessage, error) {
	endpoint := h.baseURL + "/models/" + escapeModelID(req.Model)
	body, err := h.client.post(ctx, endpoint, hfSummarizationRequest{
		Inputs: req.Inputs,
		Parameters: hfSummarizationParameters{
			MaxLength: req.MaxLength,
			MinLength: req.MinLength,
			DoSample:  false,
		},
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// escapeModelID escapes each path segment of "org/model".
func escapeModelID(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
