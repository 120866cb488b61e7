package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

// Backend is one configured summarization provider. Each capability family is
// a separate implementation with its own request shape and response
// normalization; callers only see Summarize.
type Backend interface {
	Descriptor() model.ProviderDescriptor
	// InputLimit is the character ceiling applied to prompts before dispatch.
	// Zero means this layer does not limit the prompt.
	InputLimit() int
	Summarize(ctx context.Context, prompt string) (string, error)
}

// ChatRequest is a single-turn chat completion request.
type ChatRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ChatClient is a transport for generative chat-completion backends. It
// returns the text of the first completion.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// SummarizationRequest is an extractive summarization request. Sampling is
// always disabled so results are deterministic.
type SummarizationRequest struct {
	Model     string
	Inputs    string
	MaxLength int
	MinLength int
}

// SummarizationClient is a transport for extractive summarization backends.
// It returns the raw response body; the Extractive variant normalizes it.
type SummarizationClient interface {
	Summarize(ctx context.Context, req SummarizationRequest) (json.RawMessage, error)
}

// GenerationOptions bounds generative output.
type GenerationOptions struct {
	MaxTokens   int
	Temperature float64
}

// Generative summarizes by asking a chat model.
type Generative struct {
	desc   model.ProviderDescriptor
	client ChatClient
	opts   GenerationOptions
}

func NewGenerative(desc model.ProviderDescriptor, client ChatClient, opts GenerationOptions) *Generative {
	desc.Capability = model.CapabilityGenerative
	return &Generative{desc: desc, client: client, opts: opts}
}

func (g *Generative) Descriptor() model.ProviderDescriptor { return g.desc }

func (g *Generative) InputLimit() int { return 0 }

func (g *Generative) Summarize(ctx context.Context, prompt string) (string, error) {
	text, err := g.client.Complete(ctx, ChatRequest{
		Model:       g.desc.ModelID,
		Prompt:      prompt,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		return "", classifyCallError(g.desc.Name, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", model.Errorf(model.ErrEmptyResult, "provider %s returned no completion text", g.desc.Name)
	}
	return text, nil
}

// ExtractiveOptions bounds extractive input and output.
type ExtractiveOptions struct {
	InputChars int
	MaxLength  int
	MinLength  int
}

// Extractive summarizes with a dedicated summarization model that only
// accepts small inputs.
type Extractive struct {
	desc   model.ProviderDescriptor
	client SummarizationClient
	opts   ExtractiveOptions
}

func NewExtractive(desc model.ProviderDescriptor, client SummarizationClient, opts ExtractiveOptions) *Extractive {
	desc.Capability = model.CapabilityExtractive
	return &Extractive{desc: desc, client: client, opts: opts}
}

func (e *Extractive) Descriptor() model.ProviderDescriptor { return e.desc }

func (e *Extractive) InputLimit() int { return e.opts.InputChars }

func (e *Extractive) Summarize(ctx context.Context, prompt string) (string, error) {
	raw, err := e.client.Summarize(ctx, SummarizationRequest{
		Model:     e.desc.ModelID,
		Inputs:    prompt,
		MaxLength: e.opts.MaxLength,
		MinLength: e.opts.MinLength,
	})
	if err != nil {
		return "", classifyCallError(e.desc.Name, err)
	}

	text, err := normalizeSummary(raw)
	if err != nil {
		return "", model.Wrap(model.ErrEmptyResult, err, "provider %s", e.desc.Name)
	}
	return text, nil
}

var summaryFields = []string{"summary_text", "generated_text"}

// normalizeSummary accepts either {"summary_text": ...} or
// [{"summary_text": ...}] and returns the summary. generated_text is accepted
// for text2text models served through the same endpoint.
func normalizeSummary(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "", errors.New("empty response body")
	}

	var obj map[string]any
	switch trimmed[0] {
	case '[':
		var list []map[string]any
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return "", errors.New("response is not a list of objects")
		}
		if len(list) == 0 {
			return "", errors.New("response list is empty")
		}
		obj = list[0]
	case '{':
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			return "", errors.New("response is not a JSON object")
		}
	default:
		return "", errors.New("response is neither an object nor a list")
	}

	for _, field := range summaryFields {
		if s, ok := obj[field].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), nil
		}
	}
	return "", errors.New("response has no summary_text field")
}

// classifyCallError maps transport failures onto the error taxonomy.
func classifyCallError(name string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.Wrap(model.ErrTimeout, err, "provider %s timed out", name)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return model.Wrap(model.ErrTimeout, err, "provider %s timed out", name)
	}
	if model.KindOf(err) != nil {
		return err
	}
	return model.Wrap(model.ErrProviderCall, err, "provider %s", name)
}
