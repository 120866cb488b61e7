package provider

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

// Build creates the registry from the validated config. Transports are shared
// between providers of the same API.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*Registry, error) {
	sec := cfg.Secrets
	gen := GenerationOptions{
		MaxTokens:   cfg.Summarization.MaxOutputTokens,
		Temperature: cfg.Summarization.SamplingTemperature(),
	}
	ext := ExtractiveOptions{
		InputChars: cfg.Summarization.ExtractiveInputChars,
		MaxLength:  cfg.Summarization.ExtractiveMaxLength,
		MinLength:  cfg.Summarization.ExtractiveMinLength,
	}

	var (
		openaiChat *OpenAIChat
		geminiChat *GeminiChat
		hfChat     *HuggingFaceChat
		hfSum      *HuggingFaceSummarization
	)

	var backends []Backend
	for _, desc := range cfg.ProviderDescriptors() {
		switch {
		case desc.API == model.APIOpenAI && desc.Capability == model.CapabilityGenerative:
			if openaiChat == nil {
				openaiChat = NewOpenAIChat(sec.OpenAIAPIKey, sec.OpenAIBaseURL, nil)
				warnMissingKey(ctx, log, sec.OpenAIAPIKey, "OPENAI_API_KEY")
			}
			backends = append(backends, NewGenerative(desc, openaiChat, gen))

		case desc.API == model.APIGemini && desc.Capability == model.CapabilityGenerative:
			if geminiChat == nil {
				geminiChat = NewGeminiChat(sec.GeminiAPIKey, "")
				warnMissingKey(ctx, log, sec.GeminiAPIKey, "GEMINI_API_KEY")
			}
			backends = append(backends, NewGenerative(desc, geminiChat, gen))

		case desc.API == model.APIHuggingFace && desc.Capability == model.CapabilityGenerative:
			if hfChat == nil {
				hfChat = NewHuggingFaceChat(sec.HuggingFaceToken, sec.HuggingFaceRouter, nil)
				warnMissingKey(ctx, log, sec.HuggingFaceToken, "HF_TOKEN")
			}
			backends = append(backends, NewGenerative(desc, hfChat, gen))

		case desc.API == model.APIHuggingFace && desc.Capability == model.CapabilityExtractive:
			if hfSum == nil {
				hfSum = NewHuggingFaceSummarization(sec.HuggingFaceToken, sec.HuggingFaceAPIURL, nil)
				if hfChat == nil {
					warnMissingKey(ctx, log, sec.HuggingFaceToken, "HF_TOKEN")
				}
			}
			backends = append(backends, NewExtractive(desc, hfSum, ext))

		default:
			return nil, fmt.Errorf("provider %q: api %q does not support %s summarization", desc.Name, desc.API, desc.Capability)
		}

		log.Debug(ctx, "Registered provider %s (%s, %s, %s)", desc.Name, desc.API, desc.Capability, desc.ModelID)
	}

	return NewRegistry(backends...)
}

func warnMissingKey(ctx context.Context, log logger.Logger, key, envName string) {
	if key == "" {
		log.Warn(ctx, "%s is not set; providers using it will fail at call time", envName)
	}
}
