package summarizer

import (
	"context"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/nguyentantai21042004/minutes-flow/internal/model"
	"github.com/nguyentantai21042004/minutes-flow/internal/prompt"
)

// Summarize validates the request, builds and truncates the prompt for the
// provider's capability, makes exactly one provider call and persists the
// result under the audio identifier. Nothing is written unless every earlier
// step succeeded.
func (s *implSummarizer) Summarize(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	ctx = logger.WithFields(ctx, "audio_id", req.AudioID, "provider", req.Provider)

	// Only registered names become label values; the request body is untrusted.
	label := unknownProvider
	res, st, err := s.run(ctx, req, &label)
	outcome := "success"
	if err != nil {
		outcome = outcomeLabel(err)
		s.logger.Error(ctx, "Summarization failed after %s: %v", st, err)
	}
	metrics.ObserveSummary(label, outcome, time.Since(start))
	return res, err
}

const unknownProvider = "unknown"

func (s *implSummarizer) run(ctx context.Context, req Request, label *string) (*Result, stage, error) {
	st := stagePending

	if err := s.validate(ctx, req); err != nil {
		return nil, st, err
	}
	backend, err := s.providers.Resolve(req.Provider)
	if err != nil {
		return nil, st, err
	}
	desc := backend.Descriptor()
	*label = desc.Name

	text, err := s.prompt.Render(req.Transcript)
	if err != nil {
		return nil, st, err
	}
	full := len([]rune(text))
	text = prompt.Truncate(text, backend.InputLimit())
	if kept := len([]rune(text)); kept < full {
		s.logger.Warn(ctx, "Prompt truncated from %d to %d chars for %s provider", full, kept, desc.Capability)
	}
	st = stagePromptBuilt
	s.logger.Debug(ctx, "Stage %s (%s/%s)", st, desc.API, desc.ModelID)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Info(ctx, "Calling %s provider %s (%s)", desc.Capability, desc.Name, desc.ModelID)
	summary, err := backend.Summarize(callCtx, text)
	if err != nil {
		return nil, st, err
	}
	st = stageProviderCalled

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, st, model.Errorf(model.ErrEmptyResult, "provider %s produced no summary", desc.Name)
	}
	st = stageNormalized

	filename, err := s.store.WriteSummary(ctx, model.SummaryArtifact{
		ID:       req.AudioID,
		Text:     summary,
		Provider: desc.Name,
	})
	if err != nil {
		return nil, st, err
	}
	st = stagePersisted
	s.logger.Info(ctx, "Stage %s: %s", st, filename)

	return &Result{Summary: summary, Filename: filename, Provider: desc.Name}, st, nil
}

func (s *implSummarizer) validate(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.Provider) == "" {
		return model.Errorf(model.ErrValidation, "provider is required")
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return model.Errorf(model.ErrValidation, "transcript is empty")
	}
	if req.AudioID == "" {
		return model.Errorf(model.ErrValidation, "audio identifier is required")
	}
	if strings.ContainsAny(req.AudioID, `/\`) || strings.HasPrefix(req.AudioID, ".") {
		return model.Errorf(model.ErrValidation, "audio identifier %q must be a base name", req.AudioID)
	}
	if !s.store.HasTranscript(ctx, req.AudioID) {
		return model.Errorf(model.ErrValidation, "no transcript exists for %q", req.AudioID)
	}
	return nil
}

func outcomeLabel(err error) string {
	switch model.KindOf(err) {
	case model.ErrValidation:
		return "validation"
	case model.ErrUnknownProvider:
		return "unknown_provider"
	case model.ErrTimeout:
		return "timeout"
	case model.ErrProviderCall:
		return "provider_error"
	case model.ErrEmptyResult:
		return "empty"
	case model.ErrStorage:
		return "storage"
	default:
		return "error"
	}
}
