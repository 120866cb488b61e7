package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/artifact"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/nguyentantai21042004/minutes-flow/internal/model"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
)

// Transcribe is the API entry point. Whatever the outcome, the id is marked as
// handled so that the watcher does not transcribe the same upload again.
func (p *implProcessor) Transcribe(ctx context.Context, id, language string) (*model.TranscriptArtifact, error) {
	ctx = logger.WithFields(ctx, "audio_id", id)

	audioPath, err := p.store.AudioPath(ctx, id)
	if err != nil {
		return nil, err
	}

	p.begin(id)
	defer p.end(id, true)

	return p.transcribe(ctx, id, audioPath, language)
}

func (p *implProcessor) transcribe(ctx context.Context, id, audioPath, language string) (*model.TranscriptArtifact, error) {
	if err := p.sem.acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for transcription slot: %w", err)
	}
	defer p.sem.release()

	p.logger.Info(ctx, "Starting transcription (%s): %s", p.transcriber.Engine(), audioPath)
	start := time.Now()
	res, err := p.transcriber.Transcribe(ctx, audioPath, language)
	metrics.ObserveTranscription(p.transcriber.Engine(), err, time.Since(start))
	if err != nil {
		p.logger.Error(ctx, "Transcription failed: %v", err)
		return nil, err
	}

	name, err := p.store.WriteTranscript(ctx, id, res.Text)
	if err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Transcription completed in %s", res.Duration.Round(time.Millisecond))
	return &model.TranscriptArtifact{
		ID:       id,
		Text:     res.Text,
		Filename: name,
		Duration: res.Duration,
	}, nil
}

// Process transcribes a recording found in the uploads directory and, when
// auto summarization is enabled, summarizes it with the default provider.
// Recordings that already have a transcript, are being transcribed through the
// API, or were just handled by the API are skipped.
func (p *implProcessor) Process(ctx context.Context, audioPath string) error {
	id := artifact.BaseName(audioPath)
	ctx = logger.WithFields(ctx, "audio_id", id)

	if p.claimedByAPI(id) || p.store.HasTranscript(ctx, id) {
		p.logger.Debug(ctx, "Skipping %s: already transcribed or handled by the API", audioPath)
		return nil
	}

	resolved, err := p.store.AudioPath(ctx, id)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	p.begin(id)
	startTime := time.Now()
	transcript, err := p.transcribe(ctx, id, resolved, "")
	p.end(id, false)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	if !p.cfg.Watcher.AutoSummarize || p.summarizer == nil {
		p.logger.Info(ctx, "Processing completed in %s: %s", time.Since(startTime).Round(time.Second), transcript.Filename)
		return nil
	}

	res, err := p.summarizer.Summarize(ctx, summarizer.Request{
		Provider:   p.cfg.Summarization.DefaultProvider,
		Transcript: transcript.Text,
		AudioID:    id,
	})
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	p.logger.Info(ctx, "Processing completed in %s: %s, %s", time.Since(startTime).Round(time.Second), transcript.Filename, res.Filename)
	return nil
}

func (p *implProcessor) begin(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight[id]++
}

func (p *implProcessor) end(id string, fromAPI bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight[id]--; p.inFlight[id] <= 0 {
		delete(p.inFlight, id)
	}
	if !fromAPI {
		return
	}
	now := time.Now()
	for k, at := range p.handled {
		if now.Sub(at) > p.handledTTL {
			delete(p.handled, k)
		}
	}
	p.handled[id] = now
}

// claimedByAPI reports whether id is being transcribed, or was transcribed
// through the API within handledTTL.
func (p *implProcessor) claimedByAPI(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight[id] > 0 {
		return true
	}
	at, ok := p.handled[id]
	return ok && time.Since(at) <= p.handledTTL
}
