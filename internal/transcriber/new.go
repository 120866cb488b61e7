package transcriber

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

// New selects the engine named by transcription.engine.
func New(ctx context.Context, cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Transcription.Engine {
	case config.EngineWhisperCLI:
		for _, bin := range []string{cfg.FFmpeg.BinaryPath, cfg.Whisper.BinaryPath} {
			if _, err := exec.LookPath(bin); err != nil {
				log.Warn(ctx, "%s not found; transcription will fail until it is installed", bin)
			}
		}
		return newWhisperEngine(cfg.Whisper, cfg.FFmpeg.BinaryPath, exec, log), nil

	case config.EngineOpenAI:
		if cfg.Secrets.OpenAIAPIKey == "" {
			log.Warn(ctx, "OPENAI_API_KEY is not set; transcription will fail at call time")
		}
		return newOpenAIEngine(cfg.Secrets.OpenAIAPIKey, cfg.Secrets.OpenAIBaseURL, cfg.Transcription.OpenAIModel, cfg.Whisper.Language, nil, log), nil

	default:
		return nil, fmt.Errorf("transcription engine %q is not supported", cfg.Transcription.Engine)
	}
}
