package summarizer

import (
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implSummarizer struct {
	providers Resolver
	prompt    Renderer
	store     SummaryStore
	logger    logger.Logger
	timeout   time.Duration
}

// New creates a Summarizer. timeout bounds each provider call; zero means the
// caller's context is the only bound.
func New(providers Resolver, prompt Renderer, store SummaryStore, timeout time.Duration, log logger.Logger) Summarizer {
	return &implSummarizer{
		providers: providers,
		prompt:    prompt,
		store:     store,
		logger:    log,
		timeout:   timeout,
	}
}
