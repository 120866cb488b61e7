package processor

import (
	"sync"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/artifact"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcriber"
)

type implProcessor struct {
	cfg         *config.Config
	store       artifact.Store
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	logger      logger.Logger
	sem         *semaphore

	mu         sync.Mutex
	inFlight   map[string]int
	handled    map[string]time.Time
	handledTTL time.Duration
}

// handledTTL must exceed the watcher's settle delay plus its queueing time.
const handledTTL = 30 * time.Second

// New creates a Processor. summarizer may be nil when watcher.auto_summarize
// is off.
func New(cfg *config.Config, store artifact.Store, tr transcriber.Transcriber, sum summarizer.Summarizer, log logger.Logger) Processor {
	return &implProcessor{
		cfg:         cfg,
		store:       store,
		transcriber: tr,
		summarizer:  sum,
		logger:      log,
		sem:         newSemaphore(cfg.Performance.MaxConcurrent),
		inFlight:    make(map[string]int),
		handled:     make(map[string]time.Time),
		handledTTL:  handledTTL,
	}
}
