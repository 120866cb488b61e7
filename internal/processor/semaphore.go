package processor

import (
	"context"

	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
)

// semaphore bounds how many transcriptions run at once. Transcription is CPU
// bound for whisper.cpp, so extra jobs queue here instead of competing.
type semaphore struct {
	ch chan struct{}
}

func newSemaphore(capacity int) *semaphore {
	if capacity <= 0 {
		capacity = 1
	}
	return &semaphore{
		ch: make(chan struct{}, capacity),
	}
}

func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		metrics.JobsInFlight.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.ch
	metrics.JobsInFlight.Dec()
}
