package transcriber

import (
	"context"
	"time"
)

// Transcriber converts a recording to text. Calls block until the engine
// finishes; there is no internal retry.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (*Result, error)
	// Engine names the backing engine for logs and metrics.
	Engine() string
}

// Result is a complete transcript. Duration is the processing time.
type Result struct {
	Text     string
	Duration time.Duration
}
