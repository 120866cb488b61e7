package watcher

import "context"

// Watcher monitors the uploads directory for new recordings.
type Watcher interface {
	// Start blocks until ctx is cancelled, then waits for running handlers.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called once for every new recording.
type EventHandler func(ctx context.Context, filePath string) error
