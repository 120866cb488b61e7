package executor

import "context"

// Executor runs external programs such as ffmpeg and whisper.cpp.
type Executor interface {
	// Execute runs name with args and returns its standard output. A non-zero
	// exit is reported with the tail of standard error.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports where name would be found.
	LookPath(name string) (string, error)
}
