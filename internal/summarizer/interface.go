package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
	"github.com/nguyentantai21042004/minutes-flow/internal/provider"
)

// Summarizer turns a transcript into a persisted meeting protocol using one
// named provider.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (*Result, error)
}

// Request names the provider, the transcript text and the audio identifier the
// summary is stored under.
type Request struct {
	Provider   string
	Transcript string
	AudioID    string
}

// Result is a persisted summary.
type Result struct {
	Summary  string
	Filename string
	Provider string
}

// Resolver looks up a provider backend by name.
type Resolver interface {
	Resolve(name string) (provider.Backend, error)
}

// Renderer builds the prompt around a transcript.
type Renderer interface {
	Render(transcript string) (string, error)
}

// SummaryStore is the slice of the artifact store the dispatcher needs.
type SummaryStore interface {
	HasTranscript(ctx context.Context, id string) bool
	WriteSummary(ctx context.Context, s model.SummaryArtifact) (string, error)
}
