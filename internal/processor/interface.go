package processor

import (
	"context"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

// Processor drives a stored recording through transcription and, for the
// drop folder, summarization.
type Processor interface {
	// Transcribe transcribes the stored recording whose base name is id and
	// persists the transcript. language may be empty to use the configured
	// default.
	Transcribe(ctx context.Context, id, language string) (*model.TranscriptArtifact, error)
	// Process handles a recording that appeared in the uploads directory.
	Process(ctx context.Context, audioPath string) error
}
