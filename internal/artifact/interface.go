package artifact

import (
	"context"
	"io"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

// Store owns every durable artifact. Audio, transcript and summary are joined
// purely by the audio base name.
type Store interface {
	// SaveAudio stores an uploaded recording under a sanitized name and returns
	// that name.
	SaveAudio(ctx context.Context, filename string, r io.Reader) (string, error)
	// AudioPath resolves the on-disk path of a stored recording for id.
	AudioPath(ctx context.Context, id string) (string, error)

	WriteTranscript(ctx context.Context, id, text string) (string, error)
	ReadTranscript(ctx context.Context, id string) (string, error)
	HasTranscript(ctx context.Context, id string) bool

	// WriteSummary renders and stores the summary, returning SummaryName(id).
	WriteSummary(ctx context.Context, s model.SummaryArtifact) (string, error)

	List(ctx context.Context) ([]model.ArtifactEntry, error)
	Read(ctx context.Context, filename string) ([]byte, error)
}
