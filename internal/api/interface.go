package api

import (
	"context"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

// Transcriber is the slice of the processor the upload endpoint needs.
type Transcriber interface {
	Transcribe(ctx context.Context, id, language string) (*model.TranscriptArtifact, error)
}

// Catalog exposes the read-only provider table.
type Catalog interface {
	Catalog() map[string]model.CatalogEntry
}

// PromptSource exposes the raw prompt template.
type PromptSource interface {
	Text() string
}
