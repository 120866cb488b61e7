package model

import "time"

// TranscriptArtifact is the plain-text transcription of one uploaded audio file.
type TranscriptArtifact struct {
	ID       string
	Text     string
	Filename string
	Duration time.Duration // processing time, not audio length
}

// SummaryArtifact is the rendered meeting protocol derived from a transcript.
type SummaryArtifact struct {
	ID       string
	Text     string
	Provider string
}

// ArtifactEntry is one row of the file listing. Transcript and Summary are
// empty when the corresponding artifact does not exist.
type ArtifactEntry struct {
	Audio      string `json:"audio"`
	Transcript string `json:"transcript,omitempty"`
	Summary    string `json:"summary,omitempty"`
}
