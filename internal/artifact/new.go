package artifact

import (
	"fmt"
	"os"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

const lockStripes = 64

type implStore struct {
	uploadsDir string
	derivedDir string
	logger     logger.Logger
	locks      [lockStripes]lockStripe
}

// New creates a filesystem Store. Uploaded audio lives in uploadsDir; transcripts
// and summaries live in derivedDir. Both directories are created if missing.
func New(uploadsDir, derivedDir string, log logger.Logger) (Store, error) {
	for _, dir := range []string{uploadsDir, derivedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return &implStore{
		uploadsDir: uploadsDir,
		derivedDir: derivedDir,
		logger:     log,
	}, nil
}
