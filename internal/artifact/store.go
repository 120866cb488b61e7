package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

// SaveAudio stores an uploaded recording. Any stored recording with the same
// base name is replaced, whatever its extension, so an identifier always
// resolves to exactly one recording.
func (s *implStore) SaveAudio(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", model.Errorf(model.ErrValidation, "invalid filename %q", filename)
	}
	if !IsAudioFile(name) {
		return "", model.Errorf(model.ErrValidation, "unsupported audio format %q", filepath.Ext(name))
	}

	id := BaseName(name)
	unlock := s.lock(id)
	defer unlock()

	err := writeAtomic(s.uploadsDir, name, func(f *os.File) error {
		_, err := io.Copy(f, r)
		return err
	})
	if err != nil {
		return "", model.Wrap(model.ErrStorage, err, "save audio %s", name)
	}
	if err := s.removeSiblings(id, name); err != nil {
		return "", model.Wrap(model.ErrStorage, err, "replace audio %s", name)
	}

	s.logger.Info(ctx, "Audio stored: %s", filepath.Join(s.uploadsDir, name))
	return name, nil
}

// AudioPath returns the stored recording whose base name is id.
func (s *implStore) AudioPath(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", model.Errorf(model.ErrValidation, "invalid identifier %q", id)
	}

	entries, err := os.ReadDir(s.uploadsDir)
	if err != nil {
		return "", model.Wrap(model.ErrStorage, err, "read uploads")
	}
	for _, e := range entries {
		if e.IsDir() || !IsAudioFile(e.Name()) {
			continue
		}
		if BaseName(e.Name()) == id {
			return filepath.Join(s.uploadsDir, e.Name()), nil
		}
	}
	return "", model.Errorf(model.ErrNotFound, "no audio for %q", id)
}

func (s *implStore) WriteTranscript(ctx context.Context, id, text string) (string, error) {
	if !validID(id) {
		return "", model.Errorf(model.ErrValidation, "invalid identifier %q", id)
	}

	unlock := s.lock(id)
	defer unlock()

	name := TranscriptName(id)
	err := writeAtomic(s.derivedDir, name, func(f *os.File) error {
		_, err := f.WriteString(text)
		return err
	})
	if err != nil {
		return "", model.Wrap(model.ErrStorage, err, "write transcript %s", name)
	}

	s.logger.Info(ctx, "Transcript written: %s (%d chars)", name, len(text))
	return name, nil
}

func (s *implStore) ReadTranscript(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", model.Errorf(model.ErrValidation, "invalid identifier %q", id)
	}
	data, err := s.Read(ctx, TranscriptName(id))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *implStore) HasTranscript(ctx context.Context, id string) bool {
	if !validID(id) {
		return false
	}
	return fileExists(filepath.Join(s.derivedDir, TranscriptName(id)))
}

// WriteSummary renders the summary document to a temporary file and renames it
// into place, so readers see either the previous or the new document in full.
func (s *implStore) WriteSummary(ctx context.Context, sum model.SummaryArtifact) (string, error) {
	if !validID(sum.ID) {
		return "", model.Errorf(model.ErrValidation, "invalid identifier %q", sum.ID)
	}

	unlock := s.lock(sum.ID)
	defer unlock()

	name := SummaryName(sum.ID)
	err := writeAtomicPath(s.derivedDir, name, func(tmpPath string) error {
		return renderSummaryDocx(sum.ID, sum.Provider, sum.Text, tmpPath)
	})
	if err != nil {
		return "", model.Wrap(model.ErrStorage, err, "write summary %s", name)
	}

	s.logger.Info(ctx, "Summary written: %s (provider %s)", name, sum.Provider)
	return name, nil
}

// List reports every stored recording together with whichever derived
// artifacts currently exist for it. Entries are sorted by audio filename.
func (s *implStore) List(ctx context.Context) ([]model.ArtifactEntry, error) {
	entries, err := os.ReadDir(s.uploadsDir)
	if err != nil {
		return nil, model.Wrap(model.ErrStorage, err, "read uploads")
	}

	out := make([]model.ArtifactEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsAudioFile(e.Name()) {
			continue
		}
		id := BaseName(e.Name())
		entry := model.ArtifactEntry{Audio: e.Name()}
		if fileExists(filepath.Join(s.derivedDir, TranscriptName(id))) {
			entry.Transcript = TranscriptName(id)
		}
		if fileExists(filepath.Join(s.derivedDir, SummaryName(id))) {
			entry.Summary = SummaryName(id)
		}
		out = append(out, entry)
	}
	return out, nil
}

// Read returns the raw bytes of a stored artifact. Only the base component of
// filename is used, so "../../etc/passwd" is looked up as "passwd".
func (s *implStore) Read(ctx context.Context, filename string) ([]byte, error) {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if !validID(name) {
		return nil, model.Errorf(model.ErrNotFound, "artifact %q not found", filename)
	}

	for _, dir := range []string{s.derivedDir, s.uploadsDir} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, model.Wrap(model.ErrStorage, err, "read %s", name)
		}
	}
	return nil, model.Errorf(model.ErrNotFound, "artifact %q not found", name)
}

// removeSiblings deletes stored recordings whose base name is id, except keep.
// Callers must hold the lock for id.
func (s *implStore) removeSiblings(id, keep string) error {
	entries, err := os.ReadDir(s.uploadsDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || e.Name() == keep || !IsAudioFile(e.Name()) || BaseName(e.Name()) != id {
			continue
		}
		if err := os.Remove(filepath.Join(s.uploadsDir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// writeAtomic streams content into a temp file in dir and renames it to name.
func writeAtomic(dir, name string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// writeAtomicPath is writeAtomic for writers that open the file themselves.
// The temp name keeps name's extension since document writers check it.
func writeAtomicPath(dir, name string, write func(tmpPath string) error) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*-"+name)
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
