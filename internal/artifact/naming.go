package artifact

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	transcriptExt = ".txt"
	summarySuffix = "_protokoll.docx"
)

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm", ".mp4", ".mpeg", ".mpga"}

var reUnsafe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// BaseName strips directories and the extension: "calls/weekly.mp3" -> "weekly".
func BaseName(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TranscriptName is the stored name of the transcript for id.
func TranscriptName(id string) string {
	return id + transcriptExt
}

// SummaryName is the stored name of the summary for id. It depends on nothing
// but id, which is what lets List join summaries back to their audio.
func SummaryName(id string) string {
	return id + summarySuffix
}

// IsAudioFile reports whether the name has a supported audio extension.
func IsAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, format := range audioExtensions {
		if ext == format {
			return true
		}
	}
	return false
}

// SanitizeFilename reduces an untrusted name to a safe base component.
// It returns "" when nothing usable remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	name = reUnsafe.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "_" {
		return ""
	}
	return name
}

// validID reports whether id can be used as a join key without escaping its directory.
func validID(id string) bool {
	if id == "" || id == "." || id == ".." || strings.HasPrefix(id, ".") {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
