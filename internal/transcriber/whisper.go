package transcriber

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/model"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

// whisperEngine runs whisper.cpp locally. Every input is first converted to
// 16kHz mono WAV, which is the only format whisper.cpp reads reliably.
type whisperEngine struct {
	cfg      config.WhisperConfig
	ffmpeg   string
	executor executor.Executor
	logger   logger.Logger
}

func newWhisperEngine(cfg config.WhisperConfig, ffmpeg string, exec executor.Executor, log logger.Logger) *whisperEngine {
	return &whisperEngine{cfg: cfg, ffmpeg: ffmpeg, executor: exec, logger: log}
}

func (w *whisperEngine) Engine() string { return config.EngineWhisperCLI }

func (w *whisperEngine) Transcribe(ctx context.Context, audioPath, language string) (*Result, error) {
	start := time.Now()

	if _, err := os.Stat(audioPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.Errorf(model.ErrNotFound, "audio %s does not exist", filepath.Base(audioPath))
		}
		return nil, model.Wrap(model.ErrTranscription, err, "stat audio")
	}

	workDir, err := os.MkdirTemp("", "minutes-whisper-*")
	if err != nil {
		return nil, model.Wrap(model.ErrTranscription, err, "create work directory")
	}
	defer os.RemoveAll(workDir)

	wavPath, err := w.convert(ctx, audioPath, workDir)
	if err != nil {
		return nil, model.Wrap(model.ErrTranscription, err, "convert %s", filepath.Base(audioPath))
	}

	text, err := w.run(ctx, wavPath, workDir, language)
	if err != nil {
		return nil, model.Wrap(model.ErrTranscription, err, "whisper %s", filepath.Base(audioPath))
	}
	if text == "" {
		return nil, model.Errorf(model.ErrTranscription, "whisper produced no text for %s", filepath.Base(audioPath))
	}

	return &Result{Text: text, Duration: time.Since(start)}, nil
}

// convert writes a 16kHz mono PCM copy of audioPath into dir.
func (w *whisperEngine) convert(ctx context.Context, audioPath, dir string) (string, error) {
	wavPath := filepath.Join(dir, "input.wav")

	// -vn drops any video stream (.mp4/.webm recordings), -ar/-ac resample to
	// what whisper.cpp expects.
	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		wavPath,
	}

	w.logger.Debug(ctx, "Converting audio: %s", audioPath)
	if _, err := w.executor.Execute(ctx, w.ffmpeg, args...); err != nil {
		return "", err
	}
	return wavPath, nil
}

// run transcribes wavPath and returns the plain text whisper.cpp wrote.
func (w *whisperEngine) run(ctx context.Context, wavPath, dir, language string) (string, error) {
	if language == "" {
		language = w.cfg.Language
	}
	if language == "" {
		language = "auto"
	}
	outputPrefix := filepath.Join(dir, "transcript")

	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"-otxt",
		"-l", language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"--output-file", outputPrefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	w.logger.Info(ctx, "Starting transcription with %d threads (language %s)", w.cfg.Threads, language)
	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return "", err
	}

	data, err := os.ReadFile(outputPrefix + ".txt")
	if err != nil {
		return "", err
	}
	return normalizeText(string(data)), nil
}

// normalizeText trims every segment line and drops blank ones.
func normalizeText(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
