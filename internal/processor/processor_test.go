package processor

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/minutes-flow/internal/artifact"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/model"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcriber"
)

type fakeTranscriber struct {
	text  string
	err   error
	delay time.Duration

	active    atomic.Int32
	maxActive atomic.Int32
	calls     atomic.Int32
}

func (f *fakeTranscriber) Engine() string { return "fake" }

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*transcriber.Result, error) {
	f.calls.Add(1)
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		m := f.maxActive.Load()
		if n <= m || f.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return &transcriber.Result{Text: f.text, Duration: f.delay}, nil
}

type fakeSummarizer struct {
	mu   sync.Mutex
	reqs []summarizer.Request
	err  error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, req summarizer.Request) (*summarizer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &summarizer.Result{Summary: "S", Filename: artifact.SummaryName(req.AudioID), Provider: req.Provider}, nil
}

type fixture struct {
	cfg   *config.Config
	store artifact.Store
	tr    *fakeTranscriber
	sum   *fakeSummarizer
	proc  Processor
	dir   string
}

func newFixture(t *testing.T, mutate func(cfg *config.Config)) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.Uploads = filepath.Join(dir, "uploads")
	cfg.Paths.Transcripts = filepath.Join(dir, "transcripts")
	cfg.Performance.MaxConcurrent = 1
	if mutate != nil {
		mutate(cfg)
	}

	store, err := artifact.New(cfg.Paths.Uploads, cfg.Paths.Transcripts, logger.Nop())
	require.NoError(t, err)

	f := &fixture{cfg: cfg, store: store, tr: &fakeTranscriber{text: "Protokoll Text"}, sum: &fakeSummarizer{}, dir: dir}
	f.proc = New(cfg, store, f.tr, f.sum, logger.Nop())
	return f
}

func (f *fixture) upload(t *testing.T, name string) string {
	t.Helper()
	stored, err := f.store.SaveAudio(context.Background(), name, bytes.NewReader([]byte("audio")))
	require.NoError(t, err)
	return filepath.Join(f.cfg.Paths.Uploads, stored)
}

func TestTranscribePersistsTranscript(t *testing.T) {
	f := newFixture(t, nil)
	f.upload(t, "weekly.mp3")

	got, err := f.proc.Transcribe(context.Background(), "weekly", "de")
	require.NoError(t, err)
	assert.Equal(t, "weekly", got.ID)
	assert.Equal(t, "weekly.txt", got.Filename)
	assert.Equal(t, "Protokoll Text", got.Text)

	text, err := f.store.ReadTranscript(context.Background(), "weekly")
	require.NoError(t, err)
	assert.Equal(t, "Protokoll Text", text)
}

func TestTranscribeFailures(t *testing.T) {
	t.Run("missing audio", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.proc.Transcribe(context.Background(), "nothing", "")
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Zero(t, f.tr.calls.Load())
	})

	t.Run("engine failure leaves no transcript", func(t *testing.T) {
		f := newFixture(t, nil)
		f.upload(t, "weekly.wav")
		f.tr.err = model.Errorf(model.ErrTranscription, "whisper crashed")

		_, err := f.proc.Transcribe(context.Background(), "weekly", "")
		assert.ErrorIs(t, err, model.ErrTranscription)
		assert.False(t, f.store.HasTranscript(context.Background(), "weekly"))
	})
}

func TestTranscribeBoundsConcurrency(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.Performance.MaxConcurrent = 2 })
	f.tr.delay = 30 * time.Millisecond
	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		f.upload(t, id+".mp3")
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.proc.Transcribe(context.Background(), id, "")
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, int32(5), f.tr.calls.Load())
	assert.LessOrEqual(t, f.tr.maxActive.Load(), int32(2))
}

func TestProcessAutoSummarize(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Watcher.AutoSummarize = true
		cfg.Summarization.DefaultProvider = "bart-large-cnn"
	})
	path := f.upload(t, "standup.m4a")

	require.NoError(t, f.proc.Process(context.Background(), path))

	require.Len(t, f.sum.reqs, 1)
	assert.Equal(t, summarizer.Request{Provider: "bart-large-cnn", Transcript: "Protokoll Text", AudioID: "standup"}, f.sum.reqs[0])
}

func TestProcessWithoutAutoSummarize(t *testing.T) {
	f := newFixture(t, nil)
	path := f.upload(t, "standup.m4a")

	require.NoError(t, f.proc.Process(context.Background(), path))
	assert.Empty(t, f.sum.reqs)
	assert.True(t, f.store.HasTranscript(context.Background(), "standup"))
}

func TestProcessSkipsTranscribed(t *testing.T) {
	f := newFixture(t, nil)
	path := f.upload(t, "standup.m4a")
	_, err := f.store.WriteTranscript(context.Background(), "standup", "existing")
	require.NoError(t, err)

	require.NoError(t, f.proc.Process(context.Background(), path))
	assert.Zero(t, f.tr.calls.Load())
}

func TestProcessSkipsRecentAPIFailure(t *testing.T) {
	f := newFixture(t, nil)
	path := f.upload(t, "weekly.wav")
	f.tr.err = model.Errorf(model.ErrTranscription, "whisper crashed")

	_, err := f.proc.Transcribe(context.Background(), "weekly", "")
	require.ErrorIs(t, err, model.ErrTranscription)

	require.NoError(t, f.proc.Process(context.Background(), path))
	assert.Equal(t, int32(1), f.tr.calls.Load())
	assert.False(t, f.store.HasTranscript(context.Background(), "weekly"))
}

func TestProcessAfterHandledWindow(t *testing.T) {
	f := newFixture(t, nil)
	f.proc.(*implProcessor).handledTTL = 20 * time.Millisecond
	path := f.upload(t, "weekly.wav")
	f.tr.err = model.Errorf(model.ErrTranscription, "whisper crashed")

	_, err := f.proc.Transcribe(context.Background(), "weekly", "")
	require.Error(t, err)

	time.Sleep(40 * time.Millisecond)
	f.tr.err = nil
	require.NoError(t, f.proc.Process(context.Background(), path))
	assert.Equal(t, int32(2), f.tr.calls.Load())
	assert.True(t, f.store.HasTranscript(context.Background(), "weekly"))
}

func TestProcessSkipsInFlightAPIRun(t *testing.T) {
	f := newFixture(t, nil)
	f.tr.delay = 100 * time.Millisecond
	path := f.upload(t, "weekly.wav")

	done := make(chan error, 1)
	go func() {
		_, err := f.proc.Transcribe(context.Background(), "weekly", "")
		done <- err
	}()
	require.Eventually(t, func() bool { return f.tr.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, f.proc.Process(context.Background(), path))
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), f.tr.calls.Load())
}

func TestWatcherRunsDoNotMarkHandled(t *testing.T) {
	f := newFixture(t, nil)
	path := f.upload(t, "weekly.wav")
	f.tr.err = model.Errorf(model.ErrTranscription, "whisper crashed")

	require.Error(t, f.proc.Process(context.Background(), path))
	require.Error(t, f.proc.Process(context.Background(), path))
	assert.Equal(t, int32(2), f.tr.calls.Load())
}

func TestProcessSummaryFailureKeepsTranscript(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Watcher.AutoSummarize = true
		cfg.Summarization.DefaultProvider = "gpt"
	})
	f.sum.err = model.Errorf(model.ErrProviderCall, "503")
	path := f.upload(t, "standup.m4a")

	err := f.proc.Process(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrProviderCall))
	assert.True(t, f.store.HasTranscript(context.Background(), "standup"))
}

func TestSemaphoreAcquireCancelled(t *testing.T) {
	s := newSemaphore(1)
	require.NoError(t, s.acquire(context.Background()))
	defer s.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.acquire(ctx), context.Canceled)
}
