package transcriber

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

// openaiEngine uploads the recording to the OpenAI transcription API.
type openaiEngine struct {
	client          openai.Client
	apiKey          string
	model           string
	defaultLanguage string
	logger          logger.Logger
}

func newOpenAIEngine(apiKey, baseURL, modelName, language string, httpClient *http.Client, log logger.Logger) *openaiEngine {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &openaiEngine{
		client:          openai.NewClient(opts...),
		apiKey:          apiKey,
		model:           modelName,
		defaultLanguage: language,
		logger:          log,
	}
}

func (o *openaiEngine) Engine() string { return config.EngineOpenAI }

func (o *openaiEngine) Transcribe(ctx context.Context, audioPath, language string) (*Result, error) {
	start := time.Now()

	if o.apiKey == "" {
		return nil, model.Errorf(model.ErrTranscription, "openai api key is not configured (set OPENAI_API_KEY)")
	}

	f, err := os.Open(audioPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.Errorf(model.ErrNotFound, "audio %s does not exist", filepath.Base(audioPath))
		}
		return nil, model.Wrap(model.ErrTranscription, err, "open audio")
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(o.model),
	}
	if language == "" {
		language = o.defaultLanguage
	}
	if language != "" && language != "auto" {
		params.Language = openai.String(language)
	}

	o.logger.Info(ctx, "Uploading %s to %s", filepath.Base(audioPath), o.model)
	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, model.Wrap(model.ErrTranscription, err, "openai transcription")
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, model.Errorf(model.ErrTranscription, "openai returned no text for %s", filepath.Base(audioPath))
	}
	return &Result{Text: text, Duration: time.Since(start)}, nil
}
