package config

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Paths         PathsConfig         `yaml:"paths"`
	Whisper       WhisperConfig       `yaml:"whisper"`
	FFmpeg        FFmpegConfig        `yaml:"ffmpeg"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Summarization SummarizationConfig `yaml:"summarization"`
	Providers     []ProviderConfig    `yaml:"providers"`
	Watcher       WatcherConfig       `yaml:"watcher"`
	Logging       LoggingConfig       `yaml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance"`

	// Secrets are populated from the environment only.
	Secrets Secrets `yaml:"-"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

type PathsConfig struct {
	Uploads     string `yaml:"uploads"`
	Transcripts string `yaml:"transcripts"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type TranscriptionConfig struct {
	Engine      string `yaml:"engine"`
	OpenAIModel string `yaml:"openai_model"`
}

type SummarizationConfig struct {
	Timeout              time.Duration `yaml:"timeout"`
	MaxOutputTokens      int           `yaml:"max_output_tokens"`
	Temperature          *float64      `yaml:"temperature"` // nil means the default; 0 is valid
	ExtractiveInputChars int           `yaml:"extractive_input_chars"`
	ExtractiveMaxLength  int           `yaml:"extractive_max_length"`
	ExtractiveMinLength  int           `yaml:"extractive_min_length"`
	DefaultProvider      string        `yaml:"default_provider"`
	TemplateFile         string        `yaml:"template_file"`
}

// ProviderConfig is one row of the static provider table.
type ProviderConfig struct {
	Name       string `yaml:"name"`
	API        string `yaml:"api"`
	ModelID    string `yaml:"model_id"`
	Capability string `yaml:"capability"`
}

type WatcherConfig struct {
	Enabled       bool `yaml:"enabled"`
	AutoSummarize bool `yaml:"auto_summarize"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

const defaultTemperature = 0.7

const (
	EngineWhisperCLI = "whisper-cli"
	EngineOpenAI     = "openai"
)

// defaultProviders is used when the config file declares no providers.
var defaultProviders = []ProviderConfig{
	{Name: "Mistral-Nemo", API: model.APIHuggingFace, ModelID: "mistralai/Mistral-Nemo-Instruct-2407", Capability: string(model.CapabilityGenerative)},
	{Name: "gemma-2-2b-it", API: model.APIHuggingFace, ModelID: "google/gemma-2-2b-it", Capability: string(model.CapabilityGenerative)},
	{Name: "Phi-3-mini", API: model.APIHuggingFace, ModelID: "microsoft/Phi-3-mini-4k-instruct", Capability: string(model.CapabilityGenerative)},
	{Name: "Qwen2.5-7B", API: model.APIHuggingFace, ModelID: "Qwen/Qwen2.5-7B-Instruct", Capability: string(model.CapabilityGenerative)},
	{Name: "Llama-3.1-Nemotron", API: model.APIHuggingFace, ModelID: "nvidia/Llama-3.1-Nemotron-70B-Instruct", Capability: string(model.CapabilityGenerative)},
	{Name: "flan-t5", API: model.APIHuggingFace, ModelID: "google/flan-t5-large", Capability: string(model.CapabilityExtractive)},
	{Name: "bart-large-cnn", API: model.APIHuggingFace, ModelID: "facebook/bart-large-cnn", Capability: string(model.CapabilityExtractive)},
	{Name: "gpt-3.5-turbo", API: model.APIOpenAI, ModelID: "gpt-3.5-turbo", Capability: string(model.CapabilityGenerative)},
	{Name: "gemini-2.5-flash", API: model.APIGemini, ModelID: "gemini-2.5-flash", Capability: string(model.CapabilityGenerative)},
}

func (c *Config) Validate() error {
	if c.Paths.Uploads == "" {
		return fmt.Errorf("paths.uploads is required")
	}
	if c.Paths.Transcripts == "" {
		return fmt.Errorf("paths.transcripts is required")
	}
	if c.Paths.Uploads == c.Paths.Transcripts {
		return fmt.Errorf("paths.uploads and paths.transcripts must differ")
	}

	if c.Transcription.Engine == "" {
		c.Transcription.Engine = EngineWhisperCLI
	}
	switch c.Transcription.Engine {
	case EngineWhisperCLI:
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	case EngineOpenAI:
		if c.Transcription.OpenAIModel == "" {
			c.Transcription.OpenAIModel = "whisper-1"
		}
	default:
		return fmt.Errorf("transcription.engine %q is not supported", c.Transcription.Engine)
	}

	if len(c.Providers) == 0 {
		c.Providers = append([]ProviderConfig(nil), defaultProviders...)
	}
	seen := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("providers[%d].name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("providers[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		switch p.API {
		case model.APIOpenAI, model.APIHuggingFace, model.APIGemini:
		default:
			return fmt.Errorf("providers[%d]: api %q is not supported", i, p.API)
		}
		if p.ModelID == "" {
			return fmt.Errorf("providers[%d].model_id is required", i)
		}
		if _, err := model.ParseCapability(p.Capability, p.API); err != nil {
			return fmt.Errorf("providers[%d]: %w", i, err)
		}
	}
	if c.Summarization.DefaultProvider != "" && !seen[c.Summarization.DefaultProvider] {
		return fmt.Errorf("summarization.default_provider %q is not in providers", c.Summarization.DefaultProvider)
	}
	if c.Watcher.AutoSummarize && c.Summarization.DefaultProvider == "" {
		return fmt.Errorf("watcher.auto_summarize requires summarization.default_provider")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Minute
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 512 << 20
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Summarization.Timeout == 0 {
		c.Summarization.Timeout = 120 * time.Second
	}
	if c.Summarization.MaxOutputTokens == 0 {
		c.Summarization.MaxOutputTokens = 1500
	}
	if c.Summarization.Temperature == nil {
		t := defaultTemperature
		c.Summarization.Temperature = &t
	}
	if c.Summarization.ExtractiveInputChars == 0 {
		c.Summarization.ExtractiveInputChars = 1024
	}
	if c.Summarization.ExtractiveMaxLength == 0 {
		c.Summarization.ExtractiveMaxLength = 500
	}
	if c.Summarization.ExtractiveMinLength == 0 {
		c.Summarization.ExtractiveMinLength = 100
	}
	if c.Summarization.ExtractiveMinLength > c.Summarization.ExtractiveMaxLength {
		return fmt.Errorf("summarization.extractive_min_length exceeds extractive_max_length")
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// SamplingTemperature is the configured temperature, or the default before
// Validate has run.
func (s SummarizationConfig) SamplingTemperature() float64 {
	if s.Temperature == nil {
		return defaultTemperature
	}
	return *s.Temperature
}

// ProviderDescriptors converts the validated provider table into descriptors.
func (c *Config) ProviderDescriptors() []model.ProviderDescriptor {
	out := make([]model.ProviderDescriptor, 0, len(c.Providers))
	for _, p := range c.Providers {
		capability, _ := model.ParseCapability(p.Capability, p.API)
		out = append(out, model.ProviderDescriptor{
			Name:       p.Name,
			API:        p.API,
			Capability: capability,
			ModelID:    p.ModelID,
		})
	}
	return out
}
