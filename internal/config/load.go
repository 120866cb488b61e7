package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Secrets holds credentials and endpoint overrides that never live in the YAML file.
type Secrets struct {
	OpenAIAPIKey      string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string `env:"OPENAI_BASE_URL"`
	HuggingFaceToken  string `env:"HF_TOKEN"`
	HuggingFaceRouter string `env:"HF_BASE_URL" envDefault:"https://router.huggingface.co"`
	HuggingFaceAPIURL string `env:"HF_INFERENCE_URL" envDefault:"https://api-inference.huggingface.co"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
}

// Load reads the YAML config at path, overlays secrets from the environment
// (after loading envFile when it exists) and validates the result.
func Load(path string, envFile string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("load env file: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg.Secrets); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
