package model

import "fmt"

// Capability is the request/response family a summarization backend follows.
type Capability string

const (
	CapabilityGenerative Capability = "generative"
	CapabilityExtractive Capability = "extractive"
)

// Backend API identifiers.
const (
	APIOpenAI      = "openai"
	APIHuggingFace = "huggingface"
	APIGemini      = "gemini"
)

// ParseCapability validates a capability name. Empty input yields the
// capability the API family uses by default.
func ParseCapability(s, api string) (Capability, error) {
	switch Capability(s) {
	case CapabilityGenerative, CapabilityExtractive:
		return Capability(s), nil
	case "":
		if api == APIHuggingFace {
			return CapabilityExtractive, nil
		}
		return CapabilityGenerative, nil
	default:
		return "", fmt.Errorf("unknown capability %q", s)
	}
}

// ProviderDescriptor is one static entry of the provider table.
type ProviderDescriptor struct {
	Name       string
	API        string
	Capability Capability
	ModelID    string
}

// CatalogEntry is the public view of a provider used to populate selection controls.
type CatalogEntry struct {
	API        string     `json:"api"`
	ModelID    string     `json:"model_id"`
	Capability Capability `json:"capability"`
}
