// Package llm provides the model-backed resume scorer and its provider
// abstraction. Set LLM_PROVIDER and the corresponding API key + optional
// model name in the environment.
package llm

import (
	"os"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider
	ProviderOpenAI Provider = "openai"
	// ProviderOpenRouter is the OpenRouter provider
	ProviderOpenRouter Provider = "openrouter"
)

// DefaultModels maps each provider to its default model name.
var DefaultModels = map[Provider]string{
	ProviderGemini:     "gemini-1.5-flash",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "meta-llama/llama-3.1-8b-instruct:free",
}

// Config holds the provider selection and model name for scoring calls.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
}

// ConfigFromEnv reads LLM_PROVIDER, the provider's model override and its
// API key from the environment. Unknown provider values fall back to
// Gemini.
func ConfigFromEnv() *Config {
	provider := Provider(strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))))
	switch provider {
	case ProviderGemini, ProviderOpenAI, ProviderOpenRouter:
	default:
		provider = ProviderGemini
	}

	cfg := &Config{Provider: provider, Model: DefaultModels[provider]}
	switch provider {
	case ProviderGemini:
		if m := os.Getenv("GEMINI_MODEL"); m != "" {
			cfg.Model = m
		}
		cfg.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if cfg.APIKey == "" {
			cfg.APIKey = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
	case ProviderOpenAI:
		if m := os.Getenv("OPENAI_MODEL"); m != "" {
			cfg.Model = m
		}
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case ProviderOpenRouter:
		if m := os.Getenv("MODEL_NAME"); m != "" {
			cfg.Model = m
		} else if m := os.Getenv("OPENROUTER_MODEL"); m != "" {
			cfg.Model = m
		}
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	}
	return cfg
}
