package providerfactory

import (
	"fmt"
	"log/slog"
	"strings"

	"prismatic-hq/prism/pkg/providers"
	"prismatic-hq/prism/pkg/providers/anthropic"
	"prismatic-hq/prism/pkg/providers/openai"
	"prismatic-hq/prism/pkg/providers/openrouter"
)

// DefaultModel is the model used when a request names no target model.
// It is a free-tier OpenRouter model, so enrichment works without any API key.
const DefaultModel = "meta-llama/llama-3.3-8b-instruct:free"

// Provider type identifiers.
const (
	TypeOpenAI     = "openai"
	TypeAnthropic  = "anthropic"
	TypeOpenRouter = "openrouter"
)

// NewProvider creates a new provider instance based on the configuration.
// It automatically detects the provider type and creates the appropriate adapter.
//
// Supported provider types:
//   - "openai": OpenAI chat completions API
//   - "anthropic": Anthropic Messages API
//   - "openrouter": OpenRouter's OpenAI-compatible API
//
// The provider type is determined from the config.Type field. If not specified,
// it is inferred from the provider name.
//
// Example:
//
//	config := ProviderConfig{
//	    Name: "openai",
//	    Type: "openai",
//	    BaseURL: "https://api.openai.com/v1",
//	    APIKey: "sk-...",
//	}
//	provider, err := NewProvider(config)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
func NewProvider(config providers.ProviderConfig) (providers.Provider, error) {
	providerType := config.Type
	if providerType == "" {
		providerType = inferProviderType(config.Name)
		config.Type = providerType
	}

	slog.Debug("creating provider",
		"name", config.Name,
		"type", providerType,
		"base_url", config.BaseURL,
	)

	var provider providers.Provider
	var err error

	switch providerType {
	case TypeOpenAI:
		provider, err = openai.NewProvider(config)

	case TypeAnthropic:
		provider, err = anthropic.NewProvider(config)

	case TypeOpenRouter:
		provider, err = openrouter.NewProvider(config)

	default:
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type: %q (supported: openai, anthropic, openrouter)", providerType),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", config.Name, err)
	}

	slog.Info("provider created successfully",
		"name", config.Name,
		"type", providerType,
	)

	return provider, nil
}

// ResolveModel maps a target model identifier to a provider type and the
// model ID to send upstream.
//
// Resolution rules:
//   - empty -> openrouter with DefaultModel
//   - "openrouter:<model>" -> openrouter with <model>
//   - "gpt..." -> openai
//   - "claude..." -> anthropic
//   - anything else (including "vendor/model" IDs) -> openrouter
func ResolveModel(target string) (providerType, model string) {
	target = strings.TrimSpace(target)

	switch {
	case target == "":
		return TypeOpenRouter, DefaultModel

	case strings.HasPrefix(target, "openrouter:"):
		model = strings.TrimPrefix(target, "openrouter:")
		if model == "" {
			model = DefaultModel
		}
		return TypeOpenRouter, model

	case strings.HasPrefix(target, "gpt"):
		return TypeOpenAI, target

	case strings.HasPrefix(target, "claude"):
		return TypeAnthropic, target

	default:
		return TypeOpenRouter, target
	}
}

// EnvKeyName returns the environment variable consulted for a provider
// type's API key when none is configured.
func EnvKeyName(providerType string) string {
	switch providerType {
	case TypeOpenAI:
		return "OPENAI_API_KEY"
	case TypeAnthropic:
		return "ANTHROPIC_API_KEY"
	case TypeOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}

// inferProviderType infers the provider type from the provider name.
func inferProviderType(name string) string {
	switch name {
	case "openai":
		return TypeOpenAI
	case "anthropic":
		return TypeAnthropic
	default:
		// OpenRouter fronts everything else
		return TypeOpenRouter
	}
}
