package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prismatic-hq/prism/pkg/providers"
)

// Provider is the Anthropic provider adapter.
// It implements the providers.Provider interface for Anthropic's Messages API.
type Provider struct {
	*providers.HTTPProvider
}

const (
	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"
)

// NewProvider creates a new Anthropic provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "anthropic",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com"
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Anthropic",
		}
	}

	// Set defaults if not provided
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("Anthropic provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// SendCompletion sends a completion request to Anthropic.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	anthropicReq, err := transformRequest(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/messages", p.GetConfig().BaseURL)
	headers := map[string]string{
		"x-api-key":         p.GetConfig().APIKey,
		"anthropic-version": DefaultAnthropicVersion,
		"Content-Type":      "application/json",
	}

	var anthropicResp AnthropicResponse
	if err := p.DoJSONRequest(ctx, "POST", url, anthropicReq, &anthropicResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&anthropicResp)
	if err != nil {
		return nil, &providers.ParseError{
			Provider: p.GetName(),
			Cause:    err,
		}
	}

	slog.Debug("completion request succeeded",
		"provider", p.GetName(),
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
	)

	return resp, nil
}

// HealthCheck verifies the Anthropic API is reachable.
// Anthropic uses the x-api-key header rather than bearer auth, so the
// generic bearer health check does not apply here.
func (p *Provider) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/v1/models", p.GetConfig().BaseURL)
	headers := map[string]string{
		"x-api-key":         p.GetConfig().APIKey,
		"anthropic-version": DefaultAnthropicVersion,
	}

	resp, err := p.DoRequest(checkCtx, "GET", url, nil, headers)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	if req.Model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}

	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}

	return nil
}
