package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prismatic-hq/prism/pkg/providers"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for OpenAI's chat completions API.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new OpenAI provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openai",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for OpenAI",
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

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// SendCompletion sends a completion request to OpenAI.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	openaiReq := transformRequest(req)

	url := fmt.Sprintf("%s/chat/completions", p.GetConfig().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + p.GetConfig().APIKey,
		"Content-Type":  "application/json",
	}

	var openaiResp OpenAIResponse
	if err := p.DoJSONRequest(ctx, "POST", url, openaiReq, &openaiResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&openaiResp)
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

// HealthCheck verifies the OpenAI API is reachable by listing models.
func (p *Provider) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/models", p.GetConfig().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + p.GetConfig().APIKey,
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
