package openrouter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"prismatic-hq/prism/pkg/providers"
)

// Provider is the OpenRouter provider adapter.
// OpenRouter exposes an OpenAI-compatible chat completions API that routes
// to many upstream models. Unlike OpenAI, the API key is optional: free-tier
// models (suffixed ":free") accept unauthenticated requests.
type Provider struct {
	*providers.HTTPProvider

	// referer and title are OpenRouter's optional attribution headers.
	referer string
	title   string
}

const (
	// DefaultBaseURL is OpenRouter's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultReferer identifies this service in OpenRouter's dashboards.
	DefaultReferer = "https://github.com/prismatic-hq/prism"

	// DefaultTitle is the app title shown in OpenRouter's dashboards.
	DefaultTitle = "Prism"
)

// NewProvider creates a new OpenRouter provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openrouter",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	// API key is optional: free-tier models accept keyless requests.

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
		referer:      DefaultReferer,
		title:        DefaultTitle,
	}

	slog.Info("OpenRouter provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"keyless", config.APIKey == "",
	)

	return p, nil
}

// SendCompletion sends a completion request to OpenRouter.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	orReq := transformRequest(req)

	url := fmt.Sprintf("%s/chat/completions", p.GetConfig().BaseURL)
	headers := p.requestHeaders()
	headers["Content-Type"] = "application/json"

	var orResp Response
	if err := p.DoJSONRequest(ctx, "POST", url, orReq, &orResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&orResp)
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

// HealthCheck verifies the OpenRouter API is reachable by listing models.
// The models endpoint does not require authentication.
func (p *Provider) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/models", p.GetConfig().BaseURL)

	resp, err := p.DoRequest(checkCtx, "GET", url, nil, p.requestHeaders())
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// requestHeaders builds the common OpenRouter headers, including the
// optional attribution headers and bearer auth when a key is configured.
func (p *Provider) requestHeaders() map[string]string {
	headers := map[string]string{
		"HTTP-Referer": p.referer,
		"X-Title":      p.title,
	}
	if key := p.GetConfig().APIKey; key != "" {
		headers["Authorization"] = "Bearer " + key
	}
	return headers
}

// IsFreeModel reports whether a model identifier uses OpenRouter's free tier.
func IsFreeModel(model string) bool {
	return strings.HasSuffix(model, ":free")
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
