package providers

import "context"

// Provider is the core interface that all LLM provider adapters must implement.
// It provides a unified abstraction for interacting with different LLM providers
// (OpenAI, Anthropic, OpenRouter, etc.).
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must respect context cancellation and return immediately when
// the context is cancelled.
//
// Example usage:
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    return err
//	}
//
//	req := &CompletionRequest{
//	    Model: "gpt-4",
//	    Messages: []Message{
//	        {Role: "user", Content: "Hello!"},
//	    },
//	}
//
//	resp, err := provider.SendCompletion(ctx, req)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Content)
type Provider interface {
	// SendCompletion sends a completion request to the provider and returns the response.
	// The request is transformed to the provider-specific format, sent to the provider,
	// and the response is normalized to the provider-agnostic format.
	//
	// Returns an error if the request fails, times out, or the provider returns an error.
	// Implements automatic retry with exponential backoff for transient errors.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// HealthCheck performs a health check against the provider.
	// It sends a lightweight request to verify the provider is reachable and responding.
	//
	// Returns nil if the provider is healthy, or an error describing the health issue.
	HealthCheck(ctx context.Context) error

	// GetName returns the provider's configured name (e.g., "openai", "anthropic").
	GetName() string

	// GetType returns the provider's type (e.g., "openai", "anthropic", "openrouter").
	GetType() string

	// GetConfig returns the provider's configuration.
	GetConfig() ProviderConfig

	// IsHealthy returns the current health status of the provider.
	// This is updated after each request and can be used for routing decisions.
	IsHealthy() bool

	// GetHealth returns detailed health information including last check time,
	// consecutive failures, and error details.
	GetHealth() ProviderHealth

	// Close closes the provider and releases any resources (HTTP connections, etc.).
	// After calling Close, the provider should not be used.
	Close() error
}
