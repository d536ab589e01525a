// Package providers implements a unified abstraction layer for LLM providers.
//
// # Overview
//
// The providers package provides a consistent interface for the enrichment
// clients used during prompt analysis. It normalizes requests and responses
// across providers (OpenAI, Anthropic, OpenRouter), manages connections,
// tracks provider health, and maps provider failures to typed errors so the
// analysis engine can degrade to heuristic-only results.
//
// # Architecture
//
// The package is organized into three layers:
//
//  1. Provider Interface - Defines the contract all providers must implement
//  2. Base HTTP Provider - Implements common HTTP client logic (connection pooling, retries, timeouts)
//  3. Provider Adapters - Provider-specific implementations (openai, anthropic, openrouter subpackages)
//
// # Basic Usage
//
// Create a single provider:
//
//	config := providers.ProviderConfig{
//	    Name:     "openai",
//	    Type:     "openai",
//	    BaseURL:  "https://api.openai.com/v1",
//	    APIKey:   os.Getenv("OPENAI_API_KEY"),
//	    Timeout:  60 * time.Second,
//	}
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	req := &providers.CompletionRequest{
//	    Model: "gpt-4",
//	    Messages: []providers.Message{
//	        {Role: "user", Content: "Hello!"},
//	    },
//	}
//
//	resp, err := provider.SendCompletion(context.Background(), req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Error Handling
//
// The package defines specific error types for common failure scenarios:
//
//   - ProviderError: General provider errors
//   - AuthError: Authentication failures (HTTP 401/403)
//   - RateLimitError: Rate limit exceeded (HTTP 429)
//   - TimeoutError: Request timeout
//   - ParseError: Response parsing failure
//   - ModelNotFoundError: Unknown model
//   - ValidationError: Invalid request
//
// Example error handling:
//
//	resp, err := provider.SendCompletion(ctx, req)
//	if err != nil {
//	    switch e := err.(type) {
//	    case *providers.AuthError:
//	        fmt.Printf("Authentication failed: %v\n", e)
//	    case *providers.RateLimitError:
//	        fmt.Printf("Rate limited, retry after: %v\n", e.RetryAfter)
//	    case *providers.TimeoutError:
//	        fmt.Printf("Request timeout: %v\n", e)
//	    default:
//	        fmt.Printf("Error: %v\n", e)
//	    }
//	}
//
// # Supported Providers
//
// The package supports three provider types:
//
//  1. OpenAI - OpenAI's chat completions API
//  2. Anthropic - Anthropic's messages API
//  3. OpenRouter - OpenRouter's OpenAI-compatible API, including keyless free-tier models
//
// # Retry Logic
//
// Providers automatically retry transient errors (5xx, network failures) with
// exponential backoff:
//
//	config := providers.ProviderConfig{
//	    Name:       "openai",
//	    MaxRetries: 3,  // Retry up to 3 times
//	}
//
// Authentication, rate-limit, and bad-request errors are never retried.
//
// # Thread Safety
//
// All provider implementations are thread-safe and can be used concurrently
// from multiple goroutines.
package providers
