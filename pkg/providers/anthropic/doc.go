// Package anthropic implements the Anthropic provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for Anthropic's Messages API. It supports:
//
//   - Messages API (Claude 3.x and later models)
//   - Token usage tracking
//
// # Basic Usage
//
//	config := providers.ProviderConfig{
//	    Name:    "anthropic",
//	    Type:    "anthropic",
//	    BaseURL: "https://api.anthropic.com",
//	    APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
//	}
//
//	provider, err := anthropic.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	req := &providers.CompletionRequest{
//	    Model: "claude-3-opus-20240229",
//	    Messages: []providers.Message{
//	        {Role: "user", Content: "Hello!"},
//	    },
//	    MaxTokens: 1024,  // Required by Anthropic
//	}
//
//	resp, err := provider.SendCompletion(context.Background(), req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Request Transformation
//
// The adapter transforms provider-agnostic CompletionRequest to Anthropic's format:
//
//   - System messages are extracted and placed in the "system" field
//   - Messages must alternate between user and assistant (enforced by validation)
//   - MaxTokens is required (defaults to 4096 if not provided)
//
// # Response Transformation
//
// The adapter normalizes Anthropic responses to provider-agnostic format:
//
//   - Content blocks are concatenated into a single string
//   - Token usage is extracted (input_tokens + output_tokens)
//   - Stop reason is normalized (end_turn -> stop, max_tokens -> length)
//
// # Error Handling
//
// The adapter maps Anthropic-specific errors to common error types:
//
//   - 401/403 -> AuthError
//   - 429 -> RateLimitError (includes retry-after)
//   - 400 -> ProviderError (not retried)
//   - 5xx -> ProviderError (retried automatically)
//
// # Anthropic-Specific Requirements
//
// Important differences from OpenAI:
//
//  1. MaxTokens is required (cannot be 0)
//  2. System messages must be extracted from messages array
//  3. Messages must alternate between user and assistant
//  4. First message must be from user
//  5. Uses x-api-key header instead of Authorization: Bearer
//  6. Requires anthropic-version header
package anthropic
