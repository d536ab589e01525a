// Package openrouter implements the OpenRouter provider adapter.
//
// OpenRouter (https://openrouter.ai) exposes an OpenAI-compatible chat
// completions API that routes to many upstream models. This adapter is the
// default enrichment provider: free-tier models (model IDs suffixed ":free")
// accept unauthenticated requests, so the service can run without any API key.
//
// # Basic Usage
//
//	config := providers.ProviderConfig{
//	    Name: "openrouter",
//	    Type: "openrouter",
//	    // BaseURL defaults to https://openrouter.ai/api/v1
//	    // APIKey is optional for ":free" models
//	}
//
//	provider, err := openrouter.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	req := &providers.CompletionRequest{
//	    Model: "meta-llama/llama-3.3-8b-instruct:free",
//	    Messages: []providers.Message{
//	        {Role: "user", Content: "Hello!"},
//	    },
//	}
//
//	resp, err := provider.SendCompletion(context.Background(), req)
//
// # Headers
//
// Every request carries OpenRouter's optional attribution headers
// (HTTP-Referer and X-Title). When an API key is configured, requests also
// carry bearer auth.
//
// # Error Handling
//
// Errors map to the common provider error types. Keyless requests against
// paid models return AuthError (HTTP 401) with no retry.
package openrouter
