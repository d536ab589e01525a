package openai

import (
	"fmt"

	"prismatic-hq/prism/pkg/providers"
)

// OpenAI API request/response types

// OpenAIRequest represents an OpenAI chat completion request.
type OpenAIRequest struct {
	Model       string          `json:"model"`
	Messages    []OpenAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	TopP        float64         `json:"top_p,omitempty"`
	Stop        []string        `json:"stop,omitempty"`
	N           int             `json:"n,omitempty"`
}

// OpenAIMessage represents a message in OpenAI format.
type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

// OpenAIResponse represents an OpenAI chat completion response.
type OpenAIResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []OpenAIChoice `json:"choices"`
	Usage   OpenAIUsage    `json:"usage"`
}

// OpenAIChoice represents a completion choice in OpenAI format.
type OpenAIChoice struct {
	Index        int           `json:"index"`
	Message      OpenAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// OpenAIUsage represents token usage in OpenAI format.
type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Transformation functions

// transformRequest transforms a provider-agnostic request to OpenAI format.
func transformRequest(req *providers.CompletionRequest) *OpenAIRequest {
	openaiReq := &OpenAIRequest{
		Model:       req.Model,
		Messages:    make([]OpenAIMessage, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
		Stop:        req.Stop,
		N:           1, // Always generate 1 completion
	}

	for i, msg := range req.Messages {
		openaiReq.Messages[i] = OpenAIMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return openaiReq
}

// transformResponse transforms an OpenAI response to provider-agnostic format.
func transformResponse(resp *OpenAIResponse) (*providers.CompletionResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	// Use the first choice (we always request N=1)
	choice := resp.Choices[0]

	result := &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: normalizeFinishReason(choice.FinishReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Created:  resp.Created,
		Metadata: make(map[string]string),
	}

	return result, nil
}

// normalizeFinishReason normalizes OpenAI finish reasons to provider-agnostic values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "stop":
		return providers.FinishReasonStop
	case "length":
		return providers.FinishReasonLength
	case "content_filter":
		return providers.FinishReasonContentFilter
	default:
		return reason
	}
}
