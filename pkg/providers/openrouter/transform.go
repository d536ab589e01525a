package openrouter

import (
	"fmt"

	"prismatic-hq/prism/pkg/providers"
)

// OpenRouter wire types. The format is OpenAI's chat completions schema.

// Request represents an OpenRouter chat completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

// Message represents a message in OpenRouter format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

// Response represents an OpenRouter chat completion response.
type Response struct {
	ID      string   `json:"id"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice represents a completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage represents token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// transformRequest transforms a provider-agnostic request to OpenRouter format.
func transformRequest(req *providers.CompletionRequest) *Request {
	orReq := &Request{
		Model:       req.Model,
		Messages:    make([]Message, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
		Stop:        req.Stop,
	}

	for i, msg := range req.Messages {
		orReq.Messages[i] = Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return orReq
}

// transformResponse transforms an OpenRouter response to provider-agnostic format.
func transformResponse(resp *Response) (*providers.CompletionResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

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

// normalizeFinishReason normalizes finish reasons to provider-agnostic values.
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
