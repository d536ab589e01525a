package anthropic

import (
	"fmt"

	"prismatic-hq/prism/pkg/providers"
)

// Anthropic API request/response types

// AnthropicRequest represents an Anthropic messages request.
type AnthropicRequest struct {
	Model         string             `json:"model"`
	Messages      []AnthropicMessage `json:"messages"`
	System        string             `json:"system,omitempty"`
	MaxTokens     int                `json:"max_tokens"`
	Temperature   float64            `json:"temperature,omitempty"`
	TopP          float64            `json:"top_p,omitempty"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
}

// AnthropicMessage represents a message in Anthropic format.
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentBlock represents a content block in Anthropic format.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// AnthropicResponse represents an Anthropic messages response.
type AnthropicResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        AnthropicUsage `json:"usage"`
}

// AnthropicUsage represents token usage in Anthropic format.
type AnthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Transformation functions

// transformRequest transforms a provider-agnostic request to Anthropic format.
func transformRequest(req *providers.CompletionRequest) (*AnthropicRequest, error) {
	anthropicReq := &AnthropicRequest{
		Model:         req.Model,
		Messages:      make([]AnthropicMessage, 0, len(req.Messages)),
		MaxTokens:     req.MaxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		StopSequences: req.Stop,
	}

	// Set default max_tokens if not provided (required by Anthropic)
	if anthropicReq.MaxTokens == 0 {
		anthropicReq.MaxTokens = 4096
	}

	// Extract system message (Anthropic requires it as a separate field)
	var systemMessage string
	for _, msg := range req.Messages {
		if msg.Role == providers.RoleSystem {
			systemMessage = msg.Content
		} else {
			anthropicReq.Messages = append(anthropicReq.Messages, AnthropicMessage{
				Role:    msg.Role,
				Content: msg.Content,
			})
		}
	}
	anthropicReq.System = systemMessage

	// Validate: Anthropic requires alternating user/assistant messages
	if err := validateMessageSequence(anthropicReq.Messages); err != nil {
		return nil, err
	}

	return anthropicReq, nil
}

// validateMessageSequence validates that messages alternate between user and assistant.
func validateMessageSequence(messages []AnthropicMessage) error {
	if len(messages) == 0 {
		return nil
	}

	// First message must be from user
	if messages[0].Role != providers.RoleUser {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "first message must be from user (Anthropic requirement)",
		}
	}

	// Check alternation
	for i := 1; i < len(messages); i++ {
		prev := messages[i-1].Role
		curr := messages[i].Role

		if prev == curr {
			return &providers.ValidationError{
				Field:   "messages",
				Message: fmt.Sprintf("messages must alternate between user and assistant (Anthropic requirement), found consecutive %s messages at index %d", curr, i),
			}
		}
	}

	return nil
}

// transformResponse transforms an Anthropic response to provider-agnostic format.
func transformResponse(resp *AnthropicResponse) (*providers.CompletionResponse, error) {
	// Extract text content from content blocks
	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	result := &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      content,
		FinishReason: normalizeStopReason(resp.StopReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
		Metadata: make(map[string]string),
	}

	return result, nil
}

// normalizeStopReason normalizes Anthropic stop reasons to provider-agnostic values.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn":
		return providers.FinishReasonStop
	case "max_tokens":
		return providers.FinishReasonLength
	case "stop_sequence":
		return providers.FinishReasonStop
	default:
		return reason
	}
}
