// Package analysis orchestrates prompt analysis: heuristic scoring,
// suggestion generation, and optional LLM enrichment.
package analysis

import "prismatic-hq/prism/pkg/suggest"

// Request describes a single prompt analysis.
type Request struct {
	// PromptText is the prompt to analyze.
	PromptText string `json:"prompt_text"`

	// TargetModel is the model the prompt is written for. It also selects
	// the enrichment provider. Defaults to "general".
	TargetModel string `json:"target_model,omitempty"`

	// DetailedAnalysis enables LLM enrichment of the heuristic result.
	DetailedAnalysis bool `json:"detailed_analysis,omitempty"`

	// APIKey optionally overrides the configured provider key for this request.
	APIKey string `json:"api_key,omitempty"`
}

// Result is the full analysis outcome.
type Result struct {
	// Scores holds the per-dimension scores, heuristic values overlaid
	// with any LLM-provided scores.
	Scores map[string]float64 `json:"scores"`

	// OverallScore is the 0-5 display score. It is always computed from
	// the heuristic dimension scores, before any enrichment merge.
	OverallScore float64 `json:"overall_score"`

	// Suggestions lists improvement suggestions, heuristic first.
	Suggestions []suggest.Suggestion `json:"suggestions"`

	// Strengths and Weaknesses describe what the prompt does well or poorly.
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`

	// OptimizedPrompt is a rewritten prompt: the LLM's improved prompt when
	// enrichment ran, otherwise the suggestion engine's rewrite.
	OptimizedPrompt string `json:"optimized_prompt"`

	// Note carries advisory text, e.g. when enrichment was skipped
	// because no API key was available.
	Note string `json:"note,omitempty"`
}

// enrichment is the JSON payload requested from the LLM.
type enrichment struct {
	DimensionScores map[string]float64   `json:"dimension_scores"`
	Strengths       []string             `json:"strengths"`
	Weaknesses      []string             `json:"weaknesses"`
	Suggestions     []suggest.Suggestion `json:"suggestions"`
	ImprovedPrompt  string               `json:"improved_prompt"`
}
