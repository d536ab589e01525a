package analysis

import (
	"testing"
)

func TestExtractJSON_JSONFence(t *testing.T) {
	content := "Here is my analysis:\n```json\n{\"improved_prompt\": \"better\"}\n```\nHope it helps."
	got := extractJSON(content)
	if got != `{"improved_prompt": "better"}` {
		t.Errorf("extractJSON = %q", got)
	}
}

func TestExtractJSON_BareFence(t *testing.T) {
	content := "```\n{\"strengths\": []}\n```"
	got := extractJSON(content)
	if got != `{"strengths": []}` {
		t.Errorf("extractJSON = %q", got)
	}
}

func TestExtractJSON_BraceScan(t *testing.T) {
	content := "Sure! {\"weaknesses\": [\"too vague\"]} That's all."
	got := extractJSON(content)
	if got != `{"weaknesses": ["too vague"]}` {
		t.Errorf("extractJSON = %q", got)
	}
}

func TestParseEnrichment(t *testing.T) {
	content := "```json\n" + `{
		"dimension_scores": {"clarity": 4, "context": 3},
		"strengths": ["clear ask"],
		"weaknesses": ["no examples"],
		"suggestions": [
			{"title": "Add examples", "description": "d", "example": "e", "rationale": "r"}
		],
		"improved_prompt": "rewritten"
	}` + "\n```"

	e, err := parseEnrichment(content)
	if err != nil {
		t.Fatalf("parseEnrichment: %v", err)
	}
	if e.DimensionScores["clarity"] != 4 {
		t.Errorf("clarity = %v, want 4", e.DimensionScores["clarity"])
	}
	if len(e.Suggestions) != 1 || e.Suggestions[0].Title != "Add examples" {
		t.Errorf("suggestions = %+v", e.Suggestions)
	}
	if e.ImprovedPrompt != "rewritten" {
		t.Errorf("improved_prompt = %q", e.ImprovedPrompt)
	}
}

func TestParseEnrichment_TrailingCommentary(t *testing.T) {
	// No fences and commentary around the object exercises the cleanup retry.
	content := `Certainly. {"improved_prompt": "x"} Let me know if you need more.`
	e, err := parseEnrichment(content)
	if err != nil {
		t.Fatalf("parseEnrichment: %v", err)
	}
	if e.ImprovedPrompt != "x" {
		t.Errorf("improved_prompt = %q, want x", e.ImprovedPrompt)
	}
}

func TestParseEnrichment_NoJSON(t *testing.T) {
	if _, err := parseEnrichment("I cannot analyze this prompt."); err == nil {
		t.Error("expected error for content without JSON")
	}
}
