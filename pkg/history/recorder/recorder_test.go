package recorder

import (
	"context"
	"strings"
	"testing"
	"time"

	"prismatic-hq/prism/pkg/analysis"
	"prismatic-hq/prism/pkg/history"
	"prismatic-hq/prism/pkg/history/storage"
	"prismatic-hq/prism/pkg/suggest"
)

func sampleAnalysis() *Analysis {
	return &Analysis{
		Prompt:      "Summarize the attached quarterly report in three bullet points.",
		TargetModel: "gpt-4o",
		Result: &analysis.Result{
			Scores: map[string]float64{
				"clarity":     75,
				"specificity": 60,
			},
			OverallScore: 67.5,
			Suggestions: []suggest.Suggestion{
				{Title: "Add output format"},
				{Title: "State the audience"},
			},
		},
		Detailed: true,
		Provider: "openai",
		Model:    "gpt-4o",
		Identity: "203.0.113.7",
		Duration: 120 * time.Millisecond,
	}
}

// waitForSize polls the store until it holds want records or the deadline passes.
func waitForSize(t *testing.T, store *storage.MemoryStore, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.Size() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("store size = %d, want %d", store.Size(), want)
}

func TestRecord_WritesAsync(t *testing.T) {
	store := storage.NewMemoryStore()
	rec := NewRecorder(store, nil)
	defer rec.Close()

	a := sampleAnalysis()
	if err := rec.Record(context.Background(), a); err != nil {
		t.Fatalf("Record: %v", err)
	}

	waitForSize(t, store, 1)

	records, err := store.Query(context.Background(), &history.Query{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got := records[0]

	if got.ID == "" {
		t.Error("record has no ID")
	}
	if !strings.HasPrefix(got.PromptHash, "sha256:") {
		t.Errorf("PromptHash = %q, want sha256 prefix", got.PromptHash)
	}
	if got.PromptLength != len(a.Prompt) {
		t.Errorf("PromptLength = %d, want %d", got.PromptLength, len(a.Prompt))
	}
	if got.OverallScore != 67.5 {
		t.Errorf("OverallScore = %v, want 67.5", got.OverallScore)
	}
	if got.SuggestionCount != 2 {
		t.Errorf("SuggestionCount = %d, want 2", got.SuggestionCount)
	}
	if got.DimensionScores["clarity"] != 75 {
		t.Errorf("DimensionScores[clarity] = %v, want 75", got.DimensionScores["clarity"])
	}
	if got.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", got.Provider)
	}
	// IP identities are stored as-is
	if got.Identity != "203.0.113.7" {
		t.Errorf("Identity = %q, want plain IP", got.Identity)
	}
}

func TestRecord_TruncatesPreview(t *testing.T) {
	store := storage.NewMemoryStore()
	config := DefaultConfig()
	config.MaxPreviewLength = 20
	rec := NewRecorder(store, config)
	defer rec.Close()

	a := sampleAnalysis()
	if err := rec.Record(context.Background(), a); err != nil {
		t.Fatalf("Record: %v", err)
	}

	waitForSize(t, store, 1)

	records, _ := store.Query(context.Background(), &history.Query{})
	preview := records[0].PromptPreview
	if len(preview) != 20 {
		t.Errorf("preview length = %d, want 20", len(preview))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("preview %q missing ellipsis", preview)
	}
}

func TestRecord_HashesAPIKeyIdentity(t *testing.T) {
	store := storage.NewMemoryStore()
	rec := NewRecorder(store, nil)
	defer rec.Close()

	a := sampleAnalysis()
	a.Identity = "sk-secret-key"
	a.IdentityIsKey = true

	if err := rec.Record(context.Background(), a); err != nil {
		t.Fatalf("Record: %v", err)
	}

	waitForSize(t, store, 1)

	records, _ := store.Query(context.Background(), &history.Query{})
	identity := records[0].Identity
	if !strings.HasPrefix(identity, "sha256:") {
		t.Errorf("Identity = %q, want sha256 prefix", identity)
	}
	if strings.Contains(identity, "sk-secret-key") {
		t.Error("Identity contains plaintext API key")
	}
}

func TestRecord_DisabledIsNoOp(t *testing.T) {
	store := storage.NewMemoryStore()
	config := DefaultConfig()
	config.Enabled = false
	rec := NewRecorder(store, config)
	defer rec.Close()

	if err := rec.Record(context.Background(), sampleAnalysis()); err != nil {
		t.Fatalf("Record: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if store.Size() != 0 {
		t.Errorf("store size = %d, want 0 when disabled", store.Size())
	}
}

func TestClose_DrainsPendingRecords(t *testing.T) {
	store := storage.NewMemoryStore()
	rec := NewRecorder(store, nil)

	for i := 0; i < 10; i++ {
		if err := rec.Record(context.Background(), sampleAnalysis()); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if store.Size() != 10 {
		t.Errorf("store size after Close = %d, want 10", store.Size())
	}
}

func TestHashPrompt(t *testing.T) {
	if HashPrompt("") != "" {
		t.Error("empty prompt should hash to empty string")
	}

	h1 := HashPrompt("same text")
	h2 := HashPrompt("same text")
	if h1 != h2 {
		t.Error("same prompt produced different hashes")
	}
	if h1 == HashPrompt("other text") {
		t.Error("different prompts produced the same hash")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is longer than the limit", 10, "this is..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
