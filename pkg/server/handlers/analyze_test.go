package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prismatic-hq/prism/pkg/analysis"
	"prismatic-hq/prism/pkg/scoring"
	"prismatic-hq/prism/pkg/server/types"
	"prismatic-hq/prism/pkg/suggest"
)

func newTestEngine() *analysis.Engine {
	return analysis.NewEngine(scoring.NewScorer(), suggest.NewSuggester(), analysis.Options{})
}

func TestAnalyzeHandler(t *testing.T) {
	handler := NewAnalyzeHandler(newTestEngine(), nil, nil, 100)

	t.Run("analyzes a prompt", func(t *testing.T) {
		body := `{"prompt_text": "Write a summary of the attached report in three bullet points."}`
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var result analysis.Result
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if result.OverallScore < 0 || result.OverallScore > 5 {
			t.Errorf("overall_score = %v, want between 0 and 5", result.OverallScore)
		}
		if len(result.Scores) == 0 {
			t.Error("scores should not be empty")
		}
	})

	t.Run("rejects empty prompt with 400", func(t *testing.T) {
		for _, body := range []string{
			`{"prompt_text": ""}`,
			`{"prompt_text": "   "}`,
			`{}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("body %s: status = %d, want %d", body, w.Code, http.StatusBadRequest)
			}

			var errResp types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("failed to parse error response: %v", err)
			}
			if errResp.Error.Param != "prompt_text" {
				t.Errorf("param = %q, want %q", errResp.Error.Param, "prompt_text")
			}
		}
	})

	t.Run("rejects oversized prompt with 413", func(t *testing.T) {
		long := strings.Repeat("a", 101)
		body := `{"prompt_text": "` + long + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
		}
	})

	t.Run("rejects malformed JSON with 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects GET with 405", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
		}
	})

	t.Run("no prompt length limit when zero", func(t *testing.T) {
		unlimited := NewAnalyzeHandler(newTestEngine(), nil, nil, 0)

		long := strings.Repeat("describe the steps ", 50)
		body := `{"prompt_text": "` + long + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
		w := httptest.NewRecorder()

		unlimited.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}
