package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"prismatic-hq/prism/pkg/analysis"
	"prismatic-hq/prism/pkg/history/recorder"
	"prismatic-hq/prism/pkg/providerfactory"
	"prismatic-hq/prism/pkg/server/middleware"
	"prismatic-hq/prism/pkg/server/types"
	"prismatic-hq/prism/pkg/telemetry/metrics"
)

// AnalyzeHandler serves prompt analysis requests.
type AnalyzeHandler struct {
	Engine         *analysis.Engine
	Recorder       *recorder.Recorder
	Collector      *metrics.Collector
	MaxPromptChars int
}

// NewAnalyzeHandler creates a new analyze handler. Recorder and Collector
// may be nil; recording and metrics are then skipped.
func NewAnalyzeHandler(engine *analysis.Engine, rec *recorder.Recorder, collector *metrics.Collector, maxPromptChars int) *AnalyzeHandler {
	return &AnalyzeHandler{
		Engine:         engine,
		Recorder:       rec,
		Collector:      collector,
		MaxPromptChars: maxPromptChars,
	}
}

// ServeHTTP implements http.Handler.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	startTime := time.Now()

	if r.Method != http.MethodPost {
		errResp := types.NewInvalidRequestError(
			fmt.Sprintf("Method %s not allowed. Use POST instead.", r.Method),
			"method",
		)
		if err := WriteJSON(w, http.StatusMethodNotAllowed, errResp); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.WarnContext(ctx, "failed to parse analyze request",
			"request_id", requestID,
			"error", err,
		)
		errResp := types.NewInvalidRequestError("Request body must be valid JSON.", "")
		if err := WriteError(w, errResp); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	if strings.TrimSpace(req.PromptText) == "" {
		errResp := types.NewInvalidRequestError("prompt_text must not be empty.", "prompt_text")
		if err := WriteError(w, errResp); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	if h.MaxPromptChars > 0 && utf8.RuneCountInString(req.PromptText) > h.MaxPromptChars {
		errResp := types.NewInvalidRequestError(
			fmt.Sprintf("prompt_text exceeds the maximum of %d characters.", h.MaxPromptChars),
			"prompt_text",
		)
		if err := WriteJSON(w, http.StatusRequestEntityTooLarge, errResp); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	if req.TargetModel == "" {
		req.TargetModel = "general"
	}

	slog.InfoContext(ctx, "processing analyze request",
		"request_id", requestID,
		"target_model", req.TargetModel,
		"detailed", req.DetailedAnalysis,
		"prompt_length", utf8.RuneCountInString(req.PromptText),
	)

	result, err := h.Engine.Analyze(ctx, req)
	duration := time.Since(startTime)

	if err != nil {
		if ctx.Err() != nil {
			// The timeout middleware owns the response for expired contexts.
			slog.WarnContext(ctx, "analysis abandoned",
				"request_id", requestID,
				"error", err,
			)
			return
		}
		slog.ErrorContext(ctx, "analysis failed",
			"request_id", requestID,
			"target_model", req.TargetModel,
			"error", err,
		)
		errResp := types.NewServerError("Analysis failed. Please try again later.")
		if err := WriteError(w, errResp); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	// Enriched means enrichment was requested and did not degrade to
	// heuristic-only.
	enriched := req.DetailedAnalysis && result.Note == ""
	provider, model := "", ""
	if enriched {
		provider, model = providerfactory.ResolveModel(req.TargetModel)
	}

	if h.Collector != nil {
		mode := metrics.ModeHeuristic
		if enriched {
			mode = metrics.ModeEnriched
		}
		h.Collector.RecordAnalysis(req.TargetModel, mode, result.OverallScore, duration)
	}

	if h.Recorder != nil {
		identity, isKey := middleware.GetIdentity(ctx)
		if err := h.Recorder.Record(ctx, &recorder.Analysis{
			Prompt:        req.PromptText,
			TargetModel:   req.TargetModel,
			Result:        result,
			Detailed:      req.DetailedAnalysis,
			Provider:      provider,
			Model:         model,
			Identity:      identity,
			IdentityIsKey: isKey,
			Duration:      duration,
		}); err != nil {
			slog.WarnContext(ctx, "failed to record analysis",
				"request_id", requestID,
				"error", err,
			)
		}
	}

	slog.InfoContext(ctx, "analysis completed",
		"request_id", requestID,
		"target_model", req.TargetModel,
		"overall_score", result.OverallScore,
		"suggestions", len(result.Suggestions),
		"enriched", enriched,
		"latency_ms", duration.Milliseconds(),
	)

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		slog.ErrorContext(ctx, "failed to write response",
			"request_id", requestID,
			"error", err,
		)
	}
}
