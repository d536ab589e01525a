package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"prismatic-hq/prism/pkg/history"
	"prismatic-hq/prism/pkg/server/types"
)

// maxHistoryLimit caps the page size for history queries.
const maxHistoryLimit = 500

// HistoryHandler serves recent analysis records.
type HistoryHandler struct {
	Store history.Store
}

// NewHistoryHandler creates a new history handler. Store may be nil when
// history is disabled; requests then get 503.
func NewHistoryHandler(store history.Store) *HistoryHandler {
	return &HistoryHandler{Store: store}
}

// ServeHTTP implements http.Handler.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		errResp := types.NewInvalidRequestError(
			fmt.Sprintf("Method %s not allowed. Use GET instead.", r.Method),
			"method",
		)
		if err := WriteJSON(w, http.StatusMethodNotAllowed, errResp); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	if h.Store == nil {
		errResp := types.NewServiceUnavailableError("History recording is disabled.")
		if err := WriteError(w, errResp); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	query := &history.Query{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			errResp := types.NewInvalidRequestError("limit must be a positive integer.", "limit")
			if err := WriteError(w, errResp); err != nil {
				slog.ErrorContext(ctx, "failed to write error response", "error", err)
			}
			return
		}
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}
		query.Limit = limit
	}
	if raw := r.URL.Query().Get("target_model"); raw != "" {
		query.TargetModel = raw
	}

	records, err := h.Store.Query(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "history query failed", "error", err)
		errResp := types.NewServerError("Failed to query history.")
		if err := WriteError(w, errResp); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	response := map[string]any{
		"records": records,
		"count":   len(records),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}
