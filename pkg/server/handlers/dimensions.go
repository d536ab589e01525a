package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"prismatic-hq/prism/pkg/scoring"
	"prismatic-hq/prism/pkg/server/types"
)

// DimensionSource provides the active scoring dimensions.
type DimensionSource interface {
	Dimensions() []scoring.Dimension
}

// DimensionsHandler serves the scoring dimension metadata.
type DimensionsHandler struct {
	Source DimensionSource
}

// NewDimensionsHandler creates a new dimensions handler.
func NewDimensionsHandler(source DimensionSource) *DimensionsHandler {
	return &DimensionsHandler{Source: source}
}

// ServeHTTP implements http.Handler.
func (h *DimensionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	response := map[string]any{
		"dimensions": h.Source.Dimensions(),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}
