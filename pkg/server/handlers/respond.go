package handlers

import (
	"encoding/json"
	"net/http"

	"prismatic-hq/prism/pkg/server/types"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes an error envelope using the status code implied by
// its error type.
func WriteError(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSON(w, errResp.Error.HTTPStatusCode(), errResp)
}
