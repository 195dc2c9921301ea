package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wecare-app/apiserver/internal/reporter"
)

// APIResponse is the envelope used for acknowledgements and errors.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: false, Message: message})
}

// writeInternalError reports the underlying failure and answers with a
// generic message. A request-deadline expiry is surfaced as a timeout
// instead, so callers can tell a slow store from a missing record.
func writeInternalError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, "request timed out")
		return
	}
	reporter.Capture(err)
	writeError(w, http.StatusInternalServerError, message)
}
