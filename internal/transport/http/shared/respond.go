// Package shared holds the JSON envelope helpers used by every handler.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "hackreg/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ErrorBody is the error envelope: a stable machine-readable kind plus a
// human message.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError centralizes domain error translation to HTTP responses so every
// handler returns the same envelope.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, dErrors.StatusOf(err), ErrorBody{
		Error:   dErrors.KindOf(err),
		Message: dErrors.MessageOf(err),
	})
}
