// Package response writes the productos API's JSON bodies. ErrorBody is the
// error envelope on the wire; the client decodes the same type.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Error codes carried in ErrorBody.Error.
const (
	CodeBadRequest = "bad_request"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal_server_error"
	CodeUnknown    = "error"
)

// ErrorBody is the error envelope returned for every non-2xx response.
type ErrorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes data with the given status
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// CodeFor maps a status to its envelope code.
func CodeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusInternalServerError:
		return CodeInternal
	default:
		return CodeUnknown
	}
}

// Error writes the envelope for err, tagged with the request id chi assigned.
// field names the offending payload field, if known.
func Error(w http.ResponseWriter, r *http.Request, status int, field string, err error) {
	JSON(w, status, ErrorBody{
		Error:     CodeFor(status),
		Message:   err.Error(),
		Field:     field,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
