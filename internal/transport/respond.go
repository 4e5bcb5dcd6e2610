package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/courtsplit/courtsplit/internal/mcp"
)

// Error codes that only the HTTP API produces.
const (
	CodeMalformedJSON = "MALFORMED_JSON"
	CodeInternal      = "INTERNAL"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var errMalformed = errors.New("malformed JSON body")

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Issues  []wizard.FieldIssue `json:"issues,omitempty"`
}

func statusFor(code string) int {
	switch code {
	case "SESSION_NOT_FOUND":
		return http.StatusNotFound
	case "INVALID_INPUT":
		return http.StatusUnprocessableEntity
	case "INVALID_TRANSITION", "RESULTS_NOT_READY":
		return http.StatusConflict
	case CodeMalformedJSON:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", errMalformed)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err to a status and error body. Unmapped errors are logged
// and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	detail := ErrorDetail{Code: CodeInternal, Message: "internal error"}
	switch apiErr := mcp.MapError(err); {
	case errors.Is(err, errMalformed):
		detail = ErrorDetail{Code: CodeMalformedJSON, Message: err.Error()}
	case apiErr != nil:
		detail = ErrorDetail{Code: apiErr.Code, Message: apiErr.Message, Issues: apiErr.Details}
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, statusFor(detail.Code), ErrorBody{Error: detail})
}

