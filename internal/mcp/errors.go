package mcp

import (
	"errors"
	"fmt"

	"github.com/courtsplit/courtsplit/internal/domain/wizard"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string              `json:"code"`
	Message      string              `json:"message"`
	Details      []wizard.FieldIssue `json:"details,omitempty"`
	RecoveryHint string              `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		return &APIError{Code: "INVALID_INPUT", Message: verr.Error(), Details: verr.Issues, RecoveryHint: "Fix the listed fields and resubmit"}
	case errors.Is(err, wizard.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Fix the input and resubmit"}
	case errors.Is(err, wizard.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "wizard session not found", RecoveryHint: "Call start_wizard for a new session"}
	case errors.Is(err, wizard.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: err.Error(), RecoveryHint: "Call get_wizard to see the current step"}
	case errors.Is(err, wizard.ErrResultsNotReady):
		return &APIError{Code: "RESULTS_NOT_READY", Message: "results not ready", RecoveryHint: "Submit costs and players first"}
	default:
		return nil
	}
}

// toolError converts err into the error returned from a tool handler.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
