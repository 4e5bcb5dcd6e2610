package wizard

import "errors"

var (
	// ErrSessionNotFound indicates the wizard session doesn't exist.
	ErrSessionNotFound = errors.New("wizard session not found")
	// ErrInvalidInput indicates a form failed validation.
	ErrInvalidInput = errors.New("invalid wizard input")
	// ErrInvalidTransition indicates the event isn't allowed in the current step.
	ErrInvalidTransition = errors.New("invalid wizard transition")
	// ErrResultsNotReady indicates results were requested before players were submitted.
	ErrResultsNotReady = errors.New("results not ready")
)
