package services

import "errors"

// ErrSourceUnavailable signals that the external data source could not
// be reached within the retry budget. It never crosses the service
// boundary: the orchestrator converts it into a stale-cache fallback
// or a not-found result.
var ErrSourceUnavailable = errors.New("data source unavailable")

// ValidationError marks malformed input (bad coordinates, wrong
// comparison size). The HTTP layer maps it to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
