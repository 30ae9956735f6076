package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the client-side coordination taxonomy. Wrap with
// fmt.Errorf("...: %w", ...) and test with errors.Is.
var (
	// ErrNetworkUnavailable marks a connect/dispatch failure.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrTimeout marks a soft deadline exceeded. The underlying call is not
	// aborted, only the caller's wait.
	ErrTimeout = errors.New("deadline exceeded")

	// ErrNotFound marks a remote entity still missing after bounded retry.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks a malformed request or response shape.
	ErrValidation = errors.New("validation failure")
)

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func Network(op string, cause error) error {
	return fmt.Errorf("%s: %v: %w", op, cause, ErrNetworkUnavailable)
}

func Timeout(op string, cause error) error {
	return fmt.Errorf("%s: %v: %w", op, cause, ErrTimeout)
}

func Validation(what string) error {
	return fmt.Errorf("%s: %w", what, ErrValidation)
}

// PartialAggregateError reports which resource kinds failed during a parallel
// workspace load. It is informational: the aggregate remains usable and this
// error must never escalate past the aggregate boundary.
type PartialAggregateError struct {
	Failed map[string]error
}

func (e *PartialAggregateError) Error() string {
	return fmt.Sprintf("partial aggregate failure: %d resource kinds failed", len(e.Failed))
}
