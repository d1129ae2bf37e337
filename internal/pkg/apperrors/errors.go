package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the auth and payment cores. Auth failures are
// intentionally low-detail so callers cannot use them as an oracle.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrNoChallenge  = errors.New("no outstanding code for this number")
	ErrInvalidOTP   = errors.New("invalid code")
	ErrExpiredOTP   = errors.New("code has expired")
	ErrUnauthorized = errors.New("unauthorized")
	ErrDecryption   = errors.New("decryption failed")
)

// ValidationError collects every violation found in a request, not just the first
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError creates a validation error from the collected violations
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// RateLimitError reports an exhausted fixed window and when it resets
type RateLimitError struct {
	Action     string
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry after %d seconds", e.Action, int(e.RetryAfter.Seconds()))
}

// ConflictError reports an attempted regression out of a terminal state
type ConflictError struct {
	OrderID string
	Stored  string
	Applied string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order %s already settled as %s, refusing %s", e.OrderID, e.Stored, e.Applied)
}

// DependencyError wraps a failure of an external collaborator (SMS gateway,
// payment gateway, store). The caller decides whether to retry.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// NewDependencyError wraps err as a failure of the named dependency
func NewDependencyError(dependency string, err error) *DependencyError {
	return &DependencyError{Dependency: dependency, Err: err}
}
