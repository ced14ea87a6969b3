package ai

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable reports a transport, timeout or provider-side failure.
	ErrUnavailable = errors.New("ai service unavailable")
	// ErrMalformedResponse reports output that could not be decoded or failed validation.
	ErrMalformedResponse = errors.New("malformed ai response")
	// ErrMissingCredentials reports that no provider is configured for the capability.
	ErrMissingCredentials = errors.New("ai credentials not configured")
)

// ServiceError is returned by every provider call. Kind is one of the sentinels above.
type ServiceError struct {
	Op       string
	Provider string
	Kind     error
	Err      error
}

func (e *ServiceError) Error() string {
	prefix := e.Op
	if e.Provider != "" {
		prefix = e.Provider + " " + e.Op
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", prefix, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", prefix, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newServiceError(op, provider string, kind, err error) error {
	return &ServiceError{Op: op, Provider: provider, Kind: kind, Err: err}
}

// unavailable wraps a provider call failure. Cancellation keeps its context error.
func unavailable(op, provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("request timed out: %w", err)
	}
	return newServiceError(op, provider, ErrUnavailable, err)
}

// IsFallbackCause reports whether err is one a stage agent answers with its deterministic fallback.
// Cancellation of the run is never one.
func IsFallbackCause(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrMissingCredentials)
}
