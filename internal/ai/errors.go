package ai

import (
	"errors"
)

// Error types for classifying completion failures.

// ConfigError means the provider credential is missing.
type ConfigError struct {
	err error
}

func (e *ConfigError) Error() string {
	return e.err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.err
}

// NewConfigError wraps err as a configuration failure.
func NewConfigError(err error) error {
	return &ConfigError{err: err}
}

// UpstreamError covers transport failures, provider error statuses and
// completions that carry no text.
type UpstreamError struct {
	err error
}

func (e *UpstreamError) Error() string {
	return e.err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.err
}

// NewUpstreamError wraps err as an upstream failure.
func NewUpstreamError(err error) error {
	return &UpstreamError{err: err}
}

// DecodeError means the completion text was not the expected JSON document.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return e.err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

// NewDecodeError wraps err as a decode failure.
func NewDecodeError(err error) error {
	return &DecodeError{err: err}
}

// IsConfig returns true if err is a ConfigError.
func IsConfig(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsUpstream returns true if err is an UpstreamError.
func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

// IsDecode returns true if err is a DecodeError.
func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// ErrMissingAPIKey is wrapped by the ConfigError returned when no key is set.
var ErrMissingAPIKey = errors.New("GROQ_API_KEY is not defined")

// ErrEmptyCompletion is wrapped by the UpstreamError returned for a blank reply.
var ErrEmptyCompletion = errors.New("No response from AI")
