package discovery

import (
	"errors"

	"github.com/niche-finder/internal/ai"
)

// ErrQueryRequired is returned when a discover request has no usable query
var ErrQueryRequired = errors.New("Query is required")

// ErrInvalidPlatform is returned for a platform outside the supported set
var ErrInvalidPlatform = errors.New("Invalid platform")

// ValidationError means the caller supplied a bad request field.
// Its message is safe to show to end users.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	return e.err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// NewValidationError wraps err as a validation failure.
func NewValidationError(err error) error {
	return &ValidationError{err: err}
}

// IsValidation returns true if err is a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// Error kinds used in search history rows and metric labels.
const (
	KindValidation = "validation"
	KindConfig     = "config"
	KindUpstream   = "upstream"
	KindDecode     = "decode"
	KindUnknown    = "unknown"
)

// ErrorKind classifies err into one of the Kind constants
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidation(err):
		return KindValidation
	case ai.IsConfig(err):
		return KindConfig
	case ai.IsUpstream(err):
		return KindUpstream
	case ai.IsDecode(err):
		return KindDecode
	default:
		return KindUnknown
	}
}
