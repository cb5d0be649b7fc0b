package errorsx

import (
	"errors"
	"fmt"
)

// retryer is implemented by every classified error in this package.
type retryer interface {
	Retryable() bool
}

// Retryable reports whether err carries a retryable classification.
// Unclassified errors are not retryable.
func Retryable(err error) bool {
	var r retryer
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// AuthenticationError means the backend rejected the credentials.
type AuthenticationError struct {
	Msg string
	Err error
}

func (e *AuthenticationError) Error() string   { return msg("authentication failed", e.Msg, e.Err) }
func (e *AuthenticationError) Unwrap() error   { return e.Err }
func (e *AuthenticationError) Retryable() bool { return false }

// NetworkError is a transient transport failure (DNS, connect,
// connection reset, service unavailable).
type NetworkError struct {
	Msg string
	Err error
}

func (e *NetworkError) Error() string   { return msg("network error", e.Msg, e.Err) }
func (e *NetworkError) Unwrap() error   { return e.Err }
func (e *NetworkError) Retryable() bool { return true }

// TimeoutError means a deadline elapsed before the backend answered.
type TimeoutError struct {
	Msg string
	Err error
}

func (e *TimeoutError) Error() string   { return msg("timeout", e.Msg, e.Err) }
func (e *TimeoutError) Unwrap() error   { return e.Err }
func (e *TimeoutError) Retryable() bool { return true }

// APIError is a backend-reported failure. Whether it is retryable
// depends on the status the backend returned.
type APIError struct {
	Msg       string
	Err       error
	Retry     bool
	RateLimit bool
}

func (e *APIError) Error() string   { return msg("api error", e.Msg, e.Err) }
func (e *APIError) Unwrap() error   { return e.Err }
func (e *APIError) Retryable() bool { return e.Retry }

// RateLimited reports whether the backend throttled the request.
func (e *APIError) RateLimited() bool { return e.RateLimit }

// AudioFormatError means a frame did not match the session's audio
// format. Fatal only when it is the very first frame of the session.
type AudioFormatError struct {
	Msg string
}

func (e *AudioFormatError) Error() string   { return msg("audio format error", e.Msg, nil) }
func (e *AudioFormatError) Retryable() bool { return false }

// ConfigurationError means the session cannot be constructed from the
// supplied configuration or credentials.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string   { return msg("configuration error", e.Msg, e.Err) }
func (e *ConfigurationError) Unwrap() error   { return e.Err }
func (e *ConfigurationError) Retryable() bool { return false }

func msg(prefix, m string, err error) string {
	switch {
	case m != "" && err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, m, err)
	case m != "":
		return fmt.Sprintf("%s: %s", prefix, m)
	case err != nil:
		return fmt.Sprintf("%s: %v", prefix, err)
	default:
		return prefix
	}
}
