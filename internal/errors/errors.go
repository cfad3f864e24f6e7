package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"os"

	"github.com/julianstephens/chronoforge/internal/logger"
)

// Kind classifies a failure by how the sync engine reacts to it.
type Kind int

const (
	// KindNone means no failure.
	KindNone Kind = iota
	// KindUnauthorized means the session is invalid. The user must reconnect;
	// the call is never retried automatically.
	KindUnauthorized
	// KindTransient covers network, server and malformed-response failures.
	// A later manual refresh may succeed.
	KindTransient
	// KindDegraded marks a non-critical feed that failed and was replaced by
	// an empty result.
	KindDegraded
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthorized:
		return "unauthorized"
	case KindTransient:
		return "transient"
	case KindDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// ErrUnauthorized is returned when the remote source rejects the session.
var ErrUnauthorized = stderrors.New("session expired")

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// NetworkError wraps a failure to reach the remote source, including
// transport timeouts.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError wraps a response body that could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode error: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Classify maps err onto the failure taxonomy. Anything that is not an
// authorization failure is transient.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if stderrors.Is(err, ErrUnauthorized) {
		return KindUnauthorized
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return KindUnauthorized
	}
	return KindTransient
}

// UserMessage renders err as a short message suitable for the view-state.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if Classify(err) == KindUnauthorized {
		return "Session expired. Please reconnect."
	}

	var (
		apiErr *APIError
		netErr *NetworkError
		decErr *DecodeError
	)
	switch {
	case stderrors.As(err, &apiErr):
		return fmt.Sprintf("Server error %d: %s", apiErr.StatusCode, apiErr.Body)
	case stderrors.As(err, &netErr):
		return fmt.Sprintf("Network error: %v", netErr.Err)
	case stderrors.As(err, &decErr):
		return fmt.Sprintf("Data error: %v", decErr.Err)
	default:
		return err.Error()
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
