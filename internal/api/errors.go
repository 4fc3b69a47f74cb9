package api

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrUnavailable indicates the journeys API could not be reached.
	ErrUnavailable = errors.New("journeys api unavailable: network request failed")

	// ErrTimeout indicates a request exceeded the configured deadline.
	ErrTimeout = errors.New("journeys api request timed out")

	// ErrRejected indicates a 2xx response that reported success=false.
	ErrRejected = errors.New("journeys api rejected the request")

	// ErrNoJourney indicates an operation that needs a journey id was called
	// without one.
	ErrNoJourney = errors.New("no journey id available")
)

// HTTPError is a non-2xx response.
type HTTPError struct {
	Op         string
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Status
	}
	return fmt.Sprintf("%s failed: HTTP %d: %s", e.Op, e.StatusCode, msg)
}

// rejection wraps ErrRejected with the server's message.
func rejection(op, message string) error {
	if message == "" {
		message = op + " failed"
	}
	return fmt.Errorf("%w: %s", ErrRejected, message)
}

// IsNetworkError reports whether err looks like a transport failure worth
// retrying. Untyped errors fall back to matching "fetch" or "network" in
// the message.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "fetch") || strings.Contains(msg, "network")
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func errorCode(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("HTTP_%d", httpErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}
