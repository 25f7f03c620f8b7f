package portal

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a gateway failure. Every request either succeeds or
// reports exactly one terminal error of one of these kinds; the client
// never retries on its own.
type Kind int

const (
	// KindNetwork is a transport failure: timeout, DNS, connection
	// refused. Generic and retryable by the caller.
	KindNetwork Kind = iota
	// KindUnauthorized is a 401: credential missing, expired, or
	// rejected. Callers must treat the session as dead.
	KindUnauthorized
	// KindClient is any other 4xx. The backend's message is carried
	// verbatim for the user.
	KindClient
	// KindServer is a 5xx. Generic, not retried automatically.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a normalized backend failure.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for transport failures
	Message string // backend-supplied for KindClient, generic otherwise
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// errorBody is the backend's non-2xx response payload.
type errorBody struct {
	Error string `json:"error"`
}

func newHTTPError(status int, backendMsg string) *Error {
	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Status: status, Message: "session expired or invalid"}
	case status >= 500:
		return &Error{Kind: KindServer, Status: status, Message: "server error, try again later"}
	default:
		if backendMsg == "" {
			backendMsg = fmt.Sprintf("request rejected (HTTP %d)", status)
		}
		return &Error{Kind: KindClient, Status: status, Message: backendMsg}
	}
}

func newNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "could not reach the portal", cause: err}
}

// IsUnauthorized reports whether err is a credential rejection.
func IsUnauthorized(err error) bool {
	return isKind(err, KindUnauthorized)
}

// IsClientError reports whether err is a 4xx business-rule rejection.
func IsClientError(err error) bool {
	return isKind(err, KindClient)
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	return isKind(err, KindNetwork)
}

// IsServerError reports whether err is a 5xx failure.
func IsServerError(err error) bool {
	return isKind(err, KindServer)
}

func isKind(err error, k Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == k
}
