package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dukerupert/vortex/internal/domain"
)

// NetworkError means no response was received because the service could not
// be reached: DNS failure, refused connection, or an open circuit breaker.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: cannot reach storefront API: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ErrorCode returns the error code for HTTP status mapping.
func (e *NetworkError) ErrorCode() string { return domain.EUNAVAILABLE }

// ErrorMessage returns the user-facing message.
func (e *NetworkError) ErrorMessage() string {
	return "Cannot reach the server. Please check your connection and try again."
}

// TimeoutError means the request was sent but no response arrived in time.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: storefront API did not respond: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ErrorCode returns the error code for HTTP status mapping.
func (e *TimeoutError) ErrorCode() string { return domain.EUNAVAILABLE }

// ErrorMessage returns the user-facing message.
func (e *TimeoutError) ErrorMessage() string {
	return "The server is not responding. Please try again later."
}

// ServerError is a non-2xx response. Message is the server's own message
// when the body carried one.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: storefront API returned %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: storefront API returned %d", e.Op, e.Status)
}

// ErrorCode maps the upstream status to an application error code.
func (e *ServerError) ErrorCode() string {
	switch {
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return domain.EINVALID
	case e.Status == http.StatusUnauthorized:
		return domain.EUNAUTHORIZED
	case e.Status == http.StatusForbidden:
		return domain.EFORBIDDEN
	case e.Status == http.StatusNotFound:
		return domain.ENOTFOUND
	case e.Status == http.StatusConflict:
		return domain.ECONFLICT
	case e.Status == http.StatusTooManyRequests:
		return domain.ERATELIMIT
	default:
		return domain.EUNAVAILABLE
	}
}

// ErrorMessage returns the server message, or a generic one.
func (e *ServerError) ErrorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "The request could not be completed. Please try again."
}

// clientError reports whether the server rejected the request itself.
// These never count against the circuit breaker.
func (e *ServerError) clientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}
