package handler

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/middleware"
)

// codedError is implemented by errors that carry their own code and
// shopper-facing message, such as the API client's transport errors.
type codedError interface {
	ErrorCode() string
	ErrorMessage() string
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.EFORBIDDEN:
		return http.StatusForbidden // 403
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge // 413
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	case domain.ENOTIMPL:
		return http.StatusNotImplemented // 501
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

// Code returns the error code for err, preferring a code the error carries itself.
func Code(err error) string {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.ErrorCode()
	}
	return domain.ErrorCode(err)
}

// Message returns the shopper-facing message for err.
func Message(err error) string {
	if domain.IsValidationError(err) {
		return domain.ErrorMessage(err)
	}
	var ce codedError
	if errors.As(err, &ce) {
		return ce.ErrorMessage()
	}
	return domain.ErrorMessage(err)
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	return ErrorCodeToHTTPStatus(Code(err))
}

// ErrorResponse writes err as JSON or plain text depending on what the client
// accepts. Internal details never reach the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := Code(err)
	message := Message(err)
	status := ErrorCodeToHTTPStatus(code)

	logError(r, err, code, status)

	if acceptsJSON(r) {
		body := errorBody{Error: errorDetail{Code: code, Message: message}}
		if fields := domain.GetValidationFields(err); len(fields) > 0 {
			body.Error.Fields = fields
		}
		WriteJSON(w, status, body)
		return
	}

	http.Error(w, message, status)
}

// ErrorResponseWithMessage is ErrorResponse with the shopper-facing message
// chosen by the caller. The status still follows err's code.
func ErrorResponseWithMessage(w http.ResponseWriter, r *http.Request, err error, message string) {
	code := Code(err)
	status := ErrorCodeToHTTPStatus(code)

	logError(r, err, code, status)

	if acceptsJSON(r) {
		WriteJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
		return
	}
	http.Error(w, message, status)
}

// ValidationErrorResponse writes a 400 with per-field messages. Plain text
// clients get the summary followed by one line per field. Errors that are not
// validation errors fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsValidationError(err) || acceptsJSON(r) {
		ErrorResponse(w, r, err)
		return
	}

	logError(r, err, domain.EINVALID, http.StatusBadRequest)

	fields := domain.GetValidationFields(err)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(domain.ErrorMessage(err))
	for _, name := range names {
		fmt.Fprintf(&b, "\n%s: %s", name, fields[name])
	}
	http.Error(w, b.String(), http.StatusBadRequest)
}

// NotFoundResponse writes a 404.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found"))
}

// UnauthorizedResponse writes a 401.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.EUNAUTHORIZED, "", "Authentication required"))
}

// ForbiddenResponse writes a 403.
func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.EFORBIDDEN, "", "You don't have permission to access this resource"))
}

// InternalErrorResponse logs err and writes a generic 500.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

// BadRequestResponse writes a 400 with message.
func BadRequestResponse(w http.ResponseWriter, r *http.Request, message string) {
	ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "%s", message))
}

func logError(r *http.Request, err error, code string, status int) {
	logger := middleware.GetLogger(r.Context())

	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}

	switch {
	case status >= 500:
		logger.Error("request failed", attrs...)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		logger.Warn("request rejected", attrs...)
	default:
		logger.Info("request error", attrs...)
	}
}

// WantsJSON reports whether the client asked for JSON rather than a
// browser navigation.
func WantsJSON(r *http.Request) bool {
	return acceptsJSON(r)
}

// acceptsJSON checks if the client prefers JSON responses.
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}
