// Package domain provides core storefront types, errors and context helpers.
//
// Context helpers centralize request-scoped data access so handlers and
// services agree on where the shopper session and request ID live.
package domain

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// sessionIDContextKey stores the shopper session ID.
	sessionIDContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// --- Session Context Helpers ---

// NewContextWithSessionID returns a new context with the shopper session ID attached.
func NewContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, sessionID)
}

// SessionIDFromContext retrieves the shopper session ID from context.
// Returns empty string if no session is present.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDContextKey).(string)
	return id
}

// RequireSessionID retrieves the session ID from context, panicking if not present.
// The panic will be caught by the recovery middleware in HTTP handlers.
func RequireSessionID(ctx context.Context) string {
	id := SessionIDFromContext(ctx)
	if id == "" {
		panic("session_id required in context but not found")
	}
	return id
}

// HasSession returns true if there is a shopper session in context.
func HasSession(ctx context.Context) bool {
	return SessionIDFromContext(ctx) != ""
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
