package domain

import (
	"context"
	"testing"
)

func TestSessionContext(t *testing.T) {
	t.Run("SessionIDFromContext returns empty when no session", func(t *testing.T) {
		if id := SessionIDFromContext(context.Background()); id != "" {
			t.Errorf("expected empty session ID, got %q", id)
		}
		if HasSession(context.Background()) {
			t.Error("HasSession should be false without a session")
		}
	})

	t.Run("SessionIDFromContext returns session when set", func(t *testing.T) {
		ctx := NewContextWithSessionID(context.Background(), "sess-123")
		if id := SessionIDFromContext(ctx); id != "sess-123" {
			t.Errorf("expected %q, got %q", "sess-123", id)
		}
		if !HasSession(ctx) {
			t.Error("HasSession should be true")
		}
	})

	t.Run("RequireSessionID panics when missing", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic")
			}
		}()
		RequireSessionID(context.Background())
	})

	t.Run("RequireSessionID returns session when set", func(t *testing.T) {
		ctx := NewContextWithSessionID(context.Background(), "sess-456")
		if id := RequireSessionID(ctx); id != "sess-456" {
			t.Errorf("expected %q, got %q", "sess-456", id)
		}
	})
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if id := RequestIDFromContext(ctx); id != "" {
		t.Errorf("expected empty request ID, got %q", id)
	}

	ctx = NewContextWithRequestID(ctx, "req-789")
	if id := RequestIDFromContext(ctx); id != "req-789" {
		t.Errorf("expected %q, got %q", "req-789", id)
	}
}
