package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "invalid quantity"},
			expected: "invalid quantity",
		},
		{
			name:     "with operation",
			err:      &Error{Code: EINVALID, Op: "cart.add", Message: "invalid quantity"},
			expected: "cart.add: invalid quantity",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EUNAVAILABLE,
				Op:      "checkout.submit",
				Message: "order service unavailable",
				Err:     errors.New("dial tcp: connection refused"),
			},
			expected: "checkout.submit: order service unavailable: dial tcp: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to encode cart",
				Err:     errors.New("unsupported value"),
			},
			expected: "failed to encode cart: unsupported value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{Code: EINTERNAL, Message: "wrapped", Err: underlying}

	if unwrapped := err.Unwrap(); unwrapped != underlying {
		t.Errorf("Error.Unwrap() = %v, want %v", unwrapped, underlying)
	}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error", err: &Error{Code: EINVALID, Message: "test"}, expected: EINVALID},
		{name: "wrapped domain error", err: fmt.Errorf("wrapped: %w", &Error{Code: ENOTFOUND, Message: "test"}), expected: ENOTFOUND},
		{name: "validation error", err: NewValidationError("checkout.validate", "email", "bad"), expected: EINVALID},
		{name: "non-domain error", err: errors.New("some error"), expected: EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{
			name:     "domain error with message",
			err:      &Error{Code: EUNAVAILABLE, Message: "Cannot reach the server"},
			expected: "Cannot reach the server",
		},
		{
			name:     "internal error hides message",
			err:      &Error{Code: EINTERNAL, Message: "redis at 10.0.0.4:6379 refused"},
			expected: "An internal error occurred. Please try again later.",
		},
		{
			name:     "validation error uses summary",
			err:      &ValidationError{Summary: "Please fill in all required fields", Fields: map[string]string{"city": "required"}},
			expected: "Please fill in all required fields",
		},
		{
			name:     "non-domain error returns generic message",
			err:      errors.New("some internal detail"),
			expected: "An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error with op", err: &Error{Code: EINVALID, Op: "cart.update", Message: "test"}, expected: "cart.update"},
		{name: "validation error with op", err: NewValidationError("checkout.validate", "phone", "bad"), expected: "checkout.validate"},
		{name: "non-domain error", err: errors.New("test"), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorOp(tt.err); got != tt.expected {
				t.Errorf("ErrorOp() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(EINVALID, "cart.add", "invalid quantity: %d", -2)

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatal("Errorf should return *Error")
	}
	if domainErr.Code != EINVALID {
		t.Errorf("Code = %q, want %q", domainErr.Code, EINVALID)
	}
	if domainErr.Op != "cart.add" {
		t.Errorf("Op = %q, want %q", domainErr.Op, "cart.add")
	}
	if domainErr.Message != "invalid quantity: -2" {
		t.Errorf("Message = %q, want %q", domainErr.Message, "invalid quantity: -2")
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		underlying := errors.New("connection reset")
		err := WrapError(underlying, EUNAVAILABLE, "catalog.list", "catalog unavailable")

		if ErrorCode(err) != EUNAVAILABLE {
			t.Errorf("Code = %q, want %q", ErrorCode(err), EUNAVAILABLE)
		}
		if !errors.Is(err, underlying) {
			t.Error("should wrap underlying error")
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if err := WrapError(nil, EINTERNAL, "test", "test"); err != nil {
			t.Errorf("WrapError(nil) should return nil, got %v", err)
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("single field error", func(t *testing.T) {
		err := NewValidationError("checkout.validate", "email", "Please enter a valid email address")

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatal("NewValidationError should return *ValidationError")
		}

		expected := "checkout.validate: email: Please enter a valid email address"
		if ve.Error() != expected {
			t.Errorf("Error() = %q, want %q", ve.Error(), expected)
		}
		if ve.Message() != "Please enter a valid email address" {
			t.Errorf("Message() = %q", ve.Message())
		}
	})

	t.Run("multiple field errors", func(t *testing.T) {
		err := NewValidationError("checkout.validate", "city", "required")
		err = AddFieldError(err, "state", "required")

		if fields := GetValidationFields(err); len(fields) != 2 {
			t.Errorf("Fields count = %d, want 2", len(fields))
		}
	})

	t.Run("summary wins over fields", func(t *testing.T) {
		ve := &ValidationError{
			Op:      "checkout.validate",
			Summary: "Please fill in all required fields",
			Fields:  map[string]string{"city": "required", "state": "required"},
		}
		if ve.Error() != "checkout.validate: Please fill in all required fields" {
			t.Errorf("Error() = %q", ve.Error())
		}
	})

	t.Run("add field to nil", func(t *testing.T) {
		err := AddFieldError(nil, "rating", "required")
		if !IsValidationError(err) {
			t.Fatal("AddFieldError(nil) should return *ValidationError")
		}
	})
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "validation error", err: NewValidationError("test", "field", "error"), expected: true},
		{name: "domain error", err: &Error{Code: EINVALID, Message: "test"}, expected: false},
		{name: "standard error", err: errors.New("test"), expected: false},
		{name: "nil", err: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.expected {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"NotFound", NotFound("catalog.get", "product", "42"), ENOTFOUND},
		{"Unauthorized", Unauthorized("auth.login", "invalid credentials"), EUNAUTHORIZED},
		{"Invalid", Invalid("cart.add", "quantity must be positive"), EINVALID},
		{"Conflict", Conflict("checkout.submit", "already submitting"), ECONFLICT},
		{"Unavailable", Unavailable(errors.New("timeout"), "orders.create", "not responding"), EUNAVAILABLE},
		{"Internal", Internal(errors.New("boom"), "cart.persist", "failed"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.code {
				t.Errorf("%s code = %q, want %q", tt.name, got, tt.code)
			}
		})
	}
}
