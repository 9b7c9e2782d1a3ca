package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("item", "abc123")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() does not match ErrNotFound")
	}
	if err.Error() != "item not found with id abc123" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Fields != nil {
		t.Error("NotFound() should not carry field errors")
	}
}

func TestValidationFailed(t *testing.T) {
	err := ValidationFailed("name", "name is required")

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() does not match ErrValidation")
	}
	if err.Fields["name"] != "name is required" {
		t.Errorf("Fields = %v", err.Fields)
	}
}

func TestValidationErrors(t *testing.T) {
	err := ValidationErrors(map[string]string{
		"name":          "name is required",
		"purchase_date": "purchase_date is required",
	})

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationErrors() does not match ErrValidation")
	}
	if len(err.Fields) != 2 {
		t.Errorf("Fields = %v, want 2 entries", err.Fields)
	}
}

func TestInvalidCredentials(t *testing.T) {
	err := InvalidCredentials()

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Error("InvalidCredentials() does not match ErrInvalidCredentials")
	}
	if err.Message != "Invalid credentials" {
		t.Errorf("Message = %q, want %q", err.Message, "Invalid credentials")
	}
}

// Wrapping with %w must keep the sentinel reachable through the chain —
// services wrap repository errors and handlers check with errors.Is.
func TestUnwrapThroughWrapping(t *testing.T) {
	inner := NotFound("item", "abc123")
	wrapped := fmt.Errorf("washing item: %w", inner)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error lost ErrNotFound")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed to extract *AppError")
	}
	if appErr.Message != inner.Message {
		t.Errorf("Message = %q, want %q", appErr.Message, inner.Message)
	}
}
