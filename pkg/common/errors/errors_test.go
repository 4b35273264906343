package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("workerpool", "workers", -1, "must be positive").
		WithHint("value must be greater than 0")

	msg := err.Error()
	for _, want := range []string{"workerpool", "workers", "-1", "must be positive", "hint: value must be greater than 0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestValidationErrorWithoutHint(t *testing.T) {
	err := NewValidationError("config", "log.level", "loud", "unknown level")
	if strings.Contains(err.Error(), "hint") {
		t.Errorf("Error() = %q, did not expect a hint", err.Error())
	}
}

func TestIsValidationError(t *testing.T) {
	base := NewValidationError("scheduler", "id", "", "cannot be empty")
	wrapped := fmt.Errorf("schedule failed: %w", base)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"direct", base, true},
		{"wrapped", wrapped, true},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.want {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.want)
			}
		})
	}

	if !errors.Is(wrapped, ErrInvalidConfiguration) {
		t.Error("expected wrapped error to match ErrInvalidConfiguration")
	}
}
