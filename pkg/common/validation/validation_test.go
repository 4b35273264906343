package validation

import (
	"testing"

	"github.com/vnykmshr/gopool/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{"positive value", 10, false},
		{"positive value 1", 1, false},
		{"zero value", 0, true},
		{"negative value", -1, true},
		{"large negative", -1000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("test", "count", tt.value)
			checkResult(t, err, tt.wantError)
		})
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{"lower bound", 1, false},
		{"upper bound", 93, false},
		{"inside", 50, false},
		{"below", 0, true},
		{"above", 94, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("test", "count", tt.value, 1, 93)
			checkResult(t, err, tt.wantError)
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		wantError bool
	}{
		{"positive value", 10.5, false},
		{"zero value", 0.0, false},
		{"negative value", -1.5, true},
		{"small negative", -0.001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegative("test", "rate", tt.value)
			checkResult(t, err, tt.wantError)
		})
	}
}

func TestValidateNotNil(t *testing.T) {
	var nilPtr *int
	var nilFunc func()
	var nilMap map[string]int
	one := 1

	tests := []struct {
		name      string
		value     interface{}
		wantError bool
	}{
		{"untyped nil", nil, true},
		{"typed nil pointer", nilPtr, true},
		{"nil func", nilFunc, true},
		{"nil map", nilMap, true},
		{"pointer", &one, false},
		{"func", func() {}, false},
		{"value", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotNil("test", "pool", tt.value)
			checkResult(t, err, tt.wantError)
		})
	}
}

func TestValidateNotEmpty(t *testing.T) {
	checkResult(t, ValidateNotEmpty("test", "key", "value"), false)
	checkResult(t, ValidateNotEmpty("test", "key", " "), false)
	checkResult(t, ValidateNotEmpty("test", "key", ""), true)
}

func TestValidateMaxLen(t *testing.T) {
	checkResult(t, ValidateMaxLen("test", "id", "abc", 3), false)
	checkResult(t, ValidateMaxLen("test", "id", "abcd", 3), true)
}

func TestValidateOneOf(t *testing.T) {
	checkResult(t, ValidateOneOf("config", "log.level", "INFO", "debug", "info"), false)
	checkResult(t, ValidateOneOf("config", "log.level", "trace", "debug", "info"), true)
}

func TestValidationErrorDetails(t *testing.T) {
	err := ValidatePositive("workerpool", "workers", 0)

	valErr, ok := err.(*errors.ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if valErr.Module != "workerpool" {
		t.Errorf("Module = %q, want %q", valErr.Module, "workerpool")
	}
	if valErr.Field != "workers" {
		t.Errorf("Field = %q, want %q", valErr.Field, "workers")
	}
	if valErr.Hint != "value must be greater than 0" {
		t.Errorf("Hint = %q, want %q", valErr.Hint, "value must be greater than 0")
	}
	if valErr.Unwrap() != errors.ErrInvalidConfiguration {
		t.Error("expected ValidationError to unwrap to ErrInvalidConfiguration")
	}
}

func checkResult(t *testing.T, err error, wantError bool) {
	t.Helper()
	if wantError {
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.IsValidationError(err) {
			t.Errorf("expected ValidationError, got %T", err)
		}
		return
	}
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
