package validation

import (
	"reflect"
	"strconv"
	"strings"

	gperrors "github.com/vnykmshr/gopool/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return gperrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNonNegative validates that a numeric value is non-negative (>= 0).
func ValidateNonNegative(module, field string, value float64) error {
	if value < 0 {
		return gperrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	return nil
}

// ValidateRange validates that min <= value <= max.
func ValidateRange(module, field string, value, min, max int) error {
	if value < min || value > max {
		return gperrors.NewValidationError(module, field, value, "out of range").
			WithHint("use a value between " + strconv.Itoa(min) + " and " + strconv.Itoa(max))
	}
	return nil
}

// ValidateNotNil validates that a value is neither untyped nil nor a nil
// pointer, func, interface, map, slice or channel.
func ValidateNotNil(module, field string, value interface{}) error {
	if isNil(value) {
		return gperrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return gperrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}

// ValidateMaxLen validates that a string is at most max bytes long.
func ValidateMaxLen(module, field string, value string, max int) error {
	if len(value) > max {
		return gperrors.NewValidationError(module, field, len(value), "too long").
			WithHint("use at most " + strconv.Itoa(max) + " characters")
	}
	return nil
}

// ValidateOneOf validates that value is one of allowed, ignoring case.
func ValidateOneOf(module, field string, value string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return gperrors.NewValidationError(module, field, value, "unsupported value").
		WithHint("use one of: " + strings.Join(allowed, ", "))
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}
