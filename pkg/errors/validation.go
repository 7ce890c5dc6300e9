package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(field string, vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeValidation, "%s must be finite, got %v", field, v)
		}
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly greater
// than zero.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeValidation, "%s must be positive, got %v", field, v)
	}
	return nil
}

// ValidateAtLeast rejects values that are not finite or fall below floor.
func ValidateAtLeast(field string, v, floor float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < floor {
		return New(ErrCodeValidation, "%s must be at least %v, got %v", field, floor, v)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateLabelText rejects label text that cannot be written as a single
// braced group on one line: line breaks, control characters and unbalanced
// braces.
func ValidateLabelText(text string) error {
	if strings.ContainsAny(text, "\r\n") {
		return New(ErrCodeValidation, "label text cannot contain line breaks")
	}
	depth := 0
	for _, r := range text {
		switch {
		case r != '\t' && unicode.IsControl(r):
			return New(ErrCodeValidation, "label text contains control characters")
		case r == '{':
			depth++
		case r == '}':
			depth--
			if depth < 0 {
				return New(ErrCodeValidation, "label text has unbalanced braces")
			}
		}
	}
	if depth != 0 {
		return New(ErrCodeValidation, "label text has unbalanced braces")
	}
	return nil
}
