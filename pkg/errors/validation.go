package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateFinite rejects NaN and infinite values for the named field.
// strconv.ParseFloat accepts "NaN" and "Inf", so parsing alone is not enough.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s: %v is not a finite number", field, v)
	}
	return nil
}

// ValidateFilename validates a bare filename used to build a storage path.
// It rejects anything that could escape the target directory.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "filename too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be hidden or relative: %q", name)
	}

	return nil
}
