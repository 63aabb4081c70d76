package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateSource validates a graph source reference (file path or URL).
//
// The validation rules are intentionally conservative:
//   - No empty references
//   - No control characters or null bytes
//   - Maximum length of 2048 characters
//   - URLs must use http or https
func ValidateSource(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidInput, "source cannot be empty")
	}

	const maxSourceLength = 2048
	if len(ref) > maxSourceLength {
		return New(ErrCodeInvalidInput, "source too long (max %d characters)", maxSourceLength)
	}

	for _, r := range ref {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "source contains invalid control characters")
		}
	}

	if strings.Contains(ref, "://") {
		return ValidateURL(ref)
	}
	return ValidatePath(ref)
}

// ValidatePath validates a local file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
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

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// networkNameRegex matches Netzschleuder network and subnetwork names.
var networkNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateNetworkName validates a Netzschleuder network or subnetwork name.
// Names end up in URL paths, so traversal sequences are rejected.
func ValidateNetworkName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "network name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "network name too long (max 128 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "network name cannot contain '..'")
	}
	if !networkNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid network name: %q", name)
	}
	return nil
}
