package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// MinThreshold is the smallest accepted bottom-proximity threshold, in
// surface distance units. Smaller values make the reached-bottom check fire
// too late to hide the next page's load latency.
const MinThreshold = 100

// ValidateColumns checks that a column count is positive.
func ValidateColumns(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidColumns, "column count must be at least 1, got %d", n)
	}
	return nil
}

// ValidateThreshold checks the bottom-proximity threshold against [MinThreshold].
func ValidateThreshold(threshold float64) error {
	if !(threshold >= MinThreshold) || math.IsInf(threshold, 1) {
		return New(ErrCodeInvalidThreshold, "threshold must be at least %d, got %v", MinThreshold, threshold)
	}
	return nil
}

// ValidateGaps checks that gap sizes are finite and non-negative.
func ValidateGaps(gapX, gapY float64) error {
	if !NonNegative(gapX) || !NonNegative(gapY) {
		return New(ErrCodeInvalidConfig, "gaps must be non-negative (x=%v, y=%v)", gapX, gapY)
	}
	return nil
}

// NonNegative reports whether v is a finite number >= 0. NaN and infinities
// are rejected.
func NonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// selectorRegex matches the simple selectors a surface registry understands:
// an id (#main), a class (.grid), or an element name (section), optionally
// combined as name#id or name.class.
var selectorRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$|^([a-zA-Z][a-zA-Z0-9-]*)?[#.][a-zA-Z_-][a-zA-Z0-9_-]*$`)

// ValidateSelector validates a container selector string.
func ValidateSelector(selector string) error {
	if selector == "" {
		return New(ErrCodeInvalidSelector, "selector cannot be empty")
	}
	if len(selector) > 256 {
		return New(ErrCodeInvalidSelector, "selector too long (max 256 characters)")
	}
	if !selectorRegex.MatchString(selector) {
		return New(ErrCodeInvalidSelector, "malformed selector: %q", selector)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateImageSource validates an image source reference. Accepted forms
// are http(s) URLs, file:// URLs and plain filesystem paths.
func ValidateImageSource(src string) error {
	if src == "" {
		return New(ErrCodeInvalidInput, "image source cannot be empty")
	}
	for _, r := range src {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "image source contains invalid characters")
		}
	}
	scheme, _, ok := strings.Cut(src, "://")
	if !ok {
		if strings.HasPrefix(strings.ToLower(src), "javascript:") || strings.HasPrefix(strings.ToLower(src), "data:") {
			return New(ErrCodeInvalidInput, "unsupported image source scheme: %q", src)
		}
		return nil
	}
	switch strings.ToLower(scheme) {
	case "http", "https", "file":
		return nil
	}
	return New(ErrCodeInvalidInput, "unsupported image source scheme: %q", scheme)
}
