package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxDimension bounds a single image side. Sheets are assembled in memory,
// so anything larger is almost certainly a bad header rather than a real tile.
const MaxDimension = 1 << 14

// ValidateModuleID validates an image identifier before it enters the packer.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateModuleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "image id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "image id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "image id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateDimensions checks that width and height are usable pixel sizes.
// Zero is legal (a degenerate tile); negative or absurdly large values are not.
func ValidateDimensions(id string, width, height int) error {
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "image %q has negative size %dx%d", id, width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidInput, "image %q is too large: %dx%d (max %d per side)", id, width, height, MaxDimension)
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

// classPrefixRegex matches a CSS identifier prefix (may be empty).
var classPrefixRegex = regexp.MustCompile(`^(-?[_a-zA-Z][_a-zA-Z0-9-]*)?$`)

// ValidateClassPrefix validates the prefix prepended to generated CSS class names.
func ValidateClassPrefix(prefix string) error {
	if !classPrefixRegex.MatchString(prefix) {
		return New(ErrCodeInvalidInput, "invalid CSS class prefix: %q", prefix)
	}
	return nil
}

// ValidateSheetURL validates the URL written into background rules.
// Relative URLs are allowed; quotes, parentheses and whitespace would break
// the generated url(...) token and are rejected.
func ValidateSheetURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "sheet URL cannot be empty")
	}
	if strings.ContainsAny(rawURL, "\"'() \t\r\n\\") {
		return New(ErrCodeInvalidInput, "sheet URL contains characters not allowed in url(): %q", rawURL)
	}
	if i := strings.Index(rawURL, "://"); i >= 0 {
		scheme := rawURL[:i]
		if scheme != "http" && scheme != "https" {
			return New(ErrCodeInvalidInput, "sheet URL must use http or https scheme")
		}
	}
	return nil
}
