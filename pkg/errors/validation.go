package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateModuleName validates a module symbolic name taken from user input
// (CLI arguments, HTTP path parameters, config files).
//
// The rules mirror what the manifest reader accepts as a Bundle-SymbolicName:
//   - No empty names
//   - Maximum length of 256 characters
//   - No control characters
//   - Dot-separated tokens of letters, digits, '_', '$' or '-'
func ValidateModuleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "module name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "module name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "module name contains invalid control characters")
		}
	}

	if !moduleNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid module name: %q", name)
	}

	return nil
}

var moduleNameRegex = regexp.MustCompile(`^[\p{L}\p{Nd}_$-]+(\.[\p{L}\p{Nd}_$-]+)*$`)

// ValidateVersionString rejects version strings that could not have come from
// a manifest. It does not check numeric structure; that is the job of the
// version package.
func ValidateVersionString(v string) error {
	if len(v) > 128 {
		return New(ErrCodeInvalidVersion, "version too long (max 128 characters)")
	}
	for _, r := range v {
		if unicode.IsControl(r) || r == '/' || r == '\\' {
			return New(ErrCodeInvalidVersion, "version contains invalid characters: %q", v)
		}
	}
	return nil
}

// ValidateRootPath validates a module root directory from configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateRootPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "root path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "root path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "root path contains invalid characters")
		}
	}

	return nil
}

// commandNameRegex matches launcher command names ("gc", "vm-stat").
var commandNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateCommandName validates the name of a configured launcher command.
func ValidateCommandName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "command name cannot be empty")
	}
	if !commandNameRegex.MatchString(name) {
		return New(ErrCodeInvalidConfig, "invalid command name: %q", name)
	}
	return nil
}

// ValidateURL validates a cache backend URL.
// It only checks the scheme; the backend client parses the rest.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL must use one of the schemes %v", schemes)
}
