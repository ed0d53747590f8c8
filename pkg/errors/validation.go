package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCircuitName validates a human-readable circuit name.
// Names end up in SVG text, file names and cache keys, so control characters
// and overly long names are rejected. The empty name is accepted; callers
// substitute their default.
func ValidateCircuitName(name string) error {
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "circuit name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "circuit name contains invalid control characters")
		}
	}

	return nil
}

// sceneNameRegex matches scene class names such as GHZCircuitDemo.
var sceneNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidateSceneName checks that name has the shape of a scene class name.
// Whether the scene exists is decided by the registry.
func ValidateSceneName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidScene, "scene name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidScene, "scene name too long (max 64 characters)")
	}
	if !sceneNameRegex.MatchString(name) {
		return New(ErrCodeInvalidScene, "invalid scene name: %q", name)
	}
	return nil
}

// ValidateOutputPath validates a user supplied output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Path must not end in a separator
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}

// ValidateRelativePath validates a path served over HTTP or stored in a cache.
// It prevents path traversal and rejects absolute paths.
func ValidateRelativePath(path string) error {
	if err := ValidateOutputPath(path); err != nil {
		return err
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
