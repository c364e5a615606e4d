package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateName validates a timeline item or block label from a scene file.
//
// Rules:
//   - No empty names
//   - No control characters
//   - No dots (dots separate block and port in wire references)
//   - No slashes (names appear in preview server URLs)
//   - Maximum length of 64 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "name too long (max 64 characters): %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters: %q", name)
		}
	}
	if strings.ContainsAny(name, "./\\") {
		return New(ErrCodeInvalidInput, "name cannot contain '.', '/' or '\\': %q", name)
	}
	return nil
}

// SplitPortRef splits a wire endpoint of the form "block.port".
// The port part may itself contain spaces ("sigmoid sensitivity").
func SplitPortRef(ref string) (blockName, port string, err error) {
	blockName, port, ok := strings.Cut(ref, ".")
	if !ok || blockName == "" || port == "" {
		return "", "", New(ErrCodeInvalidScene, "invalid port reference %q (want block.port)", ref)
	}
	return blockName, port, nil
}

// ValidateOutputPath validates a path the CLI is about to write to.
// It rejects empty paths, null bytes and paths that resolve to a directory
// separator only.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "output path contains null byte")
	}
	if clean := filepath.Clean(path); clean == string(filepath.Separator) || clean == "." {
		return New(ErrCodeInvalidPath, "output path %q is not a file", path)
	}
	return nil
}
