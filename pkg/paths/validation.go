package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotmgr/pkg/errors"
)

// NormalizeDotfilePath checks that rel can identify a dotfile and returns its
// clean form. It must be a non-empty relative path that stays below home; no
// ~ expansion is applied.
func NormalizeDotfilePath(rel string) (string, error) {
	if rel == "" {
		return "", errors.New(errors.ErrUserInput, "dotfile path is empty")
	}
	if filepath.IsAbs(rel) {
		return "", errors.Newf(errors.ErrUserInput, "dotfile path must be relative to home: %q", rel).
			WithDetail("path", rel)
	}
	if strings.HasPrefix(rel, "~") {
		return "", errors.Newf(errors.ErrUserInput, "dotfile path must not start with ~: %q", rel).
			WithDetail("path", rel)
	}

	cleaned := filepath.Clean(rel)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrUserInput, "dotfile path escapes home: %q", rel).
			WithDetail("path", rel)
	}
	return cleaned, nil
}
