package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceExt is the extension every Paston source file must carry.
const SourceExt = ".pas"

// ResolveSource checks that relPath names a Paston source and returns its
// absolute, cleaned path.
func ResolveSource(relPath string) (string, error) {
	if err := ValidateExtension(relPath); err != nil {
		return "", err
	}
	// Resolves ../../ and cleans the path
	return filepath.Abs(relPath)
}

// ValidateExtension rejects paths that are not Paston sources. The check is
// case-insensitive so FOO.PAS is accepted.
func ValidateExtension(path string) error {
	if !strings.EqualFold(filepath.Ext(path), SourceExt) {
		return fmt.Errorf("%s: source file must have a %s extension", path, SourceExt)
	}
	return nil
}

// OutputPath places a file named after src, with ext in place of its
// extension, inside dir.
func OutputPath(dir, src, ext string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	return filepath.Join(dir, base)
}
