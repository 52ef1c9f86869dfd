package ssi

import (
	"path/filepath"
	"strings"
)

// Resolve turns a directive target into an absolute candidate path.
// Targets beginning with "/" address the project root with the slash
// stripped; everything else is relative to the directory of the file that
// contains the directive. Existence is not checked here.
func Resolve(raw, fromFile, root string) string {
	if strings.HasPrefix(raw, "/") {
		return filepath.Join(root, strings.TrimPrefix(raw, "/"))
	}
	return filepath.Join(filepath.Dir(fromFile), raw)
}

// Normalize produces the canonical form of a path used for cycle detection
// and dependency-set membership: cleaned, with backslashes folded to forward
// slashes so paths computed by different routes compare equal. Case and
// symlinks are left alone.
func Normalize(p string) string {
	return strings.ReplaceAll(filepath.Clean(p), "\\", "/")
}
