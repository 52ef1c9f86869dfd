package ssi

import (
	"fmt"
	"strings"
)

// Diagnostics are rendered inline as markup comments at the failing
// directive's former position; the engine never surfaces them as errors.

// CircularComment renders a cycle diagnostic for the given chain, which runs
// from the first occurrence of the repeated path through its repetition.
func CircularComment(chain []string) string {
	return fmt.Sprintf("<!-- SSI Error: Circular include detected: %s -->", strings.Join(chain, " -> "))
}

// DepthComment renders a depth diagnostic naming the configured limit, not
// the actual chain length.
func DepthComment(limit int) string {
	return fmt.Sprintf("<!-- SSI Error: Maximum include depth (%d) exceeded -->", limit)
}

// NotFoundComment renders a missing-file diagnostic naming the normalized
// candidate path. Read and permission failures render the same way.
func NotFoundComment(path string) string {
	return fmt.Sprintf("<!-- SSI Error: File not found: %s -->", path)
}
