// Package filetype decides whether a loaded file is itself eligible for
// recursive include expansion, based on its extension and a caller-enabled
// set of type names.
package filetype

import (
	"path/filepath"
	"strings"
)

// defaultTable maps type names to recognized extensions. Callers override
// entries per type; the table itself is never mutated.
var defaultTable = map[string][]string{
	"markup": {".html", ".htm", ".shtml", ".xml", ".xhtml", ".svg"},
	"script": {".js", ".mjs", ".ts"},
	"style":  {".css"},
	"data":   {".json", ".yaml", ".yml", ".csv"},
	"text":   {".txt", ".md", ".markdown"},
}

// Set answers recursion-eligibility queries for one configuration.
type Set struct {
	exts map[string]bool
}

// NewSet builds a Set from the enabled type names and per-type extension
// overrides. Overrides are merged into a fresh copy of the default table, so
// independent configurations cannot contaminate each other. An empty enabled
// list yields a Set that never matches: included files are inserted verbatim
// unless the caller opts a type in. The top-level document is always
// expanded regardless.
func NewSet(enabled []string, overrides map[string][]string) *Set {
	table := make(map[string][]string, len(defaultTable)+len(overrides))
	for name, exts := range defaultTable {
		table[name] = exts
	}
	for name, exts := range overrides {
		table[name] = exts
	}

	s := &Set{exts: make(map[string]bool)}
	for _, name := range enabled {
		for _, ext := range table[name] {
			s.exts[strings.ToLower(ext)] = true
		}
	}
	return s
}

// Recursive reports whether the file at path qualifies for recursive
// expansion. A path with no extension never qualifies.
func (s *Set) Recursive(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return s.exts[ext]
}
