// Package ssi resolves <!--#include virtual="..." --> directives: it splices
// referenced file content into a document, recurses into eligible includes up
// to a configured depth, reports cycles inline, and returns every path the
// expansion transitively depended on.
package ssi

import (
	"context"
	"strings"

	"github.com/dgallion1/ssiserve/internal/content"
	"github.com/dgallion1/ssiserve/internal/filetype"
)

// Context carries the per-level expansion state. Each recursive descent
// receives a copy with Ancestors extended by one path and Depth incremented;
// sibling branches never share a chain.
type Context struct {
	Root      string   // absolute project root, for root-relative targets
	Ancestors []string // normalized paths from the top document down, exclusive of the current file
	Depth     int
	MaxDepth  int
	Types     *filetype.Set
}

// Result is the outcome of one expansion call. Deps holds the normalized
// target of every directive discovered in the call's subtree, whether or not
// the target existed or was itself expanded; a parent's set is the union of
// its own targets and all children's sets.
type Result struct {
	Text string
	Deps map[string]struct{}
}

// Expand resolves all directives in src, the content of the file at
// filePath. Per-directive failures are contained: each renders an inline
// diagnostic at the directive's former position and processing continues, so
// the call itself always succeeds.
func Expand(ctx context.Context, files content.Provider, filePath, src string, ec Context) Result {
	self := Normalize(filePath)
	deps := make(map[string]struct{})

	// A call that closes a cycle produces only the diagnostic: no scanning.
	for i, ancestor := range ec.Ancestors {
		if ancestor == self {
			chain := make([]string, 0, len(ec.Ancestors)-i+1)
			chain = append(chain, ec.Ancestors[i:]...)
			chain = append(chain, self)
			return Result{Text: CircularComment(chain), Deps: deps}
		}
	}
	if ec.Depth >= ec.MaxDepth {
		return Result{Text: DepthComment(ec.MaxDepth), Deps: deps}
	}

	directives := Scan(src)
	if len(directives) == 0 {
		return Result{Text: src, Deps: deps}
	}

	// Children each copy this slice before extending it, so the exact
	// capacity keeps sibling branches from aliasing one backing array.
	chain := make([]string, 0, len(ec.Ancestors)+1)
	chain = append(chain, ec.Ancestors...)
	chain = append(chain, self)

	// Highest offset first, so splicing one match never invalidates the
	// stored offsets of matches not yet applied.
	replacements := make([]string, len(directives))
	for i := len(directives) - 1; i >= 0; i-- {
		d := directives[i]
		target := Normalize(Resolve(d.RawTarget, filePath, ec.Root))
		deps[target] = struct{}{}

		if err := files.Stat(ctx, target); err != nil {
			replacements[i] = NotFoundComment(target)
			continue
		}
		text, err := files.ReadText(ctx, target)
		if err != nil {
			replacements[i] = NotFoundComment(target)
			continue
		}

		if !ec.Types.Recursive(target) {
			replacements[i] = text
			continue
		}

		child := Expand(ctx, files, target, text, Context{
			Root:      ec.Root,
			Ancestors: chain,
			Depth:     ec.Depth + 1,
			MaxDepth:  ec.MaxDepth,
			Types:     ec.Types,
		})
		replacements[i] = child.Text
		for dep := range child.Deps {
			deps[dep] = struct{}{}
		}
	}

	// Reassemble against the original buffer: untouched segments and
	// replacements in document order.
	var b strings.Builder
	last := 0
	for i, d := range directives {
		b.WriteString(src[last:d.Start])
		b.WriteString(replacements[i])
		last = d.End
	}
	b.WriteString(src[last:])

	return Result{Text: b.String(), Deps: deps}
}
