// Package deps tracks which top-level documents depend on which files, so a
// file change can be mapped back to the documents whose expansions are stale.
package deps

import (
	"sort"
	"sync"
)

// Index is a process-wide registry of expansion dependencies. All mutation
// funnels through Record and Forget; the expansion engine itself never
// touches it.
type Index struct {
	mu   sync.Mutex
	docs map[string]map[string]struct{} // top document -> its dependency set
	rev  map[string]map[string]struct{} // dependency -> top documents
}

func NewIndex() *Index {
	return &Index{
		docs: make(map[string]map[string]struct{}),
		rev:  make(map[string]map[string]struct{}),
	}
}

// Record stores the dependency set for a top-level document, replacing any
// prior entry for that document.
func (ix *Index) Record(doc string, set map[string]struct{}) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.dropLocked(doc)

	copied := make(map[string]struct{}, len(set))
	for dep := range set {
		copied[dep] = struct{}{}
		if ix.rev[dep] == nil {
			ix.rev[dep] = make(map[string]struct{})
		}
		ix.rev[dep][doc] = struct{}{}
	}
	ix.docs[doc] = copied
}

// Lookup returns the top-level documents affected by a change to path,
// sorted. A recorded document is affected by changes to itself.
func (ix *Index) Lookup(path string) []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	affected := make(map[string]struct{}, len(ix.rev[path])+1)
	for doc := range ix.rev[path] {
		affected[doc] = struct{}{}
	}
	if _, ok := ix.docs[path]; ok {
		affected[path] = struct{}{}
	}

	out := make([]string, 0, len(affected))
	for doc := range affected {
		out = append(out, doc)
	}
	sort.Strings(out)
	return out
}

// Forget removes a document's entry, for documents deleted from disk.
func (ix *Index) Forget(doc string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dropLocked(doc)
}

func (ix *Index) dropLocked(doc string) {
	for dep := range ix.docs[doc] {
		delete(ix.rev[dep], doc)
		if len(ix.rev[dep]) == 0 {
			delete(ix.rev, dep)
		}
	}
	delete(ix.docs, doc)
}
