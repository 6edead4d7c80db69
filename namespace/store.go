// Package namespace provides a hierarchical key/value store addressed by
// slash-delimited paths, such as "/ocean/input/dt".
//
// Only leaves hold values. Every registered path, leaf or not, carries a
// reference count: the number of leaves at or under it. The counts tell in
// constant time whether a path exists and when an ancestor can be pruned.
package namespace

import (
	"path"
	"sort"
	"strings"
)

const root = "/"

// A Store maps paths to values.
type Store struct {
	values map[string]any
	refs   map[string]int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		values: make(map[string]any),
		refs:   make(map[string]int),
	}
}

// Clean returns the canonical form of a path. Relative paths are taken from
// the root.
func Clean(p string) string {
	return path.Clean(root + p)
}

// ancestors lists the root, every intermediate path and p itself.
func ancestors(p string) []string {
	if p == root {
		return []string{root}
	}

	parts := strings.Split(p[1:], "/")
	chain := make([]string, 0, len(parts)+1)
	chain = append(chain, root)

	for i := range parts {
		chain = append(chain, root+strings.Join(parts[:i+1], "/"))
	}

	return chain
}

func (s *Store) isLeaf(p string) bool {
	_, ok := s.values[p]
	return ok
}

// Set stores a value at a path. Whatever was at the path, a leaf or a whole
// subtree, is replaced. A leaf sitting on the way to the path is removed.
func (s *Store) Set(p string, value any) error {
	p = Clean(p)
	if p == root {
		return ErrInvalidPath
	}

	if s.isLeaf(p) {
		s.values[p] = value
		return nil
	}

	chain := ancestors(p)
	for _, a := range chain[1 : len(chain)-1] {
		if s.isLeaf(a) {
			s.deleteLeaf(a)
		}
	}

	if s.refs[p] > 0 {
		s.deleteSubtree(p)
	}

	s.values[p] = value
	for _, a := range chain {
		s.refs[a]++
	}

	return nil
}

// Get returns the value of a leaf. For an internal path, it returns a view:
// a new *Store holding every descendant of the path, re-rooted at the path.
func (s *Store) Get(p string) (any, error) {
	p = Clean(p)

	if v, ok := s.values[p]; ok {
		return v, nil
	}

	return s.View(p)
}

// View returns a new store that holds every leaf under the path, with the
// path prefix stripped.
func (s *Store) View(p string) (*Store, error) {
	p = Clean(p)

	if s.refs[p] == 0 || s.isLeaf(p) {
		return nil, &KeyError{Path: p}
	}

	prefix := p + "/"
	if p == root {
		prefix = root
	}

	view := New()
	for _, leaf := range s.Leaves() {
		if strings.HasPrefix(leaf, prefix) {
			_ = view.Set(leaf[len(prefix)-1:], s.values[leaf])
		}
	}

	return view, nil
}

// Delete removes a leaf or the whole subtree under a path.
func (s *Store) Delete(p string) error {
	p = Clean(p)

	switch {
	case s.isLeaf(p):
		s.deleteLeaf(p)
	case s.refs[p] > 0:
		s.deleteSubtree(p)
	default:
		return &KeyError{Path: p}
	}

	return nil
}

func (s *Store) deleteLeaf(p string) {
	delete(s.values, p)

	for _, a := range ancestors(p) {
		s.refs[a]--
		if s.refs[a] <= 0 && a != root {
			delete(s.refs, a)
		}
	}
}

func (s *Store) deleteSubtree(p string) {
	prefix := p + "/"
	if p == root {
		prefix = root
	}

	for _, leaf := range s.Leaves() {
		if strings.HasPrefix(leaf, prefix) {
			s.deleteLeaf(leaf)
		}
	}
}

// Contains tells if a path is registered, either as a leaf or as an internal
// node.
func (s *Store) Contains(p string) bool {
	_, ok := s.refs[Clean(p)]
	return ok
}

// RefCount returns the number of leaves at or under a path.
func (s *Store) RefCount(p string) int {
	return s.refs[Clean(p)]
}

// Size returns the number of registered paths, internal ones included.
func (s *Store) Size() int {
	return len(s.refs)
}

// Keys returns every registered path in lexical order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.refs))
	for k := range s.refs {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Leaves returns the paths that hold values, in lexical order.
func (s *Store) Leaves() []string {
	leaves := make([]string, 0, len(s.values))
	for k := range s.values {
		leaves = append(leaves, k)
	}

	sort.Strings(leaves)

	return leaves
}
