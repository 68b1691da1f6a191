package tree

import (
	"github.com/treestate-dev/treestate/pkg/reactive"
)

// Path is a deep reference: an immutable (root, key sequence) address
// into the tree, resolved to a node only when read or written. Two
// paths with equal root and keys are interchangeable; no ownership is
// implied.
type Path struct {
	root *Node
	keys []string
}

// NewPath returns the address of the root node itself.
func NewPath(root *Node) Path {
	return Path{root: root}
}

// Child returns a new path with one more key appended. The receiver is
// unchanged.
func (p Path) Child(key string) Path {
	keys := make([]string, 0, len(p.keys)+1)
	keys = append(keys, p.keys...)
	keys = append(keys, key)
	return Path{root: p.root, keys: keys}
}

// Keys returns a copy of the key sequence.
func (p Path) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Root returns the root node the path is anchored at.
func (p Path) Root() *Node {
	return p.root
}

// Lookup resolves the path read-only: if any intermediate node is not
// a branch or a key is absent, it returns nil without creating
// anything.
func (p Path) Lookup() *Node {
	n := p.root
	for _, key := range p.keys {
		if n.branch == nil {
			return nil
		}
		n = n.branch.Child(key)
		if n == nil {
			return nil
		}
	}
	return n
}

// TrackedLookup resolves the path for a tracked read. Every node
// content topic visited along the walk is read via Get, so an ancestor
// whose shape changes re-triggers the read even if the final target
// never existed. Missing keys under an existing branch get volatile
// child nodes, purely so the ambient subscriber can observe the key's
// future appearance.
//
// Without an ambient subscriber this behaves like Lookup.
func (p Path) TrackedLookup() *Node {
	if !reactive.Tracking() {
		return p.Lookup()
	}

	n := p.root
	_ = n.content.Get()
	for _, key := range p.keys {
		if n.branch == nil {
			// Not structural here; the walk is subscribed to this
			// node's content, so becoming a branch re-resolves.
			return nil
		}
		n = n.branch.ensureChild(key)
		_ = n.content.Get()
	}
	return n
}
