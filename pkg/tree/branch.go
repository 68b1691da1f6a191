package tree

import (
	"slices"

	"github.com/treestate-dev/treestate/pkg/reactive"
)

// Branch is the structural content of a node: an ordered key set plus
// an exclusive owner-map from key to child node.
//
// The key set lives in its own topic, so "the set of children changed"
// is observable independently of any child's value. At the end of any
// public operation the key set equals exactly the children that hold
// content; a child whose value became empty leaves the key set but may
// linger in the owner-map as a volatile node serving an in-flight deep
// reference, until its detach callback reclaims the slot.
type Branch struct {
	// isArray selects array extraction shape; keys are then decimal
	// indices in order.
	isArray bool

	// keys is the ordered, duplicate-free key set.
	keys *reactive.Topic[[]string]

	// children maps key to owned child node. May hold volatile entries
	// not present in keys.
	children map[string]*Node
}

func newBranch(isArray bool) *Branch {
	return &Branch{
		isArray:  isArray,
		keys:     reactive.NewTopic[[]string](nil).WithEquals(slices.Equal),
		children: make(map[string]*Node),
	}
}

// IsArray reports whether the branch extracts as an array.
func (b *Branch) IsArray() bool {
	return b.isArray
}

// Keys returns the key-set topic.
func (b *Branch) Keys() *reactive.Topic[[]string] {
	return b.keys
}

// Child returns the child node for key, or nil. Volatile children are
// returned too; callers reading values must go through the content
// topic, which reports KindEmpty for them.
func (b *Branch) Child(key string) *Node {
	return b.children[key]
}

// ensureChild returns the child node for key, creating an empty one if
// absent. Creation does not touch the key set; the key is adopted only
// when the child receives content.
func (b *Branch) ensureChild(key string) *Node {
	if n, ok := b.children[key]; ok {
		return n
	}
	n := newChildNode(b, key)
	b.children[key] = n
	return n
}

// adopt adds key to the key set if missing. Called after a deep write
// lands content in a child that wasn't listed yet.
func (b *Branch) adopt(key string) {
	ks := b.keys.Peek()
	if slices.Contains(ks, key) {
		return
	}
	next := make([]string, 0, len(ks)+1)
	next = append(next, ks...)
	next = append(next, key)
	b.keys.Set(next)
}

// RemoveKey drops key from the key set and empties the child's
// content. The child node itself is reclaimed once nothing observes
// it. Removing an absent key is a no-op.
func (b *Branch) RemoveKey(key string) {
	ks := b.keys.Peek()
	if i := slices.Index(ks, key); i >= 0 {
		next := make([]string, 0, len(ks)-1)
		next = append(next, ks[:i]...)
		next = append(next, ks[i+1:]...)
		b.keys.Set(next)
	}
	if child, ok := b.children[key]; ok {
		child.clearContent()
	}
}

// forget releases the owner-map slot for key. Only removes the exact
// node the callback was armed for, in case the slot was re-created.
func (b *Branch) forget(key string, n *Node) {
	if b.children[key] == n {
		delete(b.children, key)
	}
}

// clearChildren empties every listed child recursively and resets the
// key set. Used when the branch itself is going away.
func (b *Branch) clearChildren() {
	for _, key := range b.keys.Peek() {
		if child, ok := b.children[key]; ok {
			child.clearContent()
		}
	}
	b.keys.Set(nil)
}
