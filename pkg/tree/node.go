package tree

import (
	"github.com/treestate-dev/treestate/pkg/reactive"
)

// parentLink records a node's position in its owning branch, so an
// empty-update can remove the right key. The branch stays the sole
// owner; the child only looks up its slot.
type parentLink struct {
	branch *Branch
	key    string
}

// Node is a tree location. It holds exactly one content kind at a
// time: nothing, a leaf topic carrying an atomic value, or a Branch.
// The content kind itself lives in a topic, so transitions between
// kinds are observable changes.
type Node struct {
	// content carries the node's current Kind.
	content *reactive.Topic[Kind]

	// leaf is non-nil iff content is KindAtomic.
	leaf *reactive.Topic[any]

	// branch is non-nil iff content is KindObject or KindArray.
	branch *Branch

	// parent is nil for the root node.
	parent *parentLink
}

// NewNode creates a detached empty node, suitable as a tree root.
func NewNode() *Node {
	n := &Node{}
	n.content = reactive.NewTopic(KindEmpty).
		WithEmpty(func(k Kind) bool { return k == KindEmpty })
	return n
}

// newChildNode creates an empty node owned by the given branch slot.
// The content topic's detach callback lets the branch reclaim the slot
// once the node is empty and nobody observes it.
func newChildNode(owner *Branch, key string) *Node {
	n := NewNode()
	n.parent = &parentLink{branch: owner, key: key}
	n.content.OnDetach(func() {
		owner.forget(key, n)
	})
	return n
}

// Content returns the topic carrying the node's kind.
func (n *Node) Content() *reactive.Topic[Kind] {
	return n.content
}

// Branch returns the structural content, or nil when the node is not
// an object or array.
func (n *Node) Branch() *Branch {
	return n.branch
}

// Leaf returns the leaf topic, or nil when the node is not atomic.
func (n *Node) Leaf() *reactive.Topic[any] {
	return n.leaf
}

// ensureLeaf converts the node to a leaf if necessary and returns the
// leaf topic. Converting away from a branch clears the branch's
// children first, so their observers learn they are gone.
func (n *Node) ensureLeaf() *reactive.Topic[any] {
	if n.branch != nil {
		n.branch.clearChildren()
		n.branch = nil
	}
	if n.leaf == nil {
		n.leaf = reactive.NewTopic[any](nil).
			WithEmpty(func(v any) bool { return v == nil })
	}
	n.content.Set(KindAtomic)
	return n.leaf
}

// ensureBranch converts the node to a branch if necessary and returns
// it. Flipping between object and array shape is itself an observable
// content change.
func (n *Node) ensureBranch(isArray bool) *Branch {
	if n.leaf != nil {
		n.leaf.Set(nil)
		n.leaf = nil
	}
	if n.branch == nil {
		n.branch = newBranch(isArray)
	} else {
		n.branch.isArray = isArray
	}
	n.content.Set(branchKind(isArray))
	return n.branch
}

// clearContent empties the node in place. Branch children are cleared
// recursively so every observer below learns its value is gone.
func (n *Node) clearContent() {
	if n.branch != nil {
		n.branch.clearChildren()
		n.branch = nil
	}
	if n.leaf != nil {
		n.leaf.Set(nil)
		n.leaf = nil
	}
	n.content.Set(KindEmpty)
}
