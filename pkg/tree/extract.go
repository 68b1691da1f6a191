package tree

// Extract rebuilds the plain value stored under the node: nil for an
// empty node, the leaf value for an atomic node, and a recursively
// extracted []any or map[string]any for a branch, in key order.
//
// Reads go through Get, so when an ambient subscriber is tracking, the
// extraction subscribes it to every topic in the subtree.
func Extract(n *Node) any {
	if n == nil {
		return nil
	}
	switch n.content.Get() {
	case KindAtomic:
		return n.leaf.Get()
	case KindArray:
		keys := n.branch.keys.Get()
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, Extract(n.branch.Child(k)))
		}
		return out
	case KindObject:
		keys := n.branch.keys.Get()
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			out[k] = Extract(n.branch.Child(k))
		}
		return out
	default:
		return nil
	}
}
