package tree

import (
	"sort"
	"strconv"
)

// Apply writes a normalized value into the node, diffing against the
// existing content.
//
// The structural case is the core guarantee of the whole system: the
// key-set topic is replaced wholesale (its equality function decides
// whether it actually changed), removed children are cleared
// recursively, and the update recurses into every key of the new
// value. A child whose sub-value is unchanged ends up with every one
// of its topics set to an equal value, so nothing below it fires.
func Apply(n *Node, value any) {
	switch v := value.(type) {
	case nil:
		applyEmpty(n)
	case map[string]any:
		// A nil entry means absence for a record: it never enters the
		// key set, so re-applying an identical value stays a no-op. A
		// previously present key with a nil value falls out of the set
		// and its child is cleared below like any removed key.
		keys := make([]string, 0, len(v))
		for k, sv := range v {
			if sv == nil {
				continue
			}
			keys = append(keys, k)
		}
		// Go maps have no insertion order; records get a stable
		// lexicographic key order instead.
		sort.Strings(keys)
		applyStructural(n, false, keys, func(k string) any { return v[k] })
	case []any:
		keys := make([]string, len(v))
		for i := range v {
			keys[i] = strconv.Itoa(i)
		}
		applyStructural(n, true, keys, func(k string) any {
			i, _ := strconv.Atoi(k)
			return v[i]
		})
	default:
		n.ensureLeaf().Set(v)
	}
}

// applyEmpty removes the node's value. An owned node is removed
// through its branch slot so the key set stays consistent; a root is
// cleared in place.
func applyEmpty(n *Node) {
	if n.parent != nil {
		n.parent.branch.RemoveKey(n.parent.key)
		return
	}
	n.clearContent()
}

// applyStructural converts the node to a branch of the given shape and
// diffs its children against the new key set.
func applyStructural(n *Node, isArray bool, keys []string, sub func(key string) any) {
	br := n.ensureBranch(isArray)

	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	// Clear children that fell out of the key set. Their key-set entry
	// disappears with the wholesale Set below.
	for _, k := range br.keys.Peek() {
		if present[k] {
			continue
		}
		if child, ok := br.children[k]; ok {
			child.clearContent()
		}
	}

	br.keys.Set(keys)

	for _, k := range keys {
		v := sub(k)
		if v == nil {
			// Only array slots carry nil this far (records filter nil
			// entries out of the key set). The slot stays listed so
			// elements keep their positions; existing content is
			// cleared in place and extracts as nil.
			if child, ok := br.children[k]; ok {
				child.clearContent()
			}
			continue
		}
		Apply(br.ensureChild(k), v)
	}
}

// ApplyAt writes a normalized value at the path below root, creating
// intermediate branches as needed. Ancestors along the path adopt the
// written key once the target holds content.
func ApplyAt(root *Node, keys []string, value any) {
	if len(keys) == 0 {
		Apply(root, value)
		return
	}

	// A nil write is a removal. A missing target means there is nothing
	// to remove, so the walk must not materialize intermediates; a
	// phantom branch would hold content its parent's key set never
	// lists.
	if value == nil {
		if n := (Path{root: root, keys: keys}).Lookup(); n != nil {
			Apply(n, nil)
		}
		return
	}

	nodes := make([]*Node, 0, len(keys)+1)
	nodes = append(nodes, root)
	n := root
	for _, key := range keys {
		br := n.branch
		if br == nil {
			br = n.ensureBranch(false)
		}
		n = br.ensureChild(key)
		nodes = append(nodes, n)
	}

	Apply(n, value)

	for i := len(keys) - 1; i >= 0; i-- {
		if nodes[i+1].content.Peek() == KindEmpty {
			break
		}
		nodes[i].branch.adopt(keys[i])
	}
}
