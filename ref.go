package treestate

import (
	"slices"
	"strconv"

	"github.com/treestate-dev/treestate/pkg/reactive"
	"github.com/treestate-dev/treestate/pkg/tree"
)

// Ref is a reference into a state tree: an immutable address resolved
// lazily on each read or write. Navigation (Get, At, Index) produces
// new references without touching the tree, so a Ref can point through
// keys that don't exist yet.
//
// Read* operations resolve without side effects; Use* operations
// additionally register the ambient subscriber (typically an Observe
// reaction) against every topic the read depended on.
type Ref struct {
	path tree.Path
}

// Get returns a reference one key deeper. There is no property-style
// shorthand in Go; explicit navigation is the whole contract, so data
// keys can never collide with operation names.
func (r *Ref) Get(key string) *Ref {
	return &Ref{path: r.path.Child(key)}
}

// At returns a reference with all the given keys appended.
func (r *Ref) At(keys ...string) *Ref {
	p := r.path
	for _, key := range keys {
		p = p.Child(key)
	}
	return &Ref{path: p}
}

// Index returns a reference to an array element. Element i is
// addressed by its decimal index as a key.
func (r *Ref) Index(i int) *Ref {
	return r.Get(strconv.Itoa(i))
}

// Path returns a copy of the key sequence this reference addresses.
func (r *Ref) Path() []string {
	return r.path.Keys()
}

// Read extracts the current value without creating subscriptions.
// A path that doesn't resolve yields nil; that is a normal outcome,
// not an error.
func (r *Ref) Read() any {
	node := r.path.Lookup()
	var v any
	reactive.Untracked(func() {
		v = tree.Extract(node)
	})
	return v
}

// Use extracts the current value and registers the ambient subscriber
// against every topic visited on the walk and every topic in the
// resolved subtree. Missing keys are tracked through volatile nodes,
// so the read re-runs when they appear.
func (r *Ref) Use() any {
	return tree.Extract(r.path.TrackedLookup())
}

// ReadKeys returns the ordered key set at this position, or nil when
// the position is not structural.
func (r *Ref) ReadKeys() []string {
	if br := r.lookupBranch(); br != nil {
		return slices.Clone(br.Keys().Peek())
	}
	return nil
}

// UseKeys is ReadKeys with tracking: the subscriber depends on the
// walk and on the key-set topic, but not on any child's value.
func (r *Ref) UseKeys() []string {
	node := r.path.TrackedLookup()
	if node == nil || node.Branch() == nil {
		return nil
	}
	return slices.Clone(node.Branch().Keys().Get())
}

// ReadSize returns the number of keys at this position; zero when the
// position is not structural.
func (r *Ref) ReadSize() int {
	if br := r.lookupBranch(); br != nil {
		return len(br.Keys().Peek())
	}
	return 0
}

// UseSize is ReadSize with tracking. It depends only on the key-set
// topic, so changing a child's value without changing the key set does
// not re-run a size-dependent reaction.
func (r *Ref) UseSize() int {
	node := r.path.TrackedLookup()
	if node == nil || node.Branch() == nil {
		return 0
	}
	return len(node.Branch().Keys().Get())
}

// ReadKind reports what this position currently holds.
func (r *Ref) ReadKind() Kind {
	node := r.path.Lookup()
	if node == nil {
		return KindEmpty
	}
	return node.Content().Peek()
}

// UseKind is ReadKind with tracking. Content transitions (atomic to
// object, object to array, anything to empty) re-run the reaction.
func (r *Ref) UseKind() Kind {
	node := r.path.TrackedLookup()
	if node == nil {
		return KindEmpty
	}
	// The tracked walk already subscribed to this node's content.
	return node.Content().Peek()
}

// Update validates value and writes it at this position. The value
// tree may contain nil, booleans, numbers, strings, funcs, arrays,
// and plain records (maps with string keys, or plain structs), nested
// arbitrarily; anything else is rejected with ErrInvalidValue before
// any mutation. Writing nil removes the value.
//
// All subscribers whose dependencies changed are notified exactly once
// before Update returns.
func (r *Ref) Update(value any) error {
	end := reactive.CurrentInstrument().OperationStarted("update")

	norm, err := tree.Normalize(value)
	if err != nil {
		reactive.CurrentInstrument().ValidationRejected()
		end(err)
		return err
	}

	reactive.Mutate(func() {
		tree.ApplyAt(r.path.Root(), r.path.Keys(), norm)
	})
	end(nil)
	return nil
}

// RemoveKey removes one key at this position: the key leaves the key
// set and the child's content is emptied, then pending notifications
// flush. Removing from a non-structural position, or an absent key,
// is a no-op.
func (r *Ref) RemoveKey(key string) {
	end := reactive.CurrentInstrument().OperationStarted("remove_key")
	reactive.Mutate(func() {
		if br := r.lookupBranch(); br != nil {
			br.RemoveKey(key)
		}
	})
	end(nil)
}

func (r *Ref) lookupBranch() *tree.Branch {
	node := r.path.Lookup()
	if node == nil {
		return nil
	}
	return node.Branch()
}
