package treestate

import (
	"github.com/treestate-dev/treestate/pkg/tree"
)

// New creates a state tree holding initial and returns a reference to
// its root. The initial value is validated like any update; an invalid
// value returns an error and no tree escapes.
func New(initial any) (*Ref, error) {
	r := &Ref{path: tree.NewPath(tree.NewNode())}
	if initial != nil {
		if err := r.Update(initial); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNew is New, panicking on invalid input. Intended for package
// level state built from literals.
func MustNew(initial any) *Ref {
	r, err := New(initial)
	if err != nil {
		panic(err)
	}
	return r
}
