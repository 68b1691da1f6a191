package treestate

import (
	"github.com/treestate-dev/treestate/pkg/tree"
)

// =============================================================================
// Re-exports
// =============================================================================
//
// These aliases let applications depend on the root package alone:
//
//	state := treestate.MustNew(...)
//	if state.ReadKind() == treestate.KindObject { ... }

// Kind identifies what a tree position currently holds.
type Kind = tree.Kind

// Kind values reported by ReadKind and UseKind.
const (
	KindEmpty  = tree.KindEmpty
	KindAtomic = tree.KindAtomic
	KindObject = tree.KindObject
	KindArray  = tree.KindArray
)

// ErrInvalidValue is returned by Update and New when a value contains
// something that cannot live in the tree.
var ErrInvalidValue = tree.ErrInvalidValue
