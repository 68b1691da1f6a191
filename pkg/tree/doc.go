// Package tree implements the reactive state tree: a recursive
// structure of Nodes whose content is observable at every level.
//
// A Node holds exactly one of three things: nothing, a leaf topic with
// an atomic value, or a Branch (the structural content of a record or
// array). The node's own content kind is itself a topic, so replacing
// a leaf with a branch, or emptying a subtree, is an observable change
// like any other.
//
// Structural updates diff against the existing tree: a Branch's key
// set is replaced wholesale, removed children are cleared recursively,
// and the update recurses only into keys present in the new value.
// Children whose sub-values are unchanged are never touched, so their
// topics never fire and their dependents are never notified, even when
// the whole tree was logically replaced.
//
// Paths are immutable addresses (root node + key sequence) resolved
// lazily: Lookup for plain reads, TrackedLookup for tracked reads that
// must also observe keys that don't exist yet, and ApplyAt for writes,
// which creates intermediate branches on demand.
package tree
