package tree

// Kind identifies what a node currently holds. It is the value carried
// by the node's content topic, so kind transitions are observable.
type Kind uint8

const (
	// KindEmpty means the node holds nothing.
	KindEmpty Kind = iota

	// KindAtomic means the node holds a leaf topic with an atomic value.
	KindAtomic

	// KindObject means the node holds a Branch extracted as a record.
	KindObject

	// KindArray means the node holds a Branch extracted as an array.
	KindArray
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindAtomic:
		return "atomic"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// branchKind maps the array flag to the corresponding structural kind.
func branchKind(isArray bool) Kind {
	if isArray {
		return KindArray
	}
	return KindObject
}
