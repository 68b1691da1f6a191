package tree

import (
	"reflect"
	"testing"

	"github.com/treestate-dev/treestate/pkg/reactive"
)

func TestPathImmutability(t *testing.T) {
	root := NewNode()
	base := NewPath(root).Child("a")
	deeper := base.Child("b")

	if got := base.Keys(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("base path mutated: %v", got)
	}
	if got := deeper.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("child path keys: %v", got)
	}
}

func TestLookupMissIsSilent(t *testing.T) {
	root := NewNode()
	apply(root, map[string]any{"a": 1})

	if n := NewPath(root).Child("missing").Lookup(); n != nil {
		t.Errorf("expected nil for absent key, got %v", n.Content().Peek())
	}
	// Navigating through a leaf is a miss, not an error.
	if n := NewPath(root).Child("a").Child("deeper").Lookup(); n != nil {
		t.Errorf("expected nil when walking through a leaf, got %v", n.Content().Peek())
	}
	if root.Branch().Child("missing") != nil {
		t.Error("Lookup must not create nodes")
	}
}

func TestApplyAtCreatesIntermediates(t *testing.T) {
	root := NewNode()

	reactive.Mutate(func() {
		ApplyAt(root, []string{"a", "b", "c"}, 7)
	})

	want := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 7},
		},
	}
	if got := Extract(root); !reflect.DeepEqual(got, want) {
		t.Errorf("deep write extracts %#v", got)
	}
	if got := root.Branch().Keys().Peek(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("ancestor keys not adopted: %v", got)
	}
}

func TestApplyAtNilLeavesAncestorsAlone(t *testing.T) {
	root := NewNode()
	apply(root, map[string]any{"a": map[string]any{"b": 1}, "z": 9})

	reactive.Mutate(func() {
		ApplyAt(root, []string{"a", "b"}, nil)
	})

	want := map[string]any{"a": map[string]any{}, "z": 9}
	if got := Extract(root); !reflect.DeepEqual(got, want) {
		t.Errorf("after deep removal: %#v", got)
	}
}

func TestApplyAtNilOnMissingPathCreatesNothing(t *testing.T) {
	root := NewNode()
	apply(root, map[string]any{"a": 1})

	reactive.Mutate(func() {
		ApplyAt(root, []string{"b", "c"}, nil)
	})

	if got := root.Branch().Keys().Peek(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("keys after nil write to a missing path: %v", got)
	}
	if n := root.Branch().Child("b"); n != nil {
		t.Errorf("nil write materialized node %q holding kind %v", "b", n.Content().Peek())
	}

	// An empty root stays empty too.
	empty := NewNode()
	reactive.Mutate(func() {
		ApplyAt(empty, []string{"x", "y"}, nil)
	})
	if got := empty.Content().Peek(); got != KindEmpty {
		t.Errorf("nil write converted an empty root to %v", got)
	}
}

func TestTrackedLookupObservesFutureKey(t *testing.T) {
	root := NewNode()
	apply(root, map[string]any{"a": map[string]any{}})

	sub, runs := func() (*reactive.Subscriber, *int) {
		n := new(int)
		return reactive.NewSubscriber(func() { *n++ }), n
	}()

	reactive.WithSubscriber(sub, func() {
		if n := NewPath(root).Child("a").Child("later").TrackedLookup(); n == nil {
			t.Fatal("tracked lookup should resolve to a volatile node")
		}
	})

	// Writing the key must wake the read, even though the target did
	// not exist when the subscription was made.
	reactive.Mutate(func() {
		ApplyAt(root, []string{"a", "later"}, 1)
	})

	if *runs != 1 {
		t.Errorf("tracked read of a missing key reacted %d times, want 1", *runs)
	}
}

func TestTrackedLookupObservesAncestorShapeChange(t *testing.T) {
	root := NewNode()
	apply(root, map[string]any{"a": 5}) // "a" is a leaf; the walk stops there

	runs := new(int)
	sub := reactive.NewSubscriber(func() { *runs++ })

	reactive.WithSubscriber(sub, func() {
		if n := NewPath(root).Child("a").Child("x").TrackedLookup(); n != nil {
			t.Fatal("walk through a leaf should resolve to nil")
		}
	})

	// Turning the leaf into a branch re-triggers the read.
	apply(root, map[string]any{"a": map[string]any{"x": 1}})

	if *runs == 0 {
		t.Error("ancestor shape change did not wake the tracked read")
	}
}

func TestTrackedLookupWithoutSubscriberCreatesNothing(t *testing.T) {
	root := NewNode()
	apply(root, map[string]any{"a": map[string]any{}})

	_ = NewPath(root).Child("a").Child("ghost").TrackedLookup()

	if root.Branch().Child("a").Branch().Child("ghost") != nil {
		t.Error("untracked walk created a volatile node")
	}
}

func TestVolatileNodeReclaimedAfterUnsubscribe(t *testing.T) {
	root := NewNode()
	apply(root, map[string]any{"a": map[string]any{}})

	sub := reactive.NewSubscriber(func() {})
	reactive.WithSubscriber(sub, func() {
		_ = NewPath(root).Child("a").Child("ghost").TrackedLookup()
	})

	if root.Branch().Child("a").Branch().Child("ghost") == nil {
		t.Fatal("expected a volatile node while subscribed")
	}

	sub.Close()

	if root.Branch().Child("a").Branch().Child("ghost") != nil {
		t.Error("volatile node not reclaimed after last unsubscribe")
	}
}
