package reactive

import (
	"testing"
)

func TestTopicBasic(t *testing.T) {
	title := NewTopic("draft")

	if got := title.Get(); got != "draft" {
		t.Errorf("expected initial value %q, got %q", "draft", got)
	}

	title.Set("published")
	if got := title.Get(); got != "published" {
		t.Errorf("expected value %q, got %q", "published", got)
	}
}

func TestTopicNotifiesOnChange(t *testing.T) {
	count := NewTopic(0)
	sub, runs := countingSubscriber()
	count.Subscribe(sub)

	count.Set(1)
	if *runs != 1 {
		t.Errorf("expected 1 reaction, got %d", *runs)
	}

	// Equal value must not notify.
	count.Set(1)
	if *runs != 1 {
		t.Errorf("equal value should not notify, got %d reactions", *runs)
	}

	count.Set(2)
	if *runs != 2 {
		t.Errorf("expected 2 reactions, got %d", *runs)
	}
}

func TestTopicShallowEquality(t *testing.T) {
	// Non-comparable values never compare equal, so a rewritten slice
	// always counts as a change.
	keys := NewTopic([]string{"a"})
	sub, runs := countingSubscriber()
	keys.Subscribe(sub)

	keys.Set([]string{"a"})
	if *runs != 1 {
		t.Errorf("rewritten slice should notify, got %d reactions", *runs)
	}
}

func TestTopicCustomEquals(t *testing.T) {
	keys := NewTopic([]string{"a"}).WithEquals(func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	})
	sub, runs := countingSubscriber()
	keys.Subscribe(sub)

	keys.Set([]string{"a"})
	if *runs != 0 {
		t.Errorf("element-equal slice should not notify, got %d reactions", *runs)
	}

	keys.Set([]string{"a", "b"})
	if *runs != 1 {
		t.Errorf("expected 1 reaction after real change, got %d", *runs)
	}
}

func TestTopicPeekDoesNotTrack(t *testing.T) {
	count := NewTopic(42)
	sub, runs := countingSubscriber()

	WithSubscriber(sub, func() {
		if got := count.Peek(); got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	count.Set(100)
	if *runs != 0 {
		t.Errorf("Peek should not subscribe, got %d reactions", *runs)
	}
	if n := sub.SourceCount(); n != 0 {
		t.Errorf("Peek should not record a source, got %d", n)
	}
}

func TestTopicSubscribeDeduplicates(t *testing.T) {
	count := NewTopic(0)
	sub, runs := countingSubscriber()

	count.Subscribe(sub)
	count.Subscribe(sub)

	count.Set(1)
	if *runs != 1 {
		t.Errorf("double subscription should notify once, got %d", *runs)
	}
}

func TestTopicUnsubscribe(t *testing.T) {
	count := NewTopic(0)
	sub, runs := countingSubscriber()

	count.Subscribe(sub)
	count.Unsubscribe(sub)

	count.Set(1)
	if *runs != 0 {
		t.Errorf("unsubscribed subscriber reacted %d times", *runs)
	}
	if count.HasSubscribers() {
		t.Error("expected no subscribers")
	}
}

func TestTopicDetachFiresOnce(t *testing.T) {
	detached := 0
	cell := NewTopic[any]("v").
		WithEmpty(func(v any) bool { return v == nil }).
		OnDetach(func() { detached++ })

	sub, _ := countingSubscriber()
	cell.Subscribe(sub)

	// Unsubscribe while the value is non-empty: no detach yet.
	cell.Unsubscribe(sub)
	if detached != 0 {
		t.Errorf("detach fired with non-empty value, count %d", detached)
	}

	// Emptying with no subscribers detaches, exactly once.
	cell.Set(nil)
	if detached != 1 {
		t.Errorf("expected 1 detach, got %d", detached)
	}
	cell.Set(nil)
	cell.Set("x")
	cell.Set(nil)
	if detached != 1 {
		t.Errorf("detach must fire at most once, got %d", detached)
	}
}

func TestTopicDetachOnLastUnsubscribe(t *testing.T) {
	detached := 0
	cell := NewTopic[any](nil).
		WithEmpty(func(v any) bool { return v == nil }).
		OnDetach(func() { detached++ })

	sub, _ := countingSubscriber()
	cell.Subscribe(sub)
	if detached != 0 {
		t.Fatalf("detach fired while subscribed, count %d", detached)
	}

	cell.Unsubscribe(sub)
	if detached != 1 {
		t.Errorf("expected detach after last unsubscribe of empty topic, got %d", detached)
	}
}
