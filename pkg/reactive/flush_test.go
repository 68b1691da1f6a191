package reactive

import (
	"io"
	"log/slog"
	"testing"
)

func TestMutateDeduplicatesSubscriber(t *testing.T) {
	a := NewTopic(0)
	b := NewTopic(0)
	sub, runs := countingSubscriber()
	a.Subscribe(sub)
	b.Subscribe(sub)

	Mutate(func() {
		a.Set(1)
		b.Set(2)
	})

	if *runs != 1 {
		t.Errorf("expected one reaction for one mutation, got %d", *runs)
	}
}

func TestMutateDefersUntilComplete(t *testing.T) {
	a := NewTopic(0)
	sub, runs := countingSubscriber()
	a.Subscribe(sub)

	Mutate(func() {
		a.Set(1)
		if *runs != 0 {
			t.Errorf("reaction ran mid-mutation, count %d", *runs)
		}
	})

	if *runs != 1 {
		t.Errorf("expected 1 reaction after mutation, got %d", *runs)
	}
}

func TestNestedMutateCoalesces(t *testing.T) {
	a := NewTopic(0)
	b := NewTopic(0)
	sub, runs := countingSubscriber()
	a.Subscribe(sub)
	b.Subscribe(sub)

	Mutate(func() {
		a.Set(1)
		Mutate(func() {
			b.Set(2)
		})
		if *runs != 0 {
			t.Errorf("inner mutation flushed early, count %d", *runs)
		}
	})

	if *runs != 1 {
		t.Errorf("expected one reaction after outermost mutation, got %d", *runs)
	}
}

func TestSetOutsideMutationFlushesImmediately(t *testing.T) {
	a := NewTopic(0)
	sub, runs := countingSubscriber()
	a.Subscribe(sub)

	a.Set(1)
	if *runs != 1 {
		t.Errorf("expected immediate flush outside mutation, got %d reactions", *runs)
	}
}

func TestReactionWritesQueueForNextRound(t *testing.T) {
	a := NewTopic(0)
	b := NewTopic(0)

	var order []string
	second := NewSubscriber(func() { order = append(order, "second") })
	b.Subscribe(second)

	first := NewSubscriber(func() {
		order = append(order, "first")
		b.Set(b.Peek() + 1)
	})
	a.Subscribe(first)

	Mutate(func() {
		a.Set(1)
	})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected chained reactions across rounds, got %v", order)
	}
}

func TestFlushRoundLimitStopsCascade(t *testing.T) {
	SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	SetFlushRoundLimit(5)
	defer func() {
		SetLogger(nil)
		SetFlushRoundLimit(0)
	}()

	a := NewTopic(0)
	runs := 0
	self := NewSubscriber(func() {
		runs++
		a.Set(a.Peek() + 1) // re-dirties itself every round
	})
	a.Subscribe(self)

	Mutate(func() {
		a.Set(1)
	})

	if runs != 5 {
		t.Errorf("expected the cascade to stop at the round limit (5), got %d runs", runs)
	}

	// The queue was cleared; a later mutation behaves normally.
	runsBefore := runs
	Mutate(func() {
		a.Set(1000)
	})
	if runs != runsBefore+1 {
		t.Errorf("expected one reaction after cascade reset, got %d", runs-runsBefore)
	}
}

func TestClosedSubscriberSkippedAtFlushTime(t *testing.T) {
	a := NewTopic(0)
	sub, runs := countingSubscriber()
	a.Subscribe(sub)

	Mutate(func() {
		a.Set(1)
		sub.Close()
	})

	if *runs != 0 {
		t.Errorf("closed subscriber still reacted %d times", *runs)
	}
}
