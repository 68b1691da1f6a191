package reactive

import (
	"testing"
)

func TestTrackedReadSubscribes(t *testing.T) {
	count := NewTopic(0)
	sub, runs := countingSubscriber()

	WithSubscriber(sub, func() {
		_ = count.Get()
	})

	if n := sub.SourceCount(); n != 1 {
		t.Fatalf("expected 1 source, got %d", n)
	}

	count.Set(1)
	if *runs != 1 {
		t.Errorf("expected 1 reaction, got %d", *runs)
	}
}

func TestGetOutsideTrackingDoesNotSubscribe(t *testing.T) {
	count := NewTopic(0)

	_ = count.Get()

	if count.HasSubscribers() {
		t.Error("untracked Get must not subscribe anything")
	}
	if Tracking() {
		t.Error("no tracked computation should be running")
	}
}

func TestUntrackedSuspendsTracking(t *testing.T) {
	count := NewTopic(0)
	sub, runs := countingSubscriber()

	WithSubscriber(sub, func() {
		if !Tracking() {
			t.Error("expected tracking inside WithSubscriber")
		}
		Untracked(func() {
			if Tracking() {
				t.Error("expected no tracking inside Untracked")
			}
			_ = count.Get()
		})
	})

	count.Set(1)
	if *runs != 0 {
		t.Errorf("untracked read still subscribed, got %d reactions", *runs)
	}
}

func TestTrackedReadDeduplicatesSources(t *testing.T) {
	count := NewTopic(0)
	sub, _ := countingSubscriber()

	WithSubscriber(sub, func() {
		_ = count.Get()
		_ = count.Get()
	})

	if n := sub.SourceCount(); n != 1 {
		t.Errorf("expected 1 deduplicated source, got %d", n)
	}
}

func TestClearSourcesSwapsDependencySet(t *testing.T) {
	a := NewTopic(0)
	b := NewTopic(0)
	sub, runs := countingSubscriber()

	WithSubscriber(sub, func() {
		_ = a.Get()
	})

	// Re-subscription: the next read pass depends on b instead of a.
	sub.ClearSources()
	WithSubscriber(sub, func() {
		_ = b.Get()
	})

	a.Set(1)
	if *runs != 0 {
		t.Errorf("stale source still notified, got %d reactions", *runs)
	}
	b.Set(1)
	if *runs != 1 {
		t.Errorf("expected 1 reaction from new source, got %d", *runs)
	}
}

func TestCloseStopsNotifications(t *testing.T) {
	a := NewTopic(0)
	sub, runs := countingSubscriber()

	WithSubscriber(sub, func() {
		_ = a.Get()
	})
	sub.Close()

	a.Set(1)
	if *runs != 0 {
		t.Errorf("closed subscriber reacted %d times", *runs)
	}
	if sub.Active() {
		t.Error("expected subscriber to be inactive after Close")
	}
	if a.HasSubscribers() {
		t.Error("expected Close to unsubscribe from all sources")
	}
}
