package reactive

import (
	"sync"
	"sync/atomic"
)

// Subscriber is a reaction bound to a replaceable set of source topics.
// One Subscriber exists per long-lived observation site; every time its
// reaction runs, the site drops the old source set and re-collects a
// new one, because the shape of its reads may have changed.
type Subscriber struct {
	id uint64

	// reaction is invoked once per flush round when the subscriber is dirty.
	reaction func()

	// sources are the topics this subscriber currently depends on.
	sources   []Source
	sourcesMu sync.Mutex

	// active is cleared by Close; inactive subscribers are skipped at
	// flush time even if already queued.
	active atomic.Bool

	// pending guards against queueing the same subscriber twice in one
	// round.
	pending atomic.Bool
}

// NewSubscriber creates an active subscriber with the given reaction.
func NewSubscriber(reaction func()) *Subscriber {
	s := &Subscriber{
		id:       nextID(),
		reaction: reaction,
	}
	s.active.Store(true)
	return s
}

// ID returns the unique identifier for this subscriber.
func (s *Subscriber) ID() uint64 {
	return s.id
}

// Active reports whether the subscriber still receives notifications.
func (s *Subscriber) Active() bool {
	return s.active.Load()
}

// MarkDirty queues the subscriber into the current mutation's dirty
// set. A CAS on the pending flag ensures it is queued once per round.
func (s *Subscriber) MarkDirty() {
	if !s.active.Load() {
		return
	}
	if s.pending.CompareAndSwap(false, true) {
		queueDirty(s)
	}
}

// addSource records a topic as a dependency. Called by Topic.Get when
// this subscriber is ambient. Deduplicates by topic ID.
func (s *Subscriber) addSource(src Source) {
	s.sourcesMu.Lock()
	defer s.sourcesMu.Unlock()

	sid := src.TopicID()
	for _, existing := range s.sources {
		if existing.TopicID() == sid {
			return
		}
	}
	s.sources = append(s.sources, src)
}

// SourceCount returns the number of topics currently depended on.
func (s *Subscriber) SourceCount() int {
	s.sourcesMu.Lock()
	defer s.sourcesMu.Unlock()
	return len(s.sources)
}

// ClearSources unsubscribes from every current source. Call before
// re-running the tracked computation so the next read pass rebuilds
// the dependency set from scratch.
func (s *Subscriber) ClearSources() {
	s.sourcesMu.Lock()
	sources := s.sources
	s.sources = nil
	s.sourcesMu.Unlock()

	for _, src := range sources {
		src.Unsubscribe(s)
	}
}

// Close deactivates the subscriber and drops all subscriptions.
// A closed subscriber already queued in the current flush is skipped.
func (s *Subscriber) Close() {
	if !s.active.Swap(false) {
		return
	}
	s.ClearSources()
}
