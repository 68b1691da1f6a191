package reactive

import (
	"reflect"
	"sync"
)

// Source is the type-erased view of a Topic used for dependency
// bookkeeping. Tracked reads hand Sources to the ambient Subscriber,
// which swaps its whole source set when its reaction re-runs.
type Source interface {
	// TopicID returns the topic's unique identifier.
	TopicID() uint64

	// Subscribe adds a subscriber to the notification set.
	Subscribe(s *Subscriber)

	// Unsubscribe removes a subscriber from the notification set.
	Unsubscribe(s *Subscriber)
}

// topicBase provides type-erased subscriber management.
// It is embedded in Topic[T] to keep subscription logic in one place.
type topicBase struct {
	id uint64

	// subs are the subscribers to notify on change.
	subs []*Subscriber

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe adds a subscriber, deduplicating by ID so a tracked read
// that touches the same topic twice subscribes once.
func (b *topicBase) subscribe(s *Subscriber) {
	if s == nil {
		return
	}

	b.subMu.Lock()
	defer b.subMu.Unlock()

	sid := s.ID()
	for _, existing := range b.subs {
		if existing.ID() == sid {
			return
		}
	}

	b.subs = append(b.subs, s)
}

// unsubscribe removes a subscriber. Returns true if one was removed.
func (b *topicBase) unsubscribe(s *Subscriber) bool {
	if s == nil {
		return false
	}

	b.subMu.Lock()
	defer b.subMu.Unlock()

	sid := s.ID()
	for i, existing := range b.subs {
		if existing.ID() == sid {
			// Remove by swapping with the last element (order doesn't matter).
			b.subs[i] = b.subs[len(b.subs)-1]
			b.subs = b.subs[:len(b.subs)-1]
			return true
		}
	}
	return false
}

// hasSubscribers reports whether any subscriber is attached.
func (b *topicBase) hasSubscribers() bool {
	b.subMu.RLock()
	defer b.subMu.RUnlock()
	return len(b.subs) > 0
}

// notifySubscribers marks every current subscriber dirty.
// Uses copy-before-notify to avoid holding the lock during delivery.
// Outside a mutation scope the dirty set is drained immediately.
func (b *topicBase) notifySubscribers() {
	b.subMu.RLock()
	subs := make([]*Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.subMu.RUnlock()

	for _, s := range subs {
		s.MarkDirty()
	}

	tc := getTrackingContext()
	if tc.mutationDepth == 0 && !tc.flushing {
		flush(tc)
	}
}

// Topic is an observable value cell: a current value plus the set of
// subscribers to notify when it changes.
//
// Reading a Topic with Get during a tracked computation automatically
// subscribes the ambient Subscriber. Peek reads without subscribing.
type Topic[T any] struct {
	base topicBase

	// value is the current carried value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal decides whether a Set changed the value. If nil, shallow
	// equality is used: comparable dynamic types compare with ==,
	// anything else never compares equal.
	equal func(T, T) bool

	// empty reports whether the carried value counts as empty for
	// detach purposes. nil means the topic is never detachable.
	empty func(T) bool

	// detach is invoked at most once when the topic has no subscribers
	// and an empty value. Supplied by the owning tree slot so storage
	// can be reclaimed without a separate collection pass.
	detach   func()
	detached bool
}

// NewTopic creates a topic with the given initial value.
func NewTopic[T any](initial T) *Topic[T] {
	currentInstrument().TopicCreated()
	return &Topic[T]{
		base: topicBase{
			id: nextID(),
		},
		value: initial,
	}
}

// Get returns the current value and subscribes the ambient subscriber,
// if a tracked computation is running on this goroutine.
func (t *Topic[T]) Get() T {
	t.mu.RLock()
	value := t.value
	t.mu.RUnlock()

	// Track after releasing the value lock to prevent deadlock.
	if s := currentSubscriber(); s != nil {
		t.base.subscribe(s)
		s.addSource(t)
	}

	return value
}

// Peek returns the current value without subscribing.
func (t *Topic[T]) Peek() T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// Set replaces the value. Subscribers are marked dirty iff the new
// value differs from the old one under the topic's equality function.
func (t *Topic[T]) Set(value T) {
	t.mu.Lock()
	changed := !t.equals(t.value, value)
	if changed {
		t.value = value
	}
	t.mu.Unlock()

	if changed {
		t.base.notifySubscribers()
	}
	t.maybeDetach()
}

// Subscribe adds a subscriber to the notification set.
func (t *Topic[T]) Subscribe(s *Subscriber) {
	t.base.subscribe(s)
}

// Unsubscribe removes a subscriber and checks the detach condition.
func (t *Topic[T]) Unsubscribe(s *Subscriber) {
	if t.base.unsubscribe(s) {
		t.maybeDetach()
	}
}

// HasSubscribers reports whether any subscriber is attached.
func (t *Topic[T]) HasSubscribers() bool {
	return t.base.hasSubscribers()
}

// TopicID returns the unique identifier for this topic.
func (t *Topic[T]) TopicID() uint64 {
	return t.base.id
}

// WithEquals configures a custom equality function and returns the
// topic for chaining. Needed for values like key slices where element
// comparison is the right change test.
func (t *Topic[T]) WithEquals(fn func(T, T) bool) *Topic[T] {
	t.equal = fn
	return t
}

// WithEmpty configures the emptiness predicate used by the detach
// condition and returns the topic for chaining.
func (t *Topic[T]) WithEmpty(fn func(T) bool) *Topic[T] {
	t.empty = fn
	return t
}

// OnDetach registers the detach callback and returns the topic for
// chaining. The callback fires at most once, when the topic has no
// subscribers and its value is empty per WithEmpty.
func (t *Topic[T]) OnDetach(fn func()) *Topic[T] {
	t.detach = fn
	return t
}

// maybeDetach fires the detach callback when the topic holds an empty
// value and nobody is subscribed.
func (t *Topic[T]) maybeDetach() {
	if t.detach == nil || t.detached || t.empty == nil {
		return
	}
	if !t.empty(t.Peek()) || t.base.hasSubscribers() {
		return
	}
	t.detached = true
	fn := t.detach
	t.detach = nil
	fn()
	currentInstrument().TopicDetached()
}

// equals applies the configured or default equality function.
func (t *Topic[T]) equals(a, b T) bool {
	if t.equal != nil {
		return t.equal(a, b)
	}
	return shallowEquals(a, b)
}

// shallowEquals compares two values the way an identity check would:
// comparable dynamic types with ==, everything else never equal. This
// deliberately avoids deep equality, so rewriting a slice or map always
// counts as a change.
func shallowEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case nil:
		return any(b) == nil
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		ra := reflect.ValueOf(any(a))
		rb := reflect.ValueOf(any(b))
		if !ra.IsValid() || !rb.IsValid() {
			return !ra.IsValid() && !rb.IsValid()
		}
		if ra.Type() != rb.Type() || !ra.Type().Comparable() {
			return false
		}
		return any(a) == any(b)
	}
}
