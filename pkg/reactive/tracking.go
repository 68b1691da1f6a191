package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine: the
// ambient subscriber collecting dependencies, and the dirty set of the
// in-flight mutation.
type trackingContext struct {
	// ambient is the subscriber tracked reads subscribe.
	// nil means reads don't create subscriptions.
	ambient *Subscriber

	// mutationDepth tracks nested Mutate calls. Dirty subscribers only
	// drain when the outermost mutation completes.
	mutationDepth int

	// flushing is set while the dirty set is being drained, so writes
	// performed by reactions queue for the next round instead of
	// starting a nested drain.
	flushing bool

	// dirty accumulates subscribers marked during the mutation,
	// deduplicated by ID at drain time.
	dirty []*Subscriber
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID extracts the current goroutine's ID from the runtime
// stack header ("goroutine <id> ..."). Implementation detail; not
// exposed.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current
// goroutine, creating one if needed.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if tc, ok := trackingContexts.Load(gid); ok {
		return tc.(*trackingContext)
	}

	tc := &trackingContext{}
	trackingContexts.Store(gid, tc)
	return tc
}

// currentSubscriber returns the ambient subscriber, or nil when no
// tracked computation is running.
func currentSubscriber() *Subscriber {
	return getTrackingContext().ambient
}

// setCurrentSubscriber swaps the ambient subscriber, returning the
// previous one so it can be restored.
func setCurrentSubscriber(s *Subscriber) *Subscriber {
	tc := getTrackingContext()
	old := tc.ambient
	tc.ambient = s
	return old
}

// Tracking reports whether a tracked computation is running on this
// goroutine, i.e. whether reads will create subscriptions.
func Tracking() bool {
	return currentSubscriber() != nil
}

// WithSubscriber runs fn with s as the ambient subscriber: every Topic
// read via Get inside fn subscribes s and is recorded as one of its
// sources.
func WithSubscriber(s *Subscriber, fn func()) {
	old := setCurrentSubscriber(s)
	defer setCurrentSubscriber(old)
	fn()
}

// Untracked runs fn with dependency tracking suspended. Reads inside
// fn behave like Peek.
func Untracked(fn func()) {
	old := setCurrentSubscriber(nil)
	defer setCurrentSubscriber(old)
	fn()
}

// queueDirty appends a subscriber to the current mutation's dirty set.
func queueDirty(s *Subscriber) {
	tc := getTrackingContext()
	tc.dirty = append(tc.dirty, s)
}
