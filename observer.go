package treestate

import (
	"github.com/treestate-dev/treestate/pkg/reactive"
)

// Observer is the boundary with a host framework: one long-lived
// observation site owning one subscriber. The producing computation
// runs once up front and again on every notification; each run swaps
// in the freshly collected dependency set and pushes the new value to
// the host (a re-render scheduler, a channel send, a plain callback).
//
// That is the entire contract the core asks of its host: read once and
// register, re-read and re-register when notified, Close on teardown.
type Observer struct {
	sub     *reactive.Subscriber
	produce func() any
	push    func(any)
}

// Observe starts observing: produce runs tracked immediately and its
// value is pushed, then again after every mutation that touched one of
// its dependencies.
func Observe(produce func() any, push func(any)) *Observer {
	o := &Observer{
		produce: produce,
		push:    push,
	}
	o.sub = reactive.NewSubscriber(o.run)
	o.run()
	return o
}

// Observe on a Ref observes its extracted value.
func (r *Ref) Observe(push func(any)) *Observer {
	return Observe(r.Use, push)
}

// run re-evaluates the producing computation with a fresh dependency
// set and pushes the result.
func (o *Observer) run() {
	o.sub.ClearSources()

	var v any
	reactive.WithSubscriber(o.sub, func() {
		v = o.produce()
	})
	o.push(v)
}

// Close tears the observation site down: the subscriber unsubscribes
// from all dependencies and stops receiving notifications. A reaction
// already queued in the current flush is skipped once closed.
func (o *Observer) Close() {
	o.sub.Close()
}
