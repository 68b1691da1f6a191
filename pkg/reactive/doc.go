// Package reactive provides the notification core for treestate.
//
// The model is fine-grained dependency tracking: reading a Topic during
// a tracked computation automatically subscribes the ambient Subscriber,
// so dependencies never have to be declared by hand.
//
// # Core Types
//
// Topic[T] is an observable value cell:
//
//	title := reactive.NewTopic("hello")
//	v := title.Get()   // read (subscribes the ambient subscriber, if any)
//	title.Set("bye")   // write (queues dirty subscribers if the value changed)
//
// Subscriber is a reaction bound to a replaceable set of Topics. Each
// time the reaction runs it drops its old source set and re-collects a
// new one from the reads it performs, so the dependency set always
// matches the last computation.
//
// # Mutation and flush
//
// Every mutating operation runs inside Mutate. Dirty subscribers
// accumulated during the mutation are deduplicated and invoked exactly
// once after the mutation completes. Reactions that perform further
// writes are queued into the next round; rounds drain to fixpoint
// before Mutate returns, capped by SetFlushRoundLimit.
//
// # Thread Safety
//
// Primitives carry internal locks, but the tracking context is
// per-goroutine: a tree is meant to be mutated from one logical thread
// of control, and notifications are delivered synchronously on it.
package reactive
