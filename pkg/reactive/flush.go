package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DebugMode enables debug logging of flush rounds.
// Set at startup; not meant to change during runtime.
var DebugMode bool

// defaultFlushRoundLimit caps cascading notification rounds. A chain of
// reactions that keeps writing will be cut off here instead of hanging
// the mutating call.
const defaultFlushRoundLimit = 1000

var flushRoundLimit atomic.Int64

var (
	loggerMu sync.RWMutex
	logger   *slog.Logger
)

func init() {
	flushRoundLimit.Store(defaultFlushRoundLimit)
}

// SetFlushRoundLimit overrides the cascade cap. Values below 1 restore
// the default.
func SetFlushRoundLimit(n int) {
	if n < 1 {
		n = defaultFlushRoundLimit
	}
	flushRoundLimit.Store(int64(n))
}

// SetLogger overrides the logger used for flush diagnostics.
// Defaults to slog.Default().
func SetLogger(l *slog.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

func log() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l == nil {
		return slog.Default()
	}
	return l
}

// Mutate runs fn as one logical mutation. Subscribers marked dirty
// inside fn are deduplicated and their reactions invoked exactly once
// after fn returns, on every exit path. Nested calls coalesce into the
// outermost mutation's flush.
//
// Reactions that perform further writes queue into the next round;
// rounds drain to fixpoint before Mutate returns, capped by
// SetFlushRoundLimit.
func Mutate(fn func()) {
	tc := getTrackingContext()
	tc.mutationDepth++

	defer func() {
		tc.mutationDepth--
		if tc.mutationDepth == 0 && !tc.flushing {
			flush(tc)
		}
	}()

	fn()
}

// flush drains the dirty set in rounds until no reaction queues more
// work or the round limit is hit.
func flush(tc *trackingContext) {
	if len(tc.dirty) == 0 {
		return
	}

	tc.flushing = true
	defer func() { tc.flushing = false }()

	limit := int(flushRoundLimit.Load())
	rounds := 0
	notified := 0

	for len(tc.dirty) > 0 {
		rounds++
		if rounds > limit {
			log().Warn("notification cascade exceeded round limit, dropping queued reactions",
				"limit", limit,
				"queued", len(tc.dirty))
			for _, s := range tc.dirty {
				s.pending.Store(false)
			}
			tc.dirty = nil
			break
		}

		batch := tc.dirty
		tc.dirty = nil

		seen := make(map[uint64]bool, len(batch))
		for _, s := range batch {
			if seen[s.id] {
				continue
			}
			seen[s.id] = true

			// Clear pending before invoking so writes inside the
			// reaction can re-queue for the next round.
			s.pending.Store(false)
			if !s.active.Load() {
				continue
			}
			s.reaction()
			notified++
		}

		if DebugMode {
			log().Debug("flush round complete",
				"round", rounds,
				"notified", notified,
				"queued_next", len(tc.dirty))
		}
	}

	currentInstrument().FlushCompleted(rounds, notified)
}
