package reactive

import "sync"

// Instrument receives lifecycle events from the reactive core. The
// default is a no-op; see the observe package for Prometheus and
// OpenTelemetry implementations.
type Instrument interface {
	// OperationStarted marks the start of a top-level public operation
	// ("update", "remove_key"). The returned func is called when the
	// operation ends, with its error if it was rejected.
	OperationStarted(op string) func(err error)

	// FlushCompleted reports one drained flush: how many rounds ran and
	// how many reactions were invoked.
	FlushCompleted(rounds, notified int)

	// TopicCreated is called for every topic allocation.
	TopicCreated()

	// TopicDetached is called when a topic's detach callback fires.
	TopicDetached()

	// ValidationRejected is called when an update is rejected before
	// mutating anything.
	ValidationRejected()
}

type nopInstrument struct{}

func (nopInstrument) OperationStarted(string) func(error) { return func(error) {} }
func (nopInstrument) FlushCompleted(int, int)             {}
func (nopInstrument) TopicCreated()                       {}
func (nopInstrument) TopicDetached()                      {}
func (nopInstrument) ValidationRejected()                 {}

var (
	instrumentMu sync.RWMutex
	instrument   Instrument = nopInstrument{}
)

// SetInstrument installs instrumentation for the whole process.
// With no arguments the no-op instrument is restored; with several,
// events fan out to all of them.
func SetInstrument(ins ...Instrument) {
	var next Instrument
	switch len(ins) {
	case 0:
		next = nopInstrument{}
	case 1:
		next = ins[0]
	default:
		next = multiInstrument(ins)
	}

	instrumentMu.Lock()
	instrument = next
	instrumentMu.Unlock()
}

// CurrentInstrument returns the installed instrument.
func CurrentInstrument() Instrument {
	return currentInstrument()
}

func currentInstrument() Instrument {
	instrumentMu.RLock()
	defer instrumentMu.RUnlock()
	return instrument
}

// multiInstrument fans events out to several instruments.
type multiInstrument []Instrument

func (m multiInstrument) OperationStarted(op string) func(error) {
	ends := make([]func(error), len(m))
	for i, ins := range m {
		ends[i] = ins.OperationStarted(op)
	}
	return func(err error) {
		for _, end := range ends {
			end(err)
		}
	}
}

func (m multiInstrument) FlushCompleted(rounds, notified int) {
	for _, ins := range m {
		ins.FlushCompleted(rounds, notified)
	}
}

func (m multiInstrument) TopicCreated() {
	for _, ins := range m {
		ins.TopicCreated()
	}
}

func (m multiInstrument) TopicDetached() {
	for _, ins := range m {
		ins.TopicDetached()
	}
}

func (m multiInstrument) ValidationRejected() {
	for _, ins := range m {
		ins.ValidationRejected()
	}
}
