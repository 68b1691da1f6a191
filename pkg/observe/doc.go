// Package observe provides optional instrumentation for treestate:
// Prometheus metrics and OpenTelemetry traces for the reactive core's
// operations and flushes.
//
//	reactive.SetInstrument(
//	    observe.Metrics(observe.WithNamespace("myapp")),
//	    observe.Tracing(),
//	)
package observe
