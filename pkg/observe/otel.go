package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/treestate-dev/treestate/pkg/reactive"
)

// defaultTracerName is the tracer name used when none is configured.
const defaultTracerName = "treestate"

// TracingConfig configures the OpenTelemetry instrument.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "treestate").
	TracerName string

	// Attributes are added to every operation span.
	Attributes []attribute.KeyValue

	// TracerProvider overrides the provider; the global one is used
	// when nil.
	TracerProvider trace.TracerProvider
}

// TracingOption configures the OpenTelemetry instrument.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithAttributes sets constant attributes for every span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = attrs
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.TracerProvider = tp
	}
}

// tracingInstrument implements reactive.Instrument on OpenTelemetry.
type tracingInstrument struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// Tracing creates an OpenTelemetry-backed instrument. Each top-level
// mutating operation becomes one span named "treestate.<op>"; a
// rejected operation records the error and an error status.
func Tracing(opts ...TracingOption) reactive.Instrument {
	config := TracingConfig{
		TracerName: defaultTracerName,
	}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return &tracingInstrument{
		tracer: tracer,
		attrs:  config.Attributes,
	}
}

func (t *tracingInstrument) OperationStarted(op string) func(error) {
	_, span := t.tracer.Start(context.Background(), "treestate."+op,
		trace.WithAttributes(t.attrs...),
		trace.WithAttributes(attribute.String("treestate.op", op)))

	return func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (t *tracingInstrument) FlushCompleted(rounds, notified int) {}

func (t *tracingInstrument) TopicCreated() {}

func (t *tracingInstrument) TopicDetached() {}

func (t *tracingInstrument) ValidationRejected() {}
