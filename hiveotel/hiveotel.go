// Package hiveotel feeds OpenTelemetry spans into the mapping engine.
// It converts a ReadOnlySpan's attributes into the engine's bag form
// and can sit in an OTel SDK pipeline as a SpanExporter that hands
// mapped events to a consumer.
package hiveotel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	hivemap "github.com/hivemap/hivemap-go"
	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hiveevent"
)

// BagFromAttributes flattens an attribute list into a bag.  Later
// duplicates win, matching SDK semantics for repeated keys.
func BagFromAttributes(attrs []attribute.KeyValue) hivebag.Bag {
	bag := make(hivebag.Bag, len(attrs))
	for _, kv := range attrs {
		bag[string(kv.Key)] = kv.Value.AsInterface()
	}
	return bag
}

// FromSpan converts a completed span into the engine's input pair.
// When the instrumentation did not stamp explicit ids, span identity
// fills in: span id as event id, trace id as session id, parent span
// id as parent id.
func FromSpan(span sdktrace.ReadOnlySpan) (hivebag.Bag, hivemap.SpanMeta) {
	bag := BagFromAttributes(span.Attributes())
	if !bag.Has(hivebag.KeyEventID) {
		if sc := span.SpanContext(); sc.HasSpanID() {
			bag[hivebag.KeyEventID] = sc.SpanID().String()
		}
	}
	if !bag.Has(hivebag.KeySessionID) {
		if sc := span.SpanContext(); sc.HasTraceID() {
			bag[hivebag.KeySessionID] = sc.TraceID().String()
		}
	}
	if !bag.Has(hivebag.KeyParentID) {
		if parent := span.Parent(); parent.HasSpanID() {
			bag[hivebag.KeyParentID] = parent.SpanID().String()
		}
	}
	return bag, hivemap.SpanMeta{
		Name:      span.Name(),
		StartTime: span.StartTime(),
		EndTime:   span.EndTime(),
	}
}

// ConsumeFunc receives the events mapped from one export batch.
type ConsumeFunc func(ctx context.Context, events []*hiveevent.Event) error

type spanExporter struct {
	mapper  *hivemap.Mapper
	consume ConsumeFunc
}

var _ sdktrace.SpanExporter = &spanExporter{}

// NewExporter wraps a mapper as an OTel SpanExporter.  Mapping itself
// never fails; the returned error is whatever the consumer reports.
func NewExporter(mapper *hivemap.Mapper, consume ConsumeFunc) sdktrace.SpanExporter {
	return &spanExporter{mapper: mapper, consume: consume}
}

func (e *spanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	events := make([]*hiveevent.Event, 0, len(spans))
	for _, span := range spans {
		if span.SpanKind() == oteltrace.SpanKindUnspecified && span.Name() == "" {
			continue
		}
		bag, meta := FromSpan(span)
		events = append(events, e.mapper.Map(bag, meta))
	}
	return e.consume(ctx, events)
}

func (e *spanExporter) Shutdown(context.Context) error { return nil }
