package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
)

// SpanContextSpy captures the status and attributes set on one span.
type SpanContextSpy struct {
	mu         sync.Mutex
	status     string
	attributes map[string]string
}

func (c *SpanContextSpy) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpanContextSpy) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}
	c.attributes[key] = value
}

// Status returns the status the span was finished with.
func (c *SpanContextSpy) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Attributes returns a copy of all attributes set on the span.
func (c *SpanContextSpy) Attributes() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.attributes)
}

// SpanRecord is one captured span lifecycle.
type SpanRecord struct {
	Name       string
	StartAttrs map[string]string
	Span       *SpanContextSpy
	Finished   bool
}

// TracingCollectorSpy captures span lifecycles for testing.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*SpanRecord
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, eventstore.SpanContext) {

	span := &SpanContextSpy{}

	s.mu.Lock()
	s.spans = append(s.spans, &SpanRecord{Name: name, StartAttrs: maps.Clone(attrs), Span: span})
	s.mu.Unlock()

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpanContextSpy)
	if !ok {
		return
	}

	for key, value := range attrs {
		span.AddAttribute(key, value)
	}
	span.SetStatus(status)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.spans {
		if record.Span == span {
			record.Finished = true
		}
	}
}

// SpanCount returns how many spans were started.
func (s *TracingCollectorSpy) SpanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.spans)
}

// LastSpan returns the most recently started span record, or nil.
func (s *TracingCollectorSpy) LastSpan() *SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.spans) == 0 {
		return nil
	}

	return s.spans[len(s.spans)-1]
}

var _ eventstore.TracingCollector = (*TracingCollectorSpy)(nil)
