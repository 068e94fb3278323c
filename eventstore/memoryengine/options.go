package memoryengine

import (
	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithClock sets the time source for TokenSince and anything else the engine
// derives from "now". Defaults to time.Now.
func WithClock(clock Clock) Option {
	return func(es *EventStore) error {
		if clock == nil {
			return eventstore.ErrNilClockSupplied
		}

		es.clock = clock

		return nil
	}
}

// WithStartingSequencePosition sets the position the first appended event
// receives. Defaults to 0; the empty store's head and tail tokens sit just
// before it.
func WithStartingSequencePosition(position eventstore.SequencePositionInt64) Option {
	return func(es *EventStore) error {
		if position < 0 {
			return eventstore.ErrNegativeStartingPosition
		}

		es.startingPosition = position

		return nil
	}
}

// WithMaxIndexMatchers sets how many index matchers one AppendCondition may
// carry; conditions exceeding it fail with eventstore.ErrTooManyIndices.
// This is engine capacity, not a property of the model. Defaults to 1.
func WithMaxIndexMatchers(capacity int) Option {
	return func(es *EventStore) error {
		if capacity < 1 {
			return eventstore.ErrInvalidIndexCapacity
		}

		es.maxIndexMatchers = capacity

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Info level: event counts, durations, concurrency conflicts (production-safe)
// Error level: failures that cause operation failures.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the EventStore.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
// When both loggers are configured, the contextual one wins.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
// The metrics collector will receive performance and operational metrics including
// append durations, event counts, concurrency conflicts, and log size.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the EventStore.
// The tracing collector will receive distributed tracing information including
// span creation for append operations, context propagation, and error tracking.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}
