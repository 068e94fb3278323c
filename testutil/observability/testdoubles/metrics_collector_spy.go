package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
)

// MetricsCollectorSpy captures metrics calls for testing. It implements both
// eventstore.MetricsCollector and eventstore.ContextualMetricsCollector, so it
// also verifies that engines prefer the context-aware methods.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []DurationRecord
	counters  []CounterRecord
	values    []ValueRecord
}

// DurationRecord is one captured duration measurement.
type DurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// CounterRecord is one captured counter increment.
type CounterRecord struct {
	Metric string
	Labels map[string]string
}

// ValueRecord is one captured value measurement.
type ValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// NewMetricsCollectorSpy creates an empty MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, DurationRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, CounterRecord{Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, ValueRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// HasDurationRecord reports whether a duration was recorded for the metric.
func (s *MetricsCollectorSpy) HasDurationRecord(metric string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.durations {
		if record.Metric == metric {
			return true
		}
	}

	return false
}

// HasValueRecord reports whether a value was recorded for the metric.
func (s *MetricsCollectorSpy) HasValueRecord(metric string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.values {
		if record.Metric == metric {
			return true
		}
	}

	return false
}

// CountCounterRecords returns how many increments were captured for the metric.
func (s *MetricsCollectorSpy) CountCounterRecords(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.counters {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// CounterLabels returns the labels of the first captured increment for the
// metric, or nil when none was captured.
func (s *MetricsCollectorSpy) CounterLabels(metric string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.counters {
		if record.Metric == metric {
			return maps.Clone(record.Labels)
		}
	}

	return nil
}

// Reset clears all captured records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = nil
	s.counters = nil
	s.values = nil
}

var _ eventstore.MetricsCollector = (*MetricsCollectorSpy)(nil)
var _ eventstore.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
