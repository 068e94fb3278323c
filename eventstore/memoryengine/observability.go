package memoryengine

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
)

// logOperationContext logs operational information at info level, preferring
// the contextual logger for trace correlation when one is configured.
func (es *EventStore) logOperationContext(ctx context.Context, action string, args ...any) {
	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}
}

// logErrorContext logs error information at the error level, preferring the
// contextual logger when one is configured.
func (es *EventStore) logErrorContext(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if es.contextualLogger != nil {
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if es.logger != nil {
		es.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (es *EventStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (es *EventStore) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricOperationErrors, labels)
	} else {
		es.metricsCollector.IncrementCounter(metricOperationErrors, labels)
	}
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (es *EventStore) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextualCollector, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
	} else {
		es.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (es *EventStore) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation, status string,
) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextualCollector, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
	} else {
		es.metricsCollector.RecordValue(metricName, value, labels)
	}
}

// incrementCounterMetricsContext increments a counter metric with context if the collector supports it.
func (es *EventStore) incrementCounterMetricsContext(ctx context.Context, metricName, operation, status string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextualCollector, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricName, labels)
	} else {
		es.metricsCollector.IncrementCounter(metricName, labels)
	}
}

// recordConcurrencyConflictMetrics records concurrency conflict metrics if a collector is configured.
func (es *EventStore) recordConcurrencyConflictMetrics(ctx context.Context) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: logActionAppend,
		"conflict_type":   "concurrency",
	}

	if contextualCollector, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricConcurrencyConflicts, labels)
	} else {
		es.metricsCollector.IncrementCounter(metricConcurrencyConflicts, labels)
	}
}

// startAppendSpan starts a tracing span for append operations if a tracing collector is configured.
func (es *EventStore) startAppendSpan(ctx context.Context, eventCount int) (context.Context, eventstore.SpanContext) {
	if es.tracingCollector == nil {
		return ctx, nil
	}

	return es.tracingCollector.StartSpan(ctx, spanNameAppend, map[string]string{
		spanAttrOperation:  logActionAppend,
		spanAttrEventCount: strconv.Itoa(eventCount),
	})
}

// finishTraceSpan finishes a tracing span if one was started.
func (es *EventStore) finishTraceSpan(span eventstore.SpanContext, status string, attrs map[string]string) {
	if es.tracingCollector != nil && span != nil {
		es.tracingCollector.FinishSpan(span, status, attrs)
	}
}
