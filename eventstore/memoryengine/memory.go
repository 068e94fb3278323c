package memoryengine

import (
	"context"
	"iter"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
	"github.com/eventfoundry/indexed-streams-eventstore-go/streams"
)

const (
	defaultMaxIndexMatchers        = 1
	defaultStartingPosition        = eventstore.SequencePositionInt64(0)
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgTooManyIndexMatchers     = "append condition rejected, too many index matchers"
	logMsgAppendCanceled           = "append canceled before acquiring the log"
	logMsgOperation                = "eventstore operation: "
	logAttrError                   = "error"
	logAttrEventCount              = "event_count"
	logAttrDurationMS              = "duration_ms"
	logAttrHeadPosition            = "head_position"
	logAttrMarkerPosition          = "marker_position"
	logAttrIndexMatchers           = "index_matchers"
	logAttrProjectionType          = "projection_type"
	logActionAppend                = "append"
	logActionSaveSnapshot          = "save_snapshot"
	logActionLoadSnapshot          = "load_snapshot"
	logActionDeleteSnapshot        = "delete_snapshot"
	metricAppendDuration           = "eventstore_append_duration_seconds"
	metricAppendedEvents           = "eventstore_appended_events_total"
	metricConcurrencyConflicts     = "eventstore_concurrency_conflicts_total"
	metricOperationErrors          = "eventstore_operation_errors_total"
	metricLogSize                  = "eventstore_log_size"
	spanNameAppend                 = "eventstore.append"
	spanAttrOperation              = "operation"
	spanAttrEventCount             = "event_count"
	spanAttrErrorType              = "error_type"
	statusSuccess                  = "success"
	statusError                    = "error"
	statusConflict                 = "conflict"
	errorTypeTooManyIndexMatchers  = "too_many_index_matchers"
	errorTypeConcurrencyConflict   = "concurrency_conflict"
	errorTypeCanceled              = "canceled"
	errorTypeNoEventsSupplied      = "no_events_supplied"
	descriptorPropClock            = "clock"
	descriptorPropStartingPosition = "startingSequencePosition"
	descriptorPropIndexCapacity    = "maxIndexMatchers"
)

// Clock is the time source used for event timestamps and time-based token
// queries; it exists so tests and simulations can run on a frozen clock.
type Clock func() time.Time

// EventStore is the volatile storage engine: an append-only, criteria-filtered
// event log held in memory, with optimistic concurrency control on appends.
//
// The log is kept as an immutable slice snapshot behind an atomic pointer.
// Readers load the pointer and work on their snapshot without taking any lock,
// so they never block on or behind concurrent appends; they simply do not
// observe events appended after their own start. Appends serialize on a single
// writer mutex so that the conflict check and the insert are one atomic unit.
//
// Multiple EventStore instances are fully independent; nothing is shared.
type EventStore struct {
	log      atomic.Pointer[eventstore.StoredEvents]
	appendMu sync.Mutex

	clock            Clock
	startingPosition eventstore.SequencePositionInt64
	maxIndexMatchers int

	snapshotsMu sync.RWMutex
	snapshots   map[snapshotKey]eventstore.Snapshot

	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

type snapshotKey struct {
	projectionType string
	criteriaHash   string
}

// NewEventStore creates an empty in-memory EventStore with optional configuration.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		clock:            time.Now,
		startingPosition: defaultStartingPosition,
		maxIndexMatchers: defaultMaxIndexMatchers,
		snapshots:        make(map[snapshotKey]eventstore.Snapshot),
	}

	empty := make(eventstore.StoredEvents, 0)
	es.log.Store(&empty)

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Append attempts to append one or multiple eventstore.StorableEvent(s) onto the log,
// respecting the concurrency constraints expressed by the eventstore.AppendCondition.
//
// The condition's Criteria should be the same as the ones used for the Source call
// before making the business decisions, and its consistency marker the head token
// learned from that read. If an event matching the Criteria's index matchers was
// appended past the marker in the meantime, the returned future fails with
// eventstore.ErrConsistencyMarkerSurpassed and nothing is inserted.
//
// The batch is all-or-nothing: either every event is appended at consecutive
// positions or none is. An admitted append cannot be canceled. The returned
// future resolves to the Token of the last appended event, the new head.
func (es *EventStore) Append(
	ctx context.Context,
	condition eventstore.AppendCondition,
	events ...eventstore.StorableEvent,
) *streams.Future[eventstore.Token] {

	if len(events) == 0 {
		es.recordErrorMetricsContext(ctx, logActionAppend, errorTypeNoEventsSupplied)
		return streams.FailedFuture[eventstore.Token](eventstore.ErrNoEventsSupplied)
	}

	if requested := len(condition.Criteria().Indices()); requested > es.maxIndexMatchers {
		err := eventstore.TooManyIndicesError{Requested: requested, Supported: es.maxIndexMatchers}
		es.logErrorContext(ctx, logMsgTooManyIndexMatchers, err, logAttrIndexMatchers, requested)
		es.recordErrorMetricsContext(ctx, logActionAppend, errorTypeTooManyIndexMatchers)

		return streams.FailedFuture[eventstore.Token](err)
	}

	result := streams.NewFuture[eventstore.Token]()

	go es.executeAppend(ctx, condition, events, result)

	return result
}

// executeAppend runs the conflict-check-and-insert sequence under the writer
// mutex so that two concurrent appends can never both pass the conflict check
// against the same pre-insert head.
func (es *EventStore) executeAppend(
	ctx context.Context,
	condition eventstore.AppendCondition,
	events eventstore.StorableEvents,
	result *streams.Future[eventstore.Token],
) {

	ctx, span := es.startAppendSpan(ctx, len(events))
	start := time.Now()

	if err := ctx.Err(); err != nil {
		es.logErrorContext(ctx, logMsgAppendCanceled, err)
		es.recordErrorMetricsContext(ctx, logActionAppend, errorTypeCanceled)
		es.finishTraceSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeCanceled})
		result.Fail(err)

		return
	}

	es.appendMu.Lock()

	log := *es.log.Load()
	head := es.headPosition(log)
	indices := condition.Criteria().Indices()

	if condition.HasCriteria() && len(indices) > 0 {
		marker := condition.ConsistencyMarker()

		if es.conflictsPastMarker(log, marker, condition.Criteria()) {
			es.appendMu.Unlock()

			conflictErr := eventstore.ConsistencyMarkerSurpassedError{Marker: marker}
			es.logOperationContext(ctx, logMsgConcurrencyConflict,
				logAttrMarkerPosition, marker.Position(),
				logAttrEventCount, len(events))
			es.recordConcurrencyConflictMetrics(ctx)
			es.finishTraceSpan(span, statusConflict, map[string]string{spanAttrErrorType: errorTypeConcurrencyConflict})
			result.Fail(conflictErr)

			return
		}
	}

	// Readers only ever see positions up to the length of their own snapshot,
	// so appending in place to a shared backing array is safe here: the new
	// slice header becomes visible atomically, as a whole batch or not at all.
	appended := log
	for _, event := range events {
		head++

		if len(indices) > 0 {
			appended = append(appended, eventstore.BuildIndexedStoredEvent(event, head, indices))
		} else {
			appended = append(appended, eventstore.BuildStoredEvent(event, head))
		}
	}
	es.log.Store(&appended)

	es.appendMu.Unlock()

	duration := time.Since(start)
	es.logOperationContext(ctx, logMsgEventsAppended,
		logAttrEventCount, len(events),
		logAttrHeadPosition, head,
		logAttrDurationMS, es.toMilliseconds(duration))
	es.recordDurationMetricsContext(ctx, metricAppendDuration, duration, logActionAppend, statusSuccess)
	es.recordValueMetricsContext(ctx, metricLogSize, float64(len(appended)), logActionAppend, statusSuccess)
	es.incrementCounterMetricsContext(ctx, metricAppendedEvents, logActionAppend, statusSuccess)
	es.finishTraceSpan(span, statusSuccess, map[string]string{spanAttrEventCount: strconv.Itoa(len(events))})

	result.Complete(eventstore.TokenAtPosition(head))
}

// conflictsPastMarker scans the stored events at positions strictly greater
// than the marker for an indexed event intersecting the condition's index
// matchers. It walks newest-first and stops at the marker.
func (es *EventStore) conflictsPastMarker(
	log eventstore.StoredEvents,
	marker eventstore.Token,
	criteria eventstore.Criteria,
) bool {

	for i := len(log) - 1; i >= 0; i-- {
		event := log[i]

		if marker.Covers(event.SequencePosition()) {
			break
		}

		if event.WasIndexed() && criteria.IntersectsIndices(event.Indices()) {
			return true
		}
	}

	return false
}

// Source reads the closed-open position range of the eventstore.SourcingCondition,
// filtered by its Criteria, as a lazily pulled stream over a snapshot of the log
// taken at call time.
func (es *EventStore) Source(condition eventstore.SourcingCondition) streams.Stream[eventstore.StoredEvent] {
	log := es.snapshotLog()
	end, bounded := condition.End()

	return streams.FromSeq(filteredEvents(log, condition.Start(), end, bounded, condition.Criteria()))
}

// Stream reads the events at positions strictly after the eventstore.StreamingCondition's
// Token, filtered by its Criteria.
//
// The volatile engine computes this as a snapshot at call time: events appended
// after the stream was created are not delivered to it. Callers needing genuine
// live tailing must re-stream from the last seen Token.
func (es *EventStore) Stream(condition eventstore.StreamingCondition) streams.Stream[eventstore.StoredEvent] {
	log := es.snapshotLog()

	return streams.FromSeq(filteredEvents(log, condition.Position().Position()+1, 0, false, condition.Criteria()))
}

// filteredEvents yields the events of the snapshot within [start, end) that
// match the criteria, in log order, one pull at a time.
func filteredEvents(
	log eventstore.StoredEvents,
	start eventstore.SequencePositionInt64,
	end eventstore.SequencePositionInt64,
	bounded bool,
	criteria eventstore.Criteria,
) iter.Seq[eventstore.StoredEvent] {

	return func(yield func(eventstore.StoredEvent) bool) {
		for _, event := range log {
			position := event.SequencePosition()

			if position < start {
				continue
			}

			if bounded && position >= end {
				return
			}

			if !criteria.Matches(event) {
				continue
			}

			if !yield(event) {
				return
			}
		}
	}
}

// TailToken resolves to the Token just before the first stored event, or just
// before the starting position for an empty log.
func (es *EventStore) TailToken() *streams.Future[eventstore.Token] {
	log := es.snapshotLog()

	if len(log) == 0 {
		return streams.CompletedFuture(eventstore.TokenAtPosition(es.startingPosition - 1))
	}

	return streams.CompletedFuture(eventstore.TokenAtPosition(log[0].SequencePosition() - 1))
}

// HeadToken resolves to the Token of the last stored event, or the tail Token
// for an empty log.
func (es *EventStore) HeadToken() *streams.Future[eventstore.Token] {
	log := es.snapshotLog()

	return streams.CompletedFuture(eventstore.TokenAtPosition(es.headPosition(log)))
}

// TokenAt resolves to the Token just before the first event whose timestamp is
// at or after the given instant; when no event qualifies it equals HeadToken.
func (es *EventStore) TokenAt(at time.Time) *streams.Future[eventstore.Token] {
	log := es.snapshotLog()

	for _, event := range log {
		if !event.OccurredAt.Before(at) {
			return streams.CompletedFuture(eventstore.TokenAtPosition(event.SequencePosition() - 1))
		}
	}

	return streams.CompletedFuture(eventstore.TokenAtPosition(es.headPosition(log)))
}

// TokenSince resolves to TokenAt the engine clock's current time minus the duration.
func (es *EventStore) TokenSince(since time.Duration) *streams.Future[eventstore.Token] {
	return es.TokenAt(es.clock().Add(-since))
}

// Describe reports the engine's primitive configuration to the given descriptor.
func (es *EventStore) Describe(descriptor eventstore.ComponentDescriptor) {
	descriptor.DescribeProperty(descriptorPropClock, es.clock)
	descriptor.DescribeProperty(descriptorPropStartingPosition, es.startingPosition)
	descriptor.DescribeProperty(descriptorPropIndexCapacity, es.maxIndexMatchers)
}

// snapshotLog returns the immutable log snapshot current at call time.
func (es *EventStore) snapshotLog() eventstore.StoredEvents {
	return *es.log.Load()
}

func (es *EventStore) headPosition(log eventstore.StoredEvents) eventstore.SequencePositionInt64 {
	if len(log) == 0 {
		return es.startingPosition - 1
	}

	return log[len(log)-1].SequencePosition()
}
