package memoryengine_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore/memoryengine"
	"github.com/eventfoundry/indexed-streams-eventstore-go/streams"
)

func buildEvent(t *testing.T, eventType string, payloadJSON string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(
		eventType, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), []byte(payloadJSON))
	require.NoError(t, err)

	return event
}

func criteriaForCard(cardID string) eventstore.Criteria {
	return eventstore.BuildEventCriteria().
		Matching().
		AnyIndexOf(eventstore.Idx("card", cardID)).
		Finalize()
}

func collectEvents(t *testing.T, s streams.Stream[eventstore.StoredEvent]) eventstore.StoredEvents {
	t.Helper()

	var events eventstore.StoredEvents
	it := s.Pull()

	for {
		event, err := it.Next(context.Background())
		if errors.Is(err, streams.ErrEndOfStream) {
			return events
		}

		require.NoError(t, err)
		events = append(events, event)
	}
}

func Test_EventStore_EmptyStore_Tokens(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	tail, err := es.TailToken().Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(-1), tail.Position())

	head, err := es.HeadToken().Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(-1), head.Position())
}

func Test_EventStore_Append_AssignsConsecutivePositions(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	token, err := es.Append(ctx, eventstore.AppendWithNoCriteria(),
		buildEvent(t, "CardIssued", `{"card":"c-1"}`),
		buildEvent(t, "CardRedeemed", `{"card":"c-1"}`),
	).Await(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), token.Position())

	tail, err := es.TailToken().Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), tail.Position())

	head, err := es.HeadToken().Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), head.Position())

	events := collectEvents(t, es.Source(eventstore.SourceFrom(0)))
	require.Len(t, events, 2)
	assert.Equal(t, int64(0), events[0].SequencePosition())
	assert.Equal(t, int64(1), events[1].SequencePosition())
	assert.Equal(t, "CardIssued", events[0].EventType)
	assert.Equal(t, "CardRedeemed", events[1].EventType)
}

func Test_EventStore_Append_WithNoEventsFails(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	_, err = es.Append(context.Background(), eventstore.AppendWithNoCriteria()).Await(context.Background())

	assert.ErrorIs(t, err, eventstore.ErrNoEventsSupplied)
}

func Test_EventStore_Append_RejectsTooManyIndexMatchers(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	criteria := eventstore.BuildEventCriteria().
		Matching().
		AnyIndexOf(eventstore.Idx("card", "c-1"), eventstore.Idx("card", "c-2")).
		Finalize()

	condition := eventstore.AppendAfter(eventstore.TokenAtPosition(-1), criteria)
	_, err = es.Append(context.Background(), condition, buildEvent(t, "CardIssued", `{}`)).
		Await(context.Background())

	assert.ErrorIs(t, err, eventstore.ErrTooManyIndices)

	var tooMany eventstore.TooManyIndicesError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Requested)
	assert.Equal(t, 1, tooMany.Supported)
}

func Test_EventStore_Append_WithCanceledContextFails(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = es.Append(ctx, eventstore.AppendWithNoCriteria(), buildEvent(t, "CardIssued", `{}`)).
		Await(context.Background())

	assert.ErrorIs(t, err, context.Canceled)

	head, err := es.HeadToken().Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(-1), head.Position())
}

func Test_EventStore_Append_TagsEventsWithConditionIndices(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	condition := eventstore.AppendAfter(eventstore.TokenAtPosition(-1), criteriaForCard("c-1"))
	_, err = es.Append(ctx, condition, buildEvent(t, "CardIssued", `{"card":"c-1"}`)).Await(ctx)
	require.NoError(t, err)

	events := collectEvents(t, es.Source(eventstore.SourceFrom(0)))
	require.Len(t, events, 1)
	assert.True(t, events[0].WasIndexed())
	assert.Equal(t, []eventstore.Index{eventstore.Idx("card", "c-1")}, events[0].Indices())
}

func Test_EventStore_Append_DetectsConcurrencyConflict(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	criteria := criteriaForCard("c-1")

	// first writer establishes the boundary and appends
	head, err := es.HeadToken().Await(ctx)
	require.NoError(t, err)

	_, err = es.Append(ctx, eventstore.AppendAfter(head, criteria),
		buildEvent(t, "CardIssued", `{"card":"c-1"}`)).Await(ctx)
	require.NoError(t, err)

	// second writer still holds the stale marker
	_, err = es.Append(ctx, eventstore.AppendAfter(head, criteria),
		buildEvent(t, "CardRedeemed", `{"card":"c-1"}`)).Await(ctx)

	assert.ErrorIs(t, err, eventstore.ErrConsistencyMarkerSurpassed)

	var conflict eventstore.ConsistencyMarkerSurpassedError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, head.Position(), conflict.Marker.Position())

	// nothing was inserted by the failed append
	events := collectEvents(t, es.Source(eventstore.SourceFrom(0)))
	assert.Len(t, events, 1)
}

func Test_EventStore_Append_NoConflictForDisjointIndices(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	head, err := es.HeadToken().Await(ctx)
	require.NoError(t, err)

	_, err = es.Append(ctx, eventstore.AppendAfter(head, criteriaForCard("c-1")),
		buildEvent(t, "CardIssued", `{"card":"c-1"}`)).Await(ctx)
	require.NoError(t, err)

	// a different card's boundary is untouched by the first append
	token, err := es.Append(ctx, eventstore.AppendAfter(head, criteriaForCard("c-2")),
		buildEvent(t, "CardIssued", `{"card":"c-2"}`)).Await(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), token.Position())
}

func Test_EventStore_Append_NoCriteriaNeverConflicts(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = es.Append(ctx, eventstore.AppendAfter(eventstore.TokenAtPosition(-1), criteriaForCard("c-1")),
		buildEvent(t, "CardIssued", `{"card":"c-1"}`)).Await(ctx)
	require.NoError(t, err)

	token, err := es.Append(ctx, eventstore.AppendWithNoCriteria(),
		buildEvent(t, "AuditEntryWritten", `{}`)).Await(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), token.Position())
}

func Test_EventStore_SourceDecideAppend_RoundTrip(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	criteria := criteriaForCard("c-1")

	_, err = es.Append(ctx, eventstore.AppendAfter(eventstore.TokenAtPosition(-1), criteria),
		buildEvent(t, "CardIssued", `{"card":"c-1","amount":50}`)).Await(ctx)
	require.NoError(t, err)

	// source the card's events, decide, then append behind the observed head
	sourcing := eventstore.SourceFrom(0).WithCriteria(criteria)
	sourced := collectEvents(t, es.Source(sourcing))
	require.Len(t, sourced, 1)

	head, err := es.HeadToken().Await(ctx)
	require.NoError(t, err)

	condition := eventstore.AppendWithNoCriteria().With(sourcing)
	condition, err = condition.WithMarker(head)
	require.NoError(t, err)

	token, err := es.Append(ctx, condition,
		buildEvent(t, "CardRedeemed", `{"card":"c-1","amount":20}`)).Await(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), token.Position())
}

func Test_EventStore_Source_BoundedRange(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	for n := range 5 {
		_, err = es.Append(ctx, eventstore.AppendWithNoCriteria(),
			buildEvent(t, "CardIssued", fmt.Sprintf(`{"n":%d}`, n))).Await(ctx)
		require.NoError(t, err)
	}

	events := collectEvents(t, es.Source(eventstore.SourceBetween(1, 4)))

	require.Len(t, events, 3)
	assert.Equal(t, int64(1), events[0].SequencePosition())
	assert.Equal(t, int64(3), events[2].SequencePosition())
}

func Test_EventStore_Source_FiltersByCriteria(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = es.Append(ctx, eventstore.AppendAfter(eventstore.TokenAtPosition(-1), criteriaForCard("c-1")),
		buildEvent(t, "CardIssued", `{"card":"c-1"}`)).Await(ctx)
	require.NoError(t, err)

	_, err = es.Append(ctx, eventstore.AppendAfter(eventstore.TokenAtPosition(-1), criteriaForCard("c-2")),
		buildEvent(t, "CardIssued", `{"card":"c-2"}`)).Await(ctx)
	require.NoError(t, err)

	_, err = es.Append(ctx, eventstore.AppendAfter(eventstore.TokenAtPosition(0), criteriaForCard("c-1")),
		buildEvent(t, "CardRedeemed", `{"card":"c-1"}`)).Await(ctx)
	require.NoError(t, err)

	events := collectEvents(t, es.Source(eventstore.SourceFrom(0).WithCriteria(criteriaForCard("c-1"))))

	require.Len(t, events, 2)
	assert.Equal(t, int64(0), events[0].SequencePosition())
	assert.Equal(t, int64(2), events[1].SequencePosition())
}

func Test_EventStore_Stream_DeliversStrictlyAfterToken(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	for n := range 3 {
		_, err = es.Append(ctx, eventstore.AppendWithNoCriteria(),
			buildEvent(t, "CardIssued", fmt.Sprintf(`{"n":%d}`, n))).Await(ctx)
		require.NoError(t, err)
	}

	events := collectEvents(t, es.Stream(eventstore.StreamingFrom(eventstore.TokenAtPosition(0))))

	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].SequencePosition())
	assert.Equal(t, int64(2), events[1].SequencePosition())

	all := collectEvents(t, es.Stream(eventstore.StreamFromStart()))
	assert.Len(t, all, 3)
}

func Test_EventStore_Stream_IsASnapshotAtCallTime(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = es.Append(ctx, eventstore.AppendWithNoCriteria(),
		buildEvent(t, "CardIssued", `{"n":0}`)).Await(ctx)
	require.NoError(t, err)

	stream := es.Stream(eventstore.StreamFromStart())

	_, err = es.Append(ctx, eventstore.AppendWithNoCriteria(),
		buildEvent(t, "CardIssued", `{"n":1}`)).Await(ctx)
	require.NoError(t, err)

	events := collectEvents(t, stream)
	assert.Len(t, events, 1)
}

func Test_EventStore_TokenAt_And_TokenSince(t *testing.T) {
	frozenNow := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	es, err := memoryengine.NewEventStore(memoryengine.WithClock(func() time.Time { return frozenNow }))
	require.NoError(t, err)
	ctx := context.Background()

	buildAt := func(at time.Time) eventstore.StorableEvent {
		event, buildErr := eventstore.BuildStorableEventWithEmptyMetadata("CardIssued", at, []byte(`{}`))
		require.NoError(t, buildErr)
		return event
	}

	_, err = es.Append(ctx, eventstore.AppendWithNoCriteria(),
		buildAt(frozenNow.Add(-3*time.Hour)),
		buildAt(frozenNow.Add(-2*time.Hour)),
		buildAt(frozenNow.Add(-1*time.Hour)),
	).Await(ctx)
	require.NoError(t, err)

	// just before the first event at or after the instant
	token, err := es.TokenAt(frozenNow.Add(-2 * time.Hour)).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), token.Position())

	// no event at or after the instant: equals the head token
	token, err = es.TokenAt(frozenNow).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), token.Position())

	token, err = es.TokenSince(2 * time.Hour).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), token.Position())
}

func Test_EventStore_ConcurrentAppends_GaplessPositions(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	const writers = 20

	var wg sync.WaitGroup
	for n := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, appendErr := es.Append(ctx, eventstore.AppendWithNoCriteria(),
				buildEvent(t, "CardIssued", fmt.Sprintf(`{"writer":%d}`, n))).Await(ctx)
			assert.NoError(t, appendErr)
		}()
	}
	wg.Wait()

	events := collectEvents(t, es.Source(eventstore.SourceFrom(0)))
	require.Len(t, events, writers)

	for n, event := range events {
		assert.Equal(t, int64(n), event.SequencePosition())
	}
}

func Test_EventStore_ConcurrentConflictingAppends_ExactlyOneWins(t *testing.T) {
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	ctx := context.Background()

	head, err := es.HeadToken().Await(ctx)
	require.NoError(t, err)

	const writers = 10

	var wg sync.WaitGroup
	results := make([]error, writers)

	for n := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, results[n] = es.Append(ctx, eventstore.AppendAfter(head, criteriaForCard("c-1")),
				buildEvent(t, "CardIssued", `{"card":"c-1"}`)).Await(ctx)
		}()
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, result := range results {
		switch {
		case result == nil:
			succeeded++
		case errors.Is(result, eventstore.ErrConsistencyMarkerSurpassed):
			conflicted++
		default:
			t.Fatalf("unexpected append outcome: %v", result)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicted)

	events := collectEvents(t, es.Source(eventstore.SourceFrom(0)))
	assert.Len(t, events, 1)
}

func Test_EventStore_InstancesAreIndependent(t *testing.T) {
	first, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	second, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	ctx := context.Background()

	_, err = first.Append(ctx, eventstore.AppendWithNoCriteria(),
		buildEvent(t, "CardIssued", `{}`)).Await(ctx)
	require.NoError(t, err)

	assert.Empty(t, collectEvents(t, second.Source(eventstore.SourceFrom(0))))
}

type recordingDescriptor struct {
	properties map[string]any
}

func (d *recordingDescriptor) DescribeProperty(name string, value any) {
	d.properties[name] = value
}

func Test_EventStore_Describe_ReportsConfiguration(t *testing.T) {
	es, err := memoryengine.NewEventStore(
		memoryengine.WithStartingSequencePosition(100),
		memoryengine.WithMaxIndexMatchers(4),
	)
	require.NoError(t, err)

	descriptor := &recordingDescriptor{properties: make(map[string]any)}
	es.Describe(descriptor)

	assert.Equal(t, int64(100), descriptor.properties["startingSequencePosition"])
	assert.Equal(t, 4, descriptor.properties["maxIndexMatchers"])
	assert.Contains(t, descriptor.properties, "clock")
}
