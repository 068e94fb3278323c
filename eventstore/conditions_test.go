package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
)

func Test_AppendCondition_AppendWithNoCriteria(t *testing.T) {
	condition := eventstore.AppendWithNoCriteria()

	assert.False(t, condition.HasCriteria())
	assert.True(t, condition.Criteria().IsNoCriteria())
}

func Test_AppendCondition_AppendAfter(t *testing.T) {
	criteria := eventstore.BuildEventCriteria().
		Matching().
		AnyIndexOf(eventstore.Idx("card", "c-1")).
		Finalize()

	condition := eventstore.AppendAfter(eventstore.TokenAtPosition(7), criteria)

	assert.True(t, condition.HasCriteria())
	assert.Equal(t, int64(7), condition.ConsistencyMarker().Position())
	assert.Equal(t, criteria.Indices(), condition.Criteria().Indices())
}

func Test_AppendCondition_WithMarker(t *testing.T) {
	criteria := eventstore.BuildEventCriteria().
		Matching().
		AnyIndexOf(eventstore.Idx("card", "c-1")).
		Finalize()

	condition, err := eventstore.AppendAfter(eventstore.TokenAtPosition(3), criteria).
		WithMarker(eventstore.TokenAtPosition(9))

	require.NoError(t, err)
	assert.Equal(t, int64(9), condition.ConsistencyMarker().Position())
	assert.Equal(t, criteria.Indices(), condition.Criteria().Indices())
}

func Test_AppendCondition_WithMarker_FailsWithoutCriteria(t *testing.T) {
	_, err := eventstore.AppendWithNoCriteria().WithMarker(eventstore.TokenAtPosition(9))

	assert.ErrorIs(t, err, eventstore.ErrMarkerWithoutCriteria)
}

func Test_AppendCondition_With_MergesSourcingBoundary(t *testing.T) {
	appendCriteria := eventstore.BuildEventCriteria().
		Matching().
		AnyIndexOf(eventstore.Idx("card", "c-1")).
		Finalize()

	sourcingCriteria := eventstore.BuildEventCriteria().
		Matching().
		AnyIndexOf(eventstore.Idx("card", "c-2")).
		Finalize()

	sourcing := eventstore.SourceFrom(5).WithCriteria(sourcingCriteria)
	condition := eventstore.AppendAfter(eventstore.TokenAtPosition(10), appendCriteria).With(sourcing)

	// the derived marker is the lower of both boundaries
	assert.Equal(t, int64(4), condition.ConsistencyMarker().Position())
	assert.Equal(
		t,
		[]eventstore.Index{eventstore.Idx("card", "c-1"), eventstore.Idx("card", "c-2")},
		condition.Criteria().Indices(),
	)
}

func Test_AppendCondition_With_OnNoCriteriaAdoptsSourcingBoundary(t *testing.T) {
	sourcingCriteria := eventstore.BuildEventCriteria().
		Matching().
		AnyIndexOf(eventstore.Idx("card", "c-1")).
		Finalize()

	sourcing := eventstore.SourceFrom(8).WithCriteria(sourcingCriteria)
	condition := eventstore.AppendWithNoCriteria().With(sourcing)

	assert.True(t, condition.HasCriteria())
	assert.Equal(t, int64(7), condition.ConsistencyMarker().Position())
	assert.Equal(t, sourcingCriteria.Indices(), condition.Criteria().Indices())
}

func Test_SourcingCondition_Bounds(t *testing.T) {
	unbounded := eventstore.SourceFrom(3)
	_, hasEnd := unbounded.End()

	assert.Equal(t, int64(3), unbounded.Start())
	assert.False(t, hasEnd)
	assert.True(t, unbounded.Criteria().IsNoCriteria())

	bounded := eventstore.SourceBetween(3, 9)
	end, hasEnd := bounded.End()

	assert.Equal(t, int64(3), bounded.Start())
	assert.True(t, hasEnd)
	assert.Equal(t, int64(9), end)
}

func Test_StreamingCondition_Factories(t *testing.T) {
	criteria := eventstore.BuildEventCriteria().
		Matching().
		AnyIndexOf(eventstore.Idx("card", "c-1")).
		Finalize()

	fromStart := eventstore.StreamFromStart()
	assert.Equal(t, int64(-1), fromStart.Position().Position())
	assert.True(t, fromStart.Criteria().IsNoCriteria())

	fromToken := eventstore.StreamingFrom(eventstore.TokenAtPosition(12)).WithCriteria(criteria)
	assert.Equal(t, int64(12), fromToken.Position().Position())
	assert.Equal(t, criteria.Indices(), fromToken.Criteria().Indices())
}

func Test_Token_Semantics(t *testing.T) {
	token := eventstore.TokenAtPosition(5)

	assert.True(t, token.Covers(5))
	assert.True(t, token.Covers(4))
	assert.False(t, token.Covers(6))

	assert.True(t, eventstore.TokenAtPosition(3).Before(token))
	assert.False(t, token.Before(token))

	assert.Equal(t, int64(3), token.Min(eventstore.TokenAtPosition(3)).Position())
	assert.Equal(t, int64(5), token.Min(eventstore.TokenAtPosition(8)).Position())
}
