package streams_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventfoundry/indexed-streams-eventstore-go/streams"
)

func pullAll[T any](t *testing.T, s streams.Stream[T]) []T {
	t.Helper()

	var values []T
	it := s.Pull()

	for {
		value, err := it.Next(context.Background())
		if errors.Is(err, streams.ErrEndOfStream) {
			return values
		}

		require.NoError(t, err)
		values = append(values, value)
	}
}

func Test_SliceStream_DeliversAllValuesInOrder(t *testing.T) {
	s := streams.FromSlice([]int{1, 2, 3})

	assert.Equal(t, []int{1, 2, 3}, pullAll(t, s))
}

func Test_SliceStream_PullPastEndKeepsReturningEndOfStream(t *testing.T) {
	it := streams.FromSlice([]int{1}).Pull()

	_, err := it.Next(context.Background())
	require.NoError(t, err)

	for range 3 {
		_, err = it.Next(context.Background())
		assert.ErrorIs(t, err, streams.ErrEndOfStream)
	}
}

func Test_SliceStream_EachPullIsAFreshIterator(t *testing.T) {
	s := streams.FromSlice([]int{1, 2})

	assert.Equal(t, []int{1, 2}, pullAll(t, s))
	assert.Equal(t, []int{1, 2}, pullAll(t, s))
}

func Test_First_OnEmptyStreamResolvesToEmptyHead(t *testing.T) {
	head, err := streams.Empty[int]().First().Await(context.Background())

	require.NoError(t, err)
	assert.False(t, head.Ok)
}

func Test_First_ResolvesToFirstValue(t *testing.T) {
	head, err := streams.FromSlice([]int{7, 8, 9}).First().Await(context.Background())

	require.NoError(t, err)
	assert.True(t, head.Ok)
	assert.Equal(t, 7, head.Value)
}

func Test_Just_WrapsExactlyOneValue(t *testing.T) {
	assert.Equal(t, []string{"only"}, pullAll(t, streams.Just("only")))
}

func Test_FailedStream_PoisonsEveryObservation(t *testing.T) {
	expectedErr := errors.New("poisoned")
	s := streams.Failed[int](expectedErr)

	_, err := s.First().Await(context.Background())
	assert.ErrorIs(t, err, expectedErr)

	it := s.Pull()
	for range 2 {
		_, err = it.Next(context.Background())
		assert.ErrorIs(t, err, expectedErr)
	}

	var completionErr error
	s.WhenComplete(func(err error) { completionErr = err })
	assert.ErrorIs(t, completionErr, expectedErr)
}

func Test_Map_OverFailedStream_NeverInvokesTransform(t *testing.T) {
	expectedErr := errors.New("poisoned")

	transformCalled := false
	mapped := streams.Map(streams.Failed[int](expectedErr), func(value int) int {
		transformCalled = true
		return value
	})

	_, err := mapped.Pull().Next(context.Background())

	assert.ErrorIs(t, err, expectedErr)
	assert.False(t, transformCalled)
}

func Test_Map_TransformsLazilyPerPull(t *testing.T) {
	transformCount := 0
	mapped := streams.Map(streams.FromSlice([]int{1, 2, 3}), func(value int) int {
		transformCount++
		return value * 10
	})

	it := mapped.Pull()

	value, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, value)
	assert.Equal(t, 1, transformCount)

	assert.Equal(t, []int{10, 20, 30}, pullAll(t, mapped))
}

func Test_Reduce_FoldsLeftToRight(t *testing.T) {
	s := streams.FromSlice([]string{"a", "b", "c"})

	result, err := streams.Reduce(context.Background(), s, "", func(acc, value string) string {
		return acc + value
	}).Await(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "abc", result)
}

func Test_Reduce_OnEmptyStreamResolvesToIdentity(t *testing.T) {
	result, err := streams.Reduce(context.Background(), streams.Empty[int](), 99, func(acc, value int) int {
		return acc + value
	}).Await(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 99, result)
}

func Test_Reduce_OverFailedStream_NeverInvokesAccumulator(t *testing.T) {
	expectedErr := errors.New("poisoned")

	accumulatorCalled := false
	_, err := streams.Reduce(context.Background(), streams.Failed[int](expectedErr), 0, func(acc, value int) int {
		accumulatorCalled = true
		return acc + value
	}).Await(context.Background())

	assert.ErrorIs(t, err, expectedErr)
	assert.False(t, accumulatorCalled)
}

func Test_FutureStream_DeliversTheSettledValueOnce(t *testing.T) {
	future := streams.NewFuture[int]()
	s := streams.FromFuture(future)

	go future.Complete(42)

	assert.Equal(t, []int{42}, pullAll(t, s))
}

func Test_FutureStream_FailedSourceResurfacesOnEveryPull(t *testing.T) {
	expectedErr := errors.New("poisoned")
	s := streams.FromFuture(streams.FailedFuture[int](expectedErr))

	it := s.Pull()
	for range 2 {
		_, err := it.Next(context.Background())
		assert.ErrorIs(t, err, expectedErr)
	}
}

func Test_FutureStream_WhenCompleteFiresOnSettlement(t *testing.T) {
	future := streams.NewFuture[int]()

	completed := make(chan error, 1)
	streams.FromFuture(future).WhenComplete(func(err error) { completed <- err })

	future.Complete(1)

	assert.NoError(t, <-completed)
}

func Test_SeqStream_PullsLazily(t *testing.T) {
	produced := 0
	s := streams.FromSeq(func(yield func(int) bool) {
		for n := 1; n <= 3; n++ {
			produced++
			if !yield(n) {
				return
			}
		}
	})

	it := s.Pull()

	value, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, value)
	assert.Equal(t, 1, produced)
}

func Test_SeqStream_WhenCompleteFiresOnExhaustion(t *testing.T) {
	s := streams.FromSeq(func(yield func(int) bool) {
		yield(1)
	})

	var fired bool
	s.WhenComplete(func(err error) {
		assert.NoError(t, err)
		fired = true
	})

	assert.False(t, fired)

	pullAll(t, s)

	assert.True(t, fired)
}

func Test_SeqStream_IteratorRespectsContextCancellation(t *testing.T) {
	s := streams.FromSeq(func(yield func(int) bool) {
		for n := 0; ; n++ {
			if !yield(n) {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	it := s.Pull()

	_, err := it.Next(ctx)
	require.NoError(t, err)

	cancel()

	_, err = it.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
