package streams

import (
	"context"
	"iter"
	"sync"
)

/***** finite materialized variant *****/

// FromSlice creates a Stream over an already-computed, bounded sequence.
func FromSlice[T any](values []T) Stream[T] {
	return sliceStream[T]{values: values}
}

// Just creates a Stream wrapping exactly one already-computed value.
func Just[T any](value T) Stream[T] {
	return sliceStream[T]{values: []T{value}}
}

// Empty creates a Stream without values.
func Empty[T any]() Stream[T] {
	return sliceStream[T]{}
}

type sliceStream[T any] struct {
	values []T
}

func (s sliceStream[T]) First() *Future[Head[T]] {
	if len(s.values) == 0 {
		return CompletedFuture(Head[T]{})
	}

	return CompletedFuture(Head[T]{Value: s.values[0], Ok: true})
}

func (s sliceStream[T]) Pull() Iterator[T] {
	return &sliceIterator[T]{values: s.values}
}

// WhenComplete fires immediately: a materialized stream is complete by construction.
func (s sliceStream[T]) WhenComplete(hook func(error)) Stream[T] {
	hook(nil)
	return s
}

type sliceIterator[T any] struct {
	values []T
	next   int
}

func (it *sliceIterator[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if it.next >= len(it.values) {
		return zero, ErrEndOfStream
	}

	value := it.values[it.next]
	it.next++

	return value, nil
}

/***** failed variant *****/

// Failed creates a Stream terminally poisoned with the given error. It carries
// no values; every operation on it and every stream derived from it surfaces
// the identical error.
func Failed[T any](err error) Stream[T] {
	return failedStream[T]{err: err}
}

type failedStream[T any] struct {
	err error
}

func (s failedStream[T]) First() *Future[Head[T]] {
	return FailedFuture[Head[T]](s.err)
}

func (s failedStream[T]) Pull() Iterator[T] {
	return failedIterator[T]{err: s.err}
}

func (s failedStream[T]) WhenComplete(hook func(error)) Stream[T] {
	hook(s.err)
	return s
}

type failedIterator[T any] struct {
	err error
}

func (it failedIterator[T]) Next(_ context.Context) (T, error) {
	var zero T
	return zero, it.err
}

/***** single future value variant *****/

// FromFuture creates a Stream wrapping exactly one value whose computation may
// still be pending. The stream completes when the Future settles.
func FromFuture[T any](source *Future[T]) Stream[T] {
	return &futureStream[T]{source: source}
}

type futureStream[T any] struct {
	source *Future[T]
}

func (s *futureStream[T]) First() *Future[Head[T]] {
	return MapFuture(s.source, func(value T) Head[T] {
		return Head[T]{Value: value, Ok: true}
	})
}

func (s *futureStream[T]) Pull() Iterator[T] {
	return &futureIterator[T]{source: s.source}
}

func (s *futureStream[T]) WhenComplete(hook func(error)) Stream[T] {
	s.source.OnComplete(func(_ T, err error) {
		hook(err)
	})

	return s
}

type futureIterator[T any] struct {
	source   *Future[T]
	consumed bool
}

func (it *futureIterator[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if it.consumed {
		return zero, ErrEndOfStream
	}

	value, err := it.source.Await(ctx)
	if err != nil {
		// not marked consumed: a failed source re-surfaces its error on every pull
		return zero, err
	}

	it.consumed = true

	return value, nil
}

/***** lazily pulled sequence variant *****/

// FromSeq creates a Stream over a lazily pulled sequence. Values are produced
// one at a time as the consumer pulls; an abandoned Iterator releases the
// sequence and holds no further resources.
func FromSeq[T any](seq iter.Seq[T]) Stream[T] {
	return &seqStream[T]{seq: seq}
}

type seqStream[T any] struct {
	seq      iter.Seq[T]
	mu       sync.Mutex
	complete bool
	hooks    []func(error)
}

func (s *seqStream[T]) First() *Future[Head[T]] {
	next, stop := iter.Pull(s.seq)
	defer stop()

	value, ok := next()
	if !ok {
		s.signalComplete()
		return CompletedFuture(Head[T]{})
	}

	return CompletedFuture(Head[T]{Value: value, Ok: true})
}

func (s *seqStream[T]) Pull() Iterator[T] {
	next, stop := iter.Pull(s.seq)

	return &seqIterator[T]{stream: s, next: next, stop: stop}
}

// WhenComplete fires once the sequence is observed to be exhausted. A lazily
// pulled sequence has no completion signal other than consumption, so the hook
// fires only when some consumer reaches the end.
func (s *seqStream[T]) WhenComplete(hook func(error)) Stream[T] {
	s.mu.Lock()
	if s.complete {
		s.mu.Unlock()
		hook(nil)

		return s
	}

	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()

	return s
}

func (s *seqStream[T]) signalComplete() {
	s.mu.Lock()
	if s.complete {
		s.mu.Unlock()
		return
	}

	s.complete = true
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(nil)
	}
}

type seqIterator[T any] struct {
	stream    *seqStream[T]
	next      func() (T, bool)
	stop      func()
	exhausted bool
}

func (it *seqIterator[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if it.exhausted {
		return zero, ErrEndOfStream
	}

	value, ok := it.next()
	if !ok {
		it.exhausted = true
		it.stop()
		it.stream.signalComplete()

		return zero, ErrEndOfStream
	}

	return value, nil
}
