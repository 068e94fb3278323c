package streams

import (
	"context"
	"errors"
)

// ErrEndOfStream marks the regular end of a Stream when pulling from its
// Iterator, analogous to io.EOF. It is completion, not failure.
var ErrEndOfStream = errors.New("end of stream")

// Head is the resolved first element of a Stream. Ok is false when the stream
// completed without producing any value, which is an empty result rather than
// a failure.
type Head[T any] struct {
	Value T
	Ok    bool
}

// Iterator is the pull side of a Stream: the consumer asks for one value at a
// time and nothing is computed beyond what is pulled.
//
// Next returns ErrEndOfStream once the stream is exhausted; pulling past the
// end keeps returning it. Once a pull has failed, every later pull re-surfaces
// the same error.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, error)
}

// Stream is a pull-based, composable sequence of values.
//
// Streams are cheap handles: the variants in this package wrap an already
// known value, a pending Future, a materialized slice or a lazily pulled
// sequence, all behind one contract. A failed Stream is terminally poisoned:
// everything derived from it fails with the same error and no value is
// delivered past the poisoning.
type Stream[T any] interface {
	// First resolves to the first value of the stream, ignoring any further
	// values. An empty stream resolves to an empty Head, not a failure.
	First() *Future[Head[T]]

	// Pull returns a fresh Iterator over the stream's values.
	Pull() Iterator[T]

	// WhenComplete registers a side-effecting hook invoked exactly once when
	// the stream reaches success-or-failure completion, without altering the
	// delivered result. Completion is driven by the underlying source: an
	// already materialized or failed stream fires immediately, a lazy one
	// fires when its source is observed to be exhausted.
	WhenComplete(hook func(error)) Stream[T]
}

// Map returns a Stream of transformed values. The transform runs only when a
// value is actually pulled, never eagerly over the whole stream, and is never
// invoked on a failed stream.
func Map[T any, R any](s Stream[T], transform func(T) R) Stream[R] {
	return &mappedStream[T, R]{source: s, transform: transform}
}

// Reduce consumes the entire Stream eagerly, folding left-to-right into one
// asynchronous result. It short-circuits on the first failed pull and settles
// with that failure without invoking the accumulator again.
func Reduce[T any, R any](ctx context.Context, s Stream[T], identity R, accumulator func(R, T) R) *Future[R] {
	result := NewFuture[R]()

	go func() {
		it := s.Pull()
		acc := identity

		for {
			value, err := it.Next(ctx)
			if errors.Is(err, ErrEndOfStream) {
				result.Complete(acc)
				return
			}

			if err != nil {
				result.Fail(err)
				return
			}

			acc = accumulator(acc, value)
		}
	}()

	return result
}

/***** mapped variant *****/

type mappedStream[T any, R any] struct {
	source    Stream[T]
	transform func(T) R
}

func (s *mappedStream[T, R]) First() *Future[Head[R]] {
	return MapFuture(s.source.First(), func(head Head[T]) Head[R] {
		if !head.Ok {
			return Head[R]{}
		}

		return Head[R]{Value: s.transform(head.Value), Ok: true}
	})
}

func (s *mappedStream[T, R]) Pull() Iterator[R] {
	return &mappedIterator[T, R]{inner: s.source.Pull(), transform: s.transform}
}

func (s *mappedStream[T, R]) WhenComplete(hook func(error)) Stream[R] {
	s.source.WhenComplete(hook)
	return s
}

type mappedIterator[T any, R any] struct {
	inner     Iterator[T]
	transform func(T) R
}

func (it *mappedIterator[T, R]) Next(ctx context.Context) (R, error) {
	value, err := it.inner.Next(ctx)
	if err != nil {
		var zero R
		return zero, err
	}

	return it.transform(value), nil
}
