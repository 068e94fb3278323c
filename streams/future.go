package streams

import (
	"context"
	"sync"
)

// Future is a single asynchronous result: it settles exactly once, either with
// a value or with an error, and every observer sees the same outcome.
//
// The zero value is not usable; construct with NewFuture, CompletedFuture or
// FailedFuture.
type Future[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	value   T
	err     error
	settled bool
	hooks   []func(T, error)
}

// NewFuture creates a pending Future to be settled with Complete or Fail.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// CompletedFuture creates a Future already settled with the given value.
func CompletedFuture[T any](value T) *Future[T] {
	future := NewFuture[T]()
	future.Complete(value)

	return future
}

// FailedFuture creates a Future already settled with the given error.
func FailedFuture[T any](err error) *Future[T] {
	future := NewFuture[T]()
	future.Fail(err)

	return future
}

// Complete settles the Future with a value. It reports whether this call
// settled it; later calls lose against the first outcome.
func (f *Future[T]) Complete(value T) bool {
	return f.settle(value, nil)
}

// Fail settles the Future with an error. It reports whether this call settled
// it; later calls lose against the first outcome.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.settle(zero, err)
}

func (f *Future[T]) settle(value T, err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}

	f.value = value
	f.err = err
	f.settled = true
	hooks := f.hooks
	f.hooks = nil
	close(f.done)
	f.mu.Unlock()

	for _, hook := range hooks {
		hook(value, err)
	}

	return true
}

// Await blocks until the Future settles or the context is canceled.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the Future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// OnComplete registers a hook invoked exactly once with the Future's outcome.
// A hook registered after settlement is invoked immediately on the caller's
// goroutine.
func (f *Future[T]) OnComplete(hook func(T, error)) {
	f.mu.Lock()
	if f.settled {
		value, err := f.value, f.err
		f.mu.Unlock()
		hook(value, err)

		return
	}

	f.hooks = append(f.hooks, hook)
	f.mu.Unlock()
}

// MapFuture derives a Future carrying the transformed value. The transform is
// never invoked when the source fails; the failure passes through unchanged.
func MapFuture[T any, R any](f *Future[T], transform func(T) R) *Future[R] {
	derived := NewFuture[R]()

	f.OnComplete(func(value T, err error) {
		if err != nil {
			derived.Fail(err)
			return
		}

		derived.Complete(transform(value))
	})

	return derived
}
