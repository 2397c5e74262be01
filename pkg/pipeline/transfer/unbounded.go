package transfer

import (
	"context"
	"sync"
)

type unbounded[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	// ready holds a token while items is not empty or the queue is closed.
	ready chan struct{}
}

func newUnbounded[T any]() *unbounded[T] {
	return &unbounded[T]{
		ready: make(chan struct{}, 1),
	}
}

func (u *unbounded[T]) signal() {
	select {
	case u.ready <- struct{}{}:
	default:
	}
}

func (u *unbounded[T]) Push(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	u.items = append(u.items, v)
	u.signal()

	return nil
}

func (u *unbounded[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	for {
		u.mu.Lock()
		if len(u.items) > 0 {
			v := u.shift()
			u.mu.Unlock()

			return v, nil
		}
		if u.closed {
			u.mu.Unlock()

			return zero, ErrClosed
		}
		u.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-u.ready:
		}
	}
}

// shift must be called with mu held and items not empty.
func (u *unbounded[T]) shift() T {
	var zero T
	v := u.items[0]
	u.items[0] = zero
	u.items = u.items[1:]
	if len(u.items) > 0 || u.closed {
		u.signal()
	}

	return v
}

func (u *unbounded[T]) TryPop() (T, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.items) == 0 {
		var zero T

		return zero, false
	}

	return u.shift(), true
}

func (u *unbounded[T]) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closed = true
	u.signal()
}

func (u *unbounded[T]) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return len(u.items)
}

func (u *unbounded[T]) Cap() int { return Unbounded }

var _ Queue[int] = (*unbounded[int])(nil)
