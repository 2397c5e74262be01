package transfer

import (
	"context"
	"sync"
)

type bounded[T any] struct {
	items     chan T
	done      chan struct{}
	closeOnce sync.Once
	capacity  int
}

func newBounded[T any](capacity int) *bounded[T] {
	return &bounded[T]{
		items:    make(chan T, capacity),
		done:     make(chan struct{}),
		capacity: capacity,
	}
}

func (b *bounded[T]) Push(ctx context.Context, v T) error {
	// a closed queue must refuse items even when there is room left
	select {
	case <-b.done:
		return ErrClosed
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return ErrClosed
	case b.items <- v:
		return nil
	}
}

func (b *bounded[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case v := <-b.items:
		return v, nil
	case <-b.done:
		if v, ok := b.TryPop(); ok {
			return v, nil
		}

		return zero, ErrClosed
	}
}

func (b *bounded[T]) TryPop() (T, bool) {
	select {
	case v := <-b.items:
		return v, true
	default:
		var zero T

		return zero, false
	}
}

func (b *bounded[T]) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

func (b *bounded[T]) Len() int { return len(b.items) }

func (b *bounded[T]) Cap() int { return b.capacity }

var _ Queue[int] = (*bounded[int])(nil)
