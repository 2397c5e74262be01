// Package transfer provides the FIFO queues connecting pipeline stages.
//
// A queue has exactly one producer and one consumer. Push blocks while the queue is
// full, Pop blocks while it is empty, and both give up when their context is done or
// the queue is closed. Items are never dropped nor duplicated: a closed queue still
// hands out the items it buffered before closing.
package transfer

import (
	"context"

	"github.com/pkg/errors"
)

// Unbounded is the capacity of a queue that never blocks on Push.
const Unbounded = -1

var (
	ErrClosed          = errors.New("transfer queue closed")
	ErrInvalidCapacity = errors.New("capacity must be positive, zero or Unbounded")
)

// Queue is a FIFO queue safe for one producer and one consumer.
type Queue[T any] interface {
	// Push enqueues v, blocking while the queue is at capacity.
	Push(ctx context.Context, v T) error
	// Pop dequeues the oldest item, blocking until one is available.
	Pop(ctx context.Context) (T, error)
	// TryPop dequeues the oldest item if there is one, without blocking.
	TryPop() (T, bool)
	// Close stops the queue from accepting items. It is safe to call more than once.
	Close()
	// Len returns the number of buffered items.
	Len() int
	// Cap returns the configured capacity.
	Cap() int
}

// New creates a queue. A positive capacity bounds the queue, zero makes every
// Push wait for the matching Pop and Unbounded never blocks the producer.
func New[T any](capacity int) (Queue[T], error) {
	switch {
	case capacity == Unbounded:
		return newUnbounded[T](), nil
	case capacity >= 0:
		return newBounded[T](capacity), nil
	default:
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
}
