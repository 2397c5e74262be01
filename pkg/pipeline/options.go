package pipeline

import (
	"time"

	"github.com/askiada/go-twostage/pkg/pipeline/model"
	"github.com/askiada/go-twostage/pkg/pipeline/transfer"
)

type settings struct {
	delay      time.Duration
	capacity   int
	clock      Clock
	transformA Transform
	transformB Transform
	observers  []model.Observer
}

func defaultSettings() settings {
	return settings{
		capacity:   transfer.Unbounded,
		clock:      time.Now,
		transformA: CaseFold,
		transformB: ROT13,
	}
}

// Option configures a Pipeline.
type Option func(s *settings)

// WithStageDelay makes stage A pause after each item it forwards.
func WithStageDelay(delay time.Duration) Option {
	return func(s *settings) {
		s.delay = delay
	}
}

// WithCapacity bounds the queues feeding stage A and stage B.
// Use transfer.Unbounded to never block the producer.
func WithCapacity(capacity int) Option {
	return func(s *settings) {
		s.capacity = capacity
	}
}

func WithClock(clock Clock) Option {
	return func(s *settings) {
		s.clock = clock
	}
}

func WithStageATransform(transform Transform) Option {
	return func(s *settings) {
		s.transformA = transform
	}
}

func WithStageBTransform(transform Transform) Option {
	return func(s *settings) {
		s.transformB = transform
	}
}

// WithObservers registers observers notified of the run lifecycle.
func WithObservers(observers ...model.Observer) Option {
	return func(s *settings) {
		s.observers = append(s.observers, observers...)
	}
}
