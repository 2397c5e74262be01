package pipeline

import (
	"sync"

	"github.com/askiada/go-twostage/pkg/pipeline/model"
	"github.com/askiada/go-twostage/pkg/pipeline/transfer"
)

// Sink collects the final records of a run in arrival order.
type Sink struct {
	mu      sync.Mutex
	records []model.StageBResult
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Add(record model.StageBResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

// Drain moves every buffered record of output to the sink without blocking.
// A shutdown marker in the output queue is a protocol violation: it is reported
// once the queue is empty.
func (s *Sink) Drain(output transfer.Queue[model.Message[model.StageBResult]]) error {
	var err error
	for {
		msg, ok := output.TryPop()
		if !ok {
			return err
		}
		if msg.IsShutdown() {
			if err == nil {
				err = newStageError(model.SinkStage.Name, 0, ErrUnexpectedShutdown)
			}

			continue
		}
		s.Add(msg.Value())
	}
}

// Records returns a copy of the collected records.
func (s *Sink) Records() []model.StageBResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]model.StageBResult, len(s.records))
	copy(records, s.records)

	return records
}

func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}
