package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMalformedItem      = errors.New("malformed item")
	ErrChannelClosed      = errors.New("channel closed unexpectedly")
	ErrUnexpectedShutdown = errors.New("unexpected shutdown marker")
	ErrNotRunning         = errors.New("pipeline is not running")
	ErrAlreadyStarted     = errors.New("pipeline already started")
	ErrInvalidOption      = errors.New("invalid pipeline option")
)

// StageError reports the stage that failed and the sequence number of the item
// it was handling. Seq is zero when the failure is not tied to an item.
type StageError struct {
	Stage string
	Seq   uint64
	Err   error
}

func newStageError(stage string, seq uint64, err error) *StageError {
	return &StageError{
		Stage: stage,
		Seq:   seq,
		Err:   err,
	}
}

func (e *StageError) Error() string {
	if e.Seq == 0 {
		return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
	}

	return fmt.Sprintf("stage %s: item %d: %v", e.Stage, e.Seq, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
