package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-twostage/pkg/pipeline/model"
	"github.com/askiada/go-twostage/pkg/pipeline/transfer"
)

type sequenced interface {
	Sequence() uint64
}

// stage is one worker of the pipeline. It consumes its input queue until it pops
// the shutdown marker, which it forwards downstream only when forward is set.
type stage[I sequenced, O any] struct {
	info      *model.StageInfo
	parent    *model.StageInfo
	input     transfer.Queue[model.Message[I]]
	output    transfer.Queue[model.Message[O]]
	processFn func(ctx context.Context, in I) (O, error)
	forward   bool
	delay     time.Duration
	observers []model.Observer
}

func (s *stage[I, O]) run(ctx context.Context) error {
	start := time.Now()
	err := s.loop(ctx)
	for _, obs := range s.observers {
		obsErr := obs.AfterStage(s.info, time.Since(start), err)
		if obsErr != nil && err == nil {
			err = newStageError(s.info.Name, 0, errors.Wrap(obsErr, "unable to run after stage function"))
		}
	}

	return err
}

func (s *stage[I, O]) loop(ctx context.Context) error {
	for {
		startIter := time.Now()
		msg, err := s.input.Pop(ctx)
		if err != nil {
			return s.queueError(0, "input", err)
		}
		if msg.IsShutdown() {
			return s.shutdown(ctx)
		}

		in := msg.Value()
		startFn := time.Now()
		out, err := s.processFn(ctx, in)
		if err != nil {
			return newStageError(s.info.Name, in.Sequence(), err)
		}
		endFn := time.Since(startFn)

		err = s.output.Push(ctx, model.Payload(out))
		if err != nil {
			return s.queueError(in.Sequence(), "output", err)
		}
		for _, obs := range s.observers {
			err = obs.OnStageOutput(s.parent, s.info, in.Sequence(), time.Since(startIter), endFn)
			if err != nil {
				return newStageError(s.info.Name, in.Sequence(), errors.Wrap(err, "unable to run on stage output function"))
			}
		}

		err = s.wait(ctx)
		if err != nil {
			return newStageError(s.info.Name, in.Sequence(), err)
		}
	}
}

func (s *stage[I, O]) shutdown(ctx context.Context) error {
	for _, obs := range s.observers {
		err := obs.OnShutdown(s.info)
		if err != nil {
			return newStageError(s.info.Name, 0, errors.Wrap(err, "unable to run on shutdown function"))
		}
	}
	if !s.forward {
		return nil
	}
	err := s.output.Push(ctx, model.Shutdown[O]())
	if err != nil {
		return s.queueError(0, "output", err)
	}

	return nil
}

// wait simulates load after an item has been handed downstream.
func (s *stage[I, O]) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *stage[I, O]) queueError(seq uint64, direction string, err error) error {
	if errors.Is(err, transfer.ErrClosed) {
		return newStageError(s.info.Name, seq, errors.Wrap(ErrChannelClosed, direction))
	}

	return newStageError(s.info.Name, seq, errors.Wrapf(err, "unable to use %s", direction))
}

func stageAFn(clock Clock, transform Transform) func(context.Context, model.RawItem) (model.StageAResult, error) {
	return func(ctx context.Context, in model.RawItem) (model.StageAResult, error) {
		if in.Seq == 0 || in.ReceivedAt.IsZero() {
			return model.StageAResult{}, errors.Wrap(ErrMalformedItem, "raw item is missing its sequence or receipt time")
		}
		out, err := transform(ctx, in.Payload)
		if err != nil {
			return model.StageAResult{}, errors.Wrap(err, "unable to transform payload")
		}

		return model.StageAResult{
			Seq:             in.Seq,
			OriginalPayload: in.Payload,
			AOutput:         out,
			ReceivedAt:      in.ReceivedAt,
			ProcessedByAAt:  clock.stamp(in.ReceivedAt),
		}, nil
	}
}

func stageBFn(clock Clock, transform Transform) func(context.Context, model.StageAResult) (model.StageBResult, error) {
	return func(ctx context.Context, in model.StageAResult) (model.StageBResult, error) {
		if in.Seq == 0 || in.ReceivedAt.IsZero() || in.ProcessedByAAt.IsZero() {
			return model.StageBResult{}, errors.Wrap(ErrMalformedItem, "stage A result is missing its provenance")
		}
		out, err := transform(ctx, in.AOutput)
		if err != nil {
			return model.StageBResult{}, errors.Wrap(err, "unable to transform stage A output")
		}

		return model.StageBResult{
			StageAResult:   in,
			BOutput:        out,
			ProcessedByBAt: clock.stamp(in.ProcessedByAAt),
		}, nil
	}
}
