package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/askiada/go-twostage/pkg/pipeline/model"
)

type observer struct {
	model.NopObserver
	base   *zap.Logger
	logger *zap.Logger
}

// NewObserver returns an observer logging the lifecycle of a run to l.
func NewObserver(l *zap.Logger) model.Observer {
	return &observer{base: l, logger: l}
}

func (o *observer) New(runID string) error {
	o.logger = o.base.With(zap.String(FieldRunID, runID))

	return nil
}

func (o *observer) PrepareStage(parentStage, stage *model.StageInfo) error {
	o.logger.Debug("stage prepared",
		zap.String(FieldStage, stage.Name),
		zap.String(FieldParent, parentStage.Name),
		zap.Int(FieldCapacity, stage.Capacity),
	)

	return nil
}

func (o *observer) OnTransition(from, to model.State) error {
	o.logger.Info("pipeline state changed",
		zap.Stringer(FieldFrom, from),
		zap.Stringer(FieldState, to),
	)

	return nil
}

func (o *observer) OnStageOutput(_, stage *model.StageInfo, seq uint64, iterationDuration, computationDuration time.Duration) error {
	o.logger.Debug("item processed",
		zap.String(FieldStage, stage.Name),
		zap.Uint64(FieldSeq, seq),
		zap.Int64(FieldDurationMS, computationDuration.Milliseconds()),
		zap.Int64(FieldWaitMS, (iterationDuration-computationDuration).Milliseconds()),
	)

	return nil
}

func (o *observer) OnShutdown(stage *model.StageInfo) error {
	o.logger.Debug("shutdown received", zap.String(FieldStage, stage.Name))

	return nil
}

func (o *observer) AfterStage(stage *model.StageInfo, totalDuration time.Duration, err error) error {
	if err != nil {
		o.logger.Error("stage failed",
			zap.String(FieldStage, stage.Name),
			zap.Int64(FieldDurationMS, totalDuration.Milliseconds()),
			zap.Error(err),
		)

		return nil
	}
	o.logger.Info("stage finished",
		zap.String(FieldStage, stage.Name),
		zap.Int64(FieldDurationMS, totalDuration.Milliseconds()),
	)

	return nil
}

func (o *observer) Finish() error {
	// Sync fails on terminals and pipes, nothing to report there.
	_ = o.logger.Sync()

	return nil
}
