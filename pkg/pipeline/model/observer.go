package model

import "time"

// Observer receives the lifecycle events of a pipeline run. Hooks fired from
// the stage workers may be called concurrently.
type Observer interface {
	// New initialises the observer for the run.
	New(runID string) error
	// PrepareStage runs once per stage before the run starts.
	PrepareStage(parentStage, stage *StageInfo) error
	// OnTransition runs every time the run changes state.
	OnTransition(from, to State) error
	// OnStageOutput runs every time a stage pushes a record downstream.
	OnStageOutput(parentStage, stage *StageInfo, seq uint64, iterationDuration, computationDuration time.Duration) error
	// OnShutdown runs when a stage pops the shutdown marker.
	OnShutdown(stage *StageInfo) error
	// AfterStage runs when a stage worker returns.
	AfterStage(stage *StageInfo, totalDuration time.Duration, err error) error
	// Finish runs after the run is terminated.
	Finish() error
}

// NopObserver implements Observer with no-op hooks. Embed it to implement
// only the hooks you need.
type NopObserver struct{}

func (NopObserver) New(string) error                    { return nil }
func (NopObserver) PrepareStage(_, _ *StageInfo) error  { return nil }
func (NopObserver) OnTransition(_, _ State) error       { return nil }
func (NopObserver) OnShutdown(*StageInfo) error         { return nil }
func (NopObserver) Finish() error                       { return nil }
func (NopObserver) AfterStage(*StageInfo, time.Duration, error) error {
	return nil
}

func (NopObserver) OnStageOutput(_, _ *StageInfo, _ uint64, _, _ time.Duration) error {
	return nil
}

var _ Observer = NopObserver{}
