package measure

import (
	"time"

	"github.com/askiada/go-twostage/pkg/pipeline/model"
)

type pipelineMeasure struct {
	model.NopObserver
	Measure
}

func (pm *pipelineMeasure) New(string) error {
	pm.AddMetric(model.ProducerStage.Name, 0)

	return nil
}

func (pm *pipelineMeasure) PrepareStage(_, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name, stage.Capacity)

	return nil
}

func (pm *pipelineMeasure) OnStageOutput(parentStage, stage *model.StageInfo, _ uint64, iterationDuration, computationDuration time.Duration) error {
	mt := pm.GetMetric(stage.Name)
	if mt == nil {
		return nil
	}
	mt.AddDuration(computationDuration)
	mt.AddTransportDuration(parentStage.Name, iterationDuration)

	return nil
}

func (pm *pipelineMeasure) AfterStage(stage *model.StageInfo, totalDuration time.Duration, _ error) error {
	mt := pm.GetMetric(stage.Name)
	if mt == nil {
		return nil
	}
	mt.SetTotalDuration(totalDuration)

	return nil
}

// PipelineMeasure returns an observer filling measure with the durations of a run.
func PipelineMeasure(measure Measure) model.Observer {
	return &pipelineMeasure{Measure: measure}
}
