package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-twostage/pkg/pipeline/measure"
	"github.com/askiada/go-twostage/pkg/pipeline/model"
)

type pipelineDrawer struct {
	model.NopObserver
	Drawer
	m         measure.Measure
	startTime time.Time
}

func (pd *pipelineDrawer) New(string) error {
	pd.startTime = time.Now()
	err := pd.AddStage(model.ProducerStage.Name, model.ProducerStage.Capacity)
	if err != nil {
		return errors.Wrap(err, "unable to add producer stage to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStage(parentStage, stage *model.StageInfo) error {
	err := pd.AddStage(stage.Name, stage.Capacity)
	if err != nil {
		return err
	}

	return pd.AddLink(parentStage.Name, stage.Name)
}

func (pd *pipelineDrawer) Finish() error {
	err := pd.SetTotalTime(model.SinkStage.Name, time.Since(pd.startTime))
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}
	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer returns an observer drawing the run once it is terminated.
// measure may be nil.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.Observer {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
