// Package drawer renders the stages of a run as a graph.
package drawer

import (
	"time"

	"github.com/askiada/go-twostage/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStage adds a stage to the pipeline drawer.
	AddStage(stageName string, capacity int) error
	// AddLink adds a link between parent and children stages.
	AddLink(parentStageName, childrenStageName string) error
	// Draw writes the pipeline graph.
	Draw() error
	// SetTotalTime sets the total time of the stage.
	SetTotalTime(stageName string, totalTime time.Duration) error
	// AddMeasure adds the measured durations to the graph.
	AddMeasure(measure measure.Measure) error
}
