package pipeline_test

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/askiada/go-twostage/pkg/pipeline/model"
)

func createPayloads(t *testing.T, total int) []string {
	t.Helper()
	payloads := make([]string, total)
	for i := range payloads {
		payloads[i] = "Item-" + strconv.Itoa(i)
	}

	return payloads
}

// tickingClock moves forward by step every time it is read.
type tickingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newTickingClock(step time.Duration) *tickingClock {
	return &tickingClock{
		now:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)

	return c.now
}

type recordingObserver struct {
	model.NopObserver
	mu          sync.Mutex
	runID       string
	prepared    []string
	transitions []model.State
	outputs     map[string][]uint64
	shutdowns   []string
	finished    []string
	failures    map[string]error
	finish      int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		outputs:  make(map[string][]uint64),
		failures: make(map[string]error),
	}
}

func (r *recordingObserver) New(runID string) error {
	r.runID = runID

	return nil
}

func (r *recordingObserver) PrepareStage(parentStage, stage *model.StageInfo) error {
	r.prepared = append(r.prepared, parentStage.Name+"->"+stage.Name)

	return nil
}

func (r *recordingObserver) OnTransition(_, to model.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, to)

	return nil
}

func (r *recordingObserver) OnStageOutput(_, stage *model.StageInfo, seq uint64, _, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[stage.Name] = append(r.outputs[stage.Name], seq)

	return nil
}

func (r *recordingObserver) OnShutdown(stage *model.StageInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdowns = append(r.shutdowns, stage.Name)

	return nil
}

func (r *recordingObserver) AfterStage(stage *model.StageInfo, _ time.Duration, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, stage.Name)
	if err != nil {
		r.failures[stage.Name] = err
	}

	return nil
}

func (r *recordingObserver) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finish++

	return nil
}
