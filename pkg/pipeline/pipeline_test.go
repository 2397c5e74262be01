package pipeline_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-twostage/pkg/pipeline"
	"github.com/askiada/go-twostage/pkg/pipeline/model"
	"github.com/askiada/go-twostage/pkg/pipeline/transfer"
)

func TestRun(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	records, err := pipe.Run(t.Context(), pipeline.NewSliceSource("A", "B", "C"))
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, want := range []struct{ in, a, b string }{
		{in: "A", a: "a", b: "n"},
		{in: "B", a: "b", b: "o"},
		{in: "C", a: "c", b: "p"},
	} {
		assert.Equal(t, uint64(i+1), records[i].Seq)
		assert.Equal(t, want.in, records[i].OriginalPayload)
		assert.Equal(t, want.a, records[i].AOutput)
		assert.Equal(t, want.b, records[i].BOutput)
	}
	assert.Equal(t, model.Terminated, pipe.State())
	assert.Equal(t, records, pipe.Results())
	assert.NotEmpty(t, pipe.RunID())
}

func TestRunCountAndOrder(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		capacity int
	}{
		"rendezvous": {capacity: 0},
		"single":     {capacity: 1},
		"bounded 16": {capacity: 16},
		"unbounded":  {capacity: transfer.Unbounded},
	}

	payloads := createPayloads(t, 200)
	reference, err := pipeline.New()
	require.NoError(t, err)
	want, err := reference.Run(t.Context(), pipeline.NewSliceSource(payloads...))
	require.NoError(t, err)
	require.Len(t, want, len(payloads))

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New(pipeline.WithCapacity(tc.capacity))
			require.NoError(t, err)
			got, err := pipe.Run(t.Context(), pipeline.NewSliceSource(payloads...))
			require.NoError(t, err)
			require.Len(t, got, len(payloads))

			for i := range got {
				assert.Equal(t, uint64(i+1), got[i].Seq)
				assert.Equal(t, payloads[i], got[i].OriginalPayload)
				assert.Equal(t, want[i].AOutput, got[i].AOutput)
				assert.Equal(t, want[i].BOutput, got[i].BOutput)
			}
		})
	}
}

func TestProvenanceIsMonotonic(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		step time.Duration
	}{
		"forward":  {step: time.Millisecond},
		"frozen":   {step: 0},
		"backward": {step: -time.Second},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			clock := newTickingClock(tc.step)
			pipe, err := pipeline.New(pipeline.WithClock(clock.Now))
			require.NoError(t, err)
			records, err := pipe.Run(t.Context(), pipeline.NewSliceSource(createPayloads(t, 50)...))
			require.NoError(t, err)
			require.Len(t, records, 50)

			for _, record := range records {
				assert.False(t, record.ProcessedByAAt.Before(record.ReceivedAt))
				assert.False(t, record.ProcessedByBAt.Before(record.ProcessedByAAt))
				assert.GreaterOrEqual(t, record.Latency(), time.Duration(0))
			}
		})
	}
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(pipeline.WithCapacity(0))
	require.NoError(t, err)
	require.NoError(t, pipe.Start(t.Context()))

	records, err := pipe.Stop(t.Context())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, model.Terminated, pipe.State())
}

func TestStopKeepsInFlightItems(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(pipeline.WithStageDelay(2 * time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, pipe.Start(t.Context()))

	payloads := createPayloads(t, 20)
	for _, payload := range payloads {
		require.NoError(t, pipe.Submit(t.Context(), payload))
	}

	records, err := pipe.Stop(t.Context())
	require.NoError(t, err)
	require.Len(t, records, len(payloads))
	for i, record := range records {
		assert.Equal(t, payloads[i], record.OriginalPayload)
	}
}

func TestStageDelayDoesNotBlockSubmit(t *testing.T) {
	t.Parallel()

	delay := 50 * time.Millisecond
	pipe, err := pipeline.New(pipeline.WithStageDelay(delay))
	require.NoError(t, err)
	require.NoError(t, pipe.Start(t.Context()))

	start := time.Now()
	for _, payload := range createPayloads(t, 5) {
		require.NoError(t, pipe.Submit(t.Context(), payload))
	}
	assert.Less(t, time.Since(start), delay)

	records, err := pipe.Stop(t.Context())
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.GreaterOrEqual(t, time.Since(start), 4*delay)
}

func TestSentinelTextIsAPayload(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	require.NoError(t, pipe.Start(t.Context()))
	require.NoError(t, pipe.Submit(t.Context(), "done"))
	require.NoError(t, pipe.Submit(t.Context(), "after"))

	records, err := pipe.Stop(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "qbar", records[0].BOutput)
}

func TestRunLineSource(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	src := pipeline.NewLineSource(strings.NewReader("Hello\nWorld\ndone\nignored\n"), "done")

	records, err := pipe.Run(t.Context(), src)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "uryyb", records[0].BOutput)
	assert.Equal(t, "jbeyq", records[1].BOutput)
}

type failingSource struct {
	sent bool
}

func (f *failingSource) Next() (string, bool, error) {
	if !f.sent {
		f.sent = true

		return "first", true, nil
	}

	return "", false, assert.AnError
}

func TestRunSourceError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	records, err := pipe.Run(t.Context(), &failingSource{})
	require.ErrorIs(t, err, assert.AnError)
	require.Len(t, records, 1)
	assert.Equal(t, model.Terminated, pipe.State())
}

func TestStateMachine(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	obs := newRecordingObserver()
	pipe, err := pipeline.New(pipeline.WithObservers(obs))
	require.NoError(t, err)
	assert.Equal(t, model.Created, pipe.State())

	require.ErrorIs(t, pipe.Submit(ctx, "early"), pipeline.ErrNotRunning)
	_, err = pipe.Stop(ctx)
	require.ErrorIs(t, err, pipeline.ErrNotRunning)

	require.NoError(t, pipe.Start(ctx))
	assert.Equal(t, model.Running, pipe.State())
	require.ErrorIs(t, pipe.Start(ctx), pipeline.ErrAlreadyStarted)
	require.NoError(t, pipe.Submit(ctx, "x"))

	records, err := pipe.Stop(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.Terminated, pipe.State())

	require.ErrorIs(t, pipe.Submit(ctx, "late"), pipeline.ErrNotRunning)
	require.ErrorIs(t, pipe.Start(ctx), pipeline.ErrAlreadyStarted)
	again, err := pipe.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, again)

	assert.Equal(t, []model.State{model.Running, model.Draining, model.Terminated}, obs.transitions)
	assert.Equal(t, 1, obs.finish)
}

func TestObserversNotified(t *testing.T) {
	t.Parallel()

	obs := newRecordingObserver()
	pipe, err := pipeline.New(pipeline.WithObservers(obs), pipeline.WithCapacity(2))
	require.NoError(t, err)

	_, err = pipe.Run(t.Context(), pipeline.NewSliceSource("a", "b", "c"))
	require.NoError(t, err)

	assert.Equal(t, pipe.RunID(), obs.runID)
	assert.Equal(t, []string{"producer->stage-a", "stage-a->stage-b", "stage-b->sink"}, obs.prepared)
	assert.Equal(t, []uint64{1, 2, 3}, obs.outputs[model.StageA.Name])
	assert.Equal(t, []uint64{1, 2, 3}, obs.outputs[model.StageB.Name])
	assert.ElementsMatch(t, []string{model.StageA.Name, model.StageB.Name}, obs.shutdowns)
	assert.ElementsMatch(t, []string{model.StageA.Name, model.StageB.Name}, obs.finished)
	assert.Empty(t, obs.failures)
}

func TestStageFailure(t *testing.T) {
	t.Parallel()

	failOn := func(payload string) pipeline.Transform {
		return func(_ context.Context, in string) (string, error) {
			if in == payload {
				return "", assert.AnError
			}

			return in, nil
		}
	}

	tcs := map[string]struct {
		opts  []pipeline.Option
		stage string
	}{
		"stage a": {opts: []pipeline.Option{pipeline.WithStageATransform(failOn("bad"))}, stage: model.StageA.Name},
		"stage b": {opts: []pipeline.Option{pipeline.WithStageBTransform(failOn("bad"))}, stage: model.StageB.Name},
		"stage a bounded": {
			opts:  []pipeline.Option{pipeline.WithCapacity(0), pipeline.WithStageATransform(failOn("bad"))},
			stage: model.StageA.Name,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			obs := newRecordingObserver()
			pipe, err := pipeline.New(append(tc.opts, pipeline.WithObservers(obs))...)
			require.NoError(t, err)

			payloads := append([]string{"ok", "bad"}, createPayloads(t, 50)...)
			_, err = pipe.Run(t.Context(), pipeline.NewSliceSource(payloads...))
			require.ErrorIs(t, err, assert.AnError)

			var stageErr *pipeline.StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tc.stage, stageErr.Stage)
			assert.Equal(t, uint64(2), stageErr.Seq)
			assert.Equal(t, model.Terminated, pipe.State())
			assert.Contains(t, obs.failures, tc.stage)
		})
	}
}

func TestSubmitAfterFailure(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(pipeline.WithStageATransform(func(context.Context, string) (string, error) {
		return "", assert.AnError
	}))
	require.NoError(t, err)
	require.NoError(t, pipe.Start(t.Context()))
	require.NoError(t, pipe.Submit(t.Context(), "boom"))

	require.Eventually(t, func() bool {
		return pipe.Submit(t.Context(), "next") != nil
	}, time.Second, time.Millisecond)
	require.ErrorIs(t, pipe.Submit(t.Context(), "next"), assert.AnError)

	_, err = pipe.Stop(t.Context())
	require.ErrorIs(t, err, assert.AnError)
}

func TestStopTimeout(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(pipeline.WithStageDelay(200 * time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, pipe.Start(t.Context()))
	require.NoError(t, pipe.Submit(t.Context(), "slow"))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	_, err = pipe.Stop(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, model.Draining, pipe.State())
	require.ErrorIs(t, pipe.Submit(t.Context(), "late"), pipeline.ErrNotRunning)

	records, err := pipe.Stop(t.Context())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStartContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	pipe, err := pipeline.New(pipeline.WithStageDelay(time.Hour))
	require.NoError(t, err)
	require.NoError(t, pipe.Start(ctx))
	require.NoError(t, pipe.Submit(ctx, "x"))
	cancel()

	_, err = pipe.Stop(t.Context())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.Terminated, pipe.State())
}

func TestNewInvalidOptions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opt pipeline.Option
	}{
		"negative delay":  {opt: pipeline.WithStageDelay(-time.Second)},
		"capacity":        {opt: pipeline.WithCapacity(-2)},
		"nil clock":       {opt: pipeline.WithClock(nil)},
		"nil transform a": {opt: pipeline.WithStageATransform(nil)},
		"nil transform b": {opt: pipeline.WithStageBTransform(nil)},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := pipeline.New(tc.opt)
			require.ErrorIs(t, err, pipeline.ErrInvalidOption)
		})
	}
}

type brokenObserver struct {
	model.NopObserver
}

func (brokenObserver) New(string) error { return assert.AnError }

func TestNewObserverError(t *testing.T) {
	t.Parallel()

	_, err := pipeline.New(pipeline.WithObservers(brokenObserver{}))
	require.ErrorIs(t, err, assert.AnError)
}
