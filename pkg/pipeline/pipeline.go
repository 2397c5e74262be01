package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-twostage/pkg/pipeline/model"
	"github.com/askiada/go-twostage/pkg/pipeline/transfer"
)

// Pipeline coordinates one run of the two stages. A Pipeline cannot be restarted
// once it is terminated.
type Pipeline struct {
	// mu is held for reading by Submit while it pushes, so a state change
	// never happens in the middle of a submission.
	mu       sync.RWMutex
	settings settings
	runID    string
	state    model.State
	seq      atomic.Uint64

	input  transfer.Queue[model.Message[model.RawItem]]
	middle transfer.Queue[model.Message[model.StageAResult]]
	output transfer.Queue[model.Message[model.StageBResult]]
	sink   *Sink
	infoA  *model.StageInfo
	infoB  *model.StageInfo

	cancel       context.CancelFunc
	shutdownSent bool
	hookErr      error
	runErr       error

	// done is closed once both stages returned. err is set before.
	done chan struct{}
	err  error
}

// New creates a pipeline and its three queues.
func New(opts ...Option) (*Pipeline, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	err := cfg.validate()
	if err != nil {
		return nil, err
	}

	input, err := transfer.New[model.Message[model.RawItem]](cfg.capacity)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create stage A input")
	}
	middle, err := transfer.New[model.Message[model.StageAResult]](cfg.capacity)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create stage B input")
	}
	// the output is drained by the coordinator only after both stages returned
	output, err := transfer.New[model.Message[model.StageBResult]](transfer.Unbounded)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create output")
	}

	pipe := &Pipeline{
		settings: cfg,
		runID:    uuid.NewString(),
		state:    model.Created,
		input:    input,
		middle:   middle,
		output:   output,
		sink:     NewSink(),
		done:     make(chan struct{}),
	}

	err = pipe.prepareObservers()
	if err != nil {
		return nil, err
	}

	return pipe, nil
}

func (s settings) validate() error {
	switch {
	case s.delay < 0:
		return errors.Wrapf(ErrInvalidOption, "stage delay %s is negative", s.delay)
	case s.capacity < transfer.Unbounded:
		return errors.Wrapf(ErrInvalidOption, "capacity %d", s.capacity)
	case s.clock == nil:
		return errors.Wrap(ErrInvalidOption, "clock must be set")
	case s.transformA == nil || s.transformB == nil:
		return errors.Wrap(ErrInvalidOption, "stage transforms must be set")
	}

	return nil
}

func (p *Pipeline) prepareObservers() error {
	stageA := *model.StageA
	stageA.Capacity = p.input.Cap()
	p.infoA = &stageA
	stageB := *model.StageB
	stageB.Capacity = p.middle.Cap()
	p.infoB = &stageB
	sink := *model.SinkStage
	sink.Capacity = p.output.Cap()

	for _, obs := range p.settings.observers {
		err := obs.New(p.runID)
		if err != nil {
			return errors.Wrap(err, "unable to initialise observer")
		}
		for _, link := range [][2]*model.StageInfo{
			{model.ProducerStage, &stageA},
			{&stageA, &stageB},
			{&stageB, &sink},
		} {
			err = obs.PrepareStage(link[0], link[1])
			if err != nil {
				return errors.Wrapf(err, "unable to prepare stage %s", link[1].Name)
			}
		}
	}

	return nil
}

// RunID identifies the run in logs and observers.
func (p *Pipeline) RunID() string {
	return p.runID
}

// State returns the current state of the run.
func (p *Pipeline) State() model.State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state
}

// transition must be called with mu held for writing.
func (p *Pipeline) transition(to model.State) {
	from := p.state
	p.state = to
	for _, obs := range p.settings.observers {
		err := obs.OnTransition(from, to)
		if err != nil && p.hookErr == nil {
			p.hookErr = errors.Wrapf(err, "unable to run transition function from %s to %s", from, to)
		}
	}
}

// Start launches stage A and stage B. Cancelling ctx aborts the run and may lose
// in-flight items, use Stop to terminate cleanly.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != model.Created {
		return errors.Wrapf(ErrAlreadyStarted, "state %s", p.state)
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	errGrp, dCtx := errgroup.WithContext(runCtx)

	stageA := &stage[model.RawItem, model.StageAResult]{
		info:      p.infoA,
		parent:    model.ProducerStage,
		input:     p.input,
		output:    p.middle,
		processFn: stageAFn(p.settings.clock, p.settings.transformA),
		forward:   true,
		delay:     p.settings.delay,
		observers: p.settings.observers,
	}
	stageB := &stage[model.StageAResult, model.StageBResult]{
		info:      p.infoB,
		parent:    p.infoA,
		input:     p.middle,
		output:    p.output,
		processFn: stageBFn(p.settings.clock, p.settings.transformB),
		observers: p.settings.observers,
	}
	errGrp.Go(func() error { return stageA.run(dCtx) })
	errGrp.Go(func() error { return stageB.run(dCtx) })

	go func() {
		p.err = errGrp.Wait()
		close(p.done)
		// a failed stage must not leave the producer or its peer blocked
		p.input.Close()
		p.middle.Close()
		p.output.Close()
	}()

	p.transition(model.Running)

	return nil
}

// failure returns the error of the stages if they already returned.
func (p *Pipeline) failure() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Submit tags payload with its receipt time and hands it to stage A. It blocks
// while the stage A queue is full.
func (p *Pipeline) Submit(ctx context.Context, payload string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state != model.Running {
		return errors.Wrapf(ErrNotRunning, "state %s", p.state)
	}
	err := p.failure()
	if err != nil {
		return err
	}

	item := model.RawItem{
		Seq:        p.seq.Add(1),
		Payload:    payload,
		ReceivedAt: p.settings.clock(),
	}
	err = p.input.Push(ctx, model.Payload(item))
	switch {
	case errors.Is(err, transfer.ErrClosed):
		if failure := p.failure(); failure != nil {
			return failure
		}

		return newStageError(model.ProducerStage.Name, item.Seq, ErrChannelClosed)
	case err != nil:
		return errors.Wrapf(err, "unable to submit item %d", item.Seq)
	}

	return nil
}

// Stop sends the shutdown marker, waits for both stages to return and collects
// the records. It returns the first error of the run. If ctx is done before the
// stages return, the run stays draining and Stop can be called again.
func (p *Pipeline) Stop(ctx context.Context) ([]model.StageBResult, error) {
	p.mu.Lock()
	switch p.state {
	case model.Created:
		p.mu.Unlock()

		return nil, errors.Wrapf(ErrNotRunning, "state %s", p.state)
	case model.Terminated:
		p.mu.Unlock()

		return p.sink.Records(), p.runErr
	case model.Running:
		p.transition(model.Draining)
	}
	err := p.sendShutdown(ctx)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "unable to wait for stages")
	case <-p.done:
	}

	return p.terminate()
}

// sendShutdown must be called with mu held for writing.
func (p *Pipeline) sendShutdown(ctx context.Context) error {
	if p.shutdownSent {
		return nil
	}
	err := p.input.Push(ctx, model.Shutdown[model.RawItem]())
	switch {
	case errors.Is(err, transfer.ErrClosed):
		// the stages already returned, their error is reported by terminate
	case err != nil:
		return errors.Wrap(err, "unable to send shutdown")
	}
	p.shutdownSent = true

	return nil
}

func (p *Pipeline) terminate() ([]model.StageBResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == model.Terminated {
		return p.sink.Records(), p.runErr
	}

	drainErr := p.sink.Drain(p.output)
	p.transition(model.Terminated)
	p.cancel()

	var finishErr error
	for _, obs := range p.settings.observers {
		err := obs.Finish()
		if err != nil && finishErr == nil {
			finishErr = errors.Wrap(err, "unable to finish observer")
		}
	}

	for _, err := range []error{p.err, drainErr, p.hookErr, finishErr} {
		if err != nil {
			p.runErr = err

			break
		}
	}

	return p.sink.Records(), p.runErr
}

// Results returns the records collected so far. It is complete once the run is
// terminated.
func (p *Pipeline) Results() []model.StageBResult {
	return p.sink.Records()
}

// Run starts the pipeline, submits every payload of src and stops the pipeline.
func (p *Pipeline) Run(ctx context.Context, src Source) ([]model.StageBResult, error) {
	err := p.Start(ctx)
	if err != nil {
		return nil, err
	}

	for {
		payload, ok, err := src.Next()
		if err != nil {
			records, _ := p.Stop(ctx)

			return records, errors.Wrap(err, "unable to read source")
		}
		if !ok {
			break
		}
		err = p.Submit(ctx, payload)
		if err != nil {
			records, _ := p.Stop(ctx)

			return records, err
		}
	}

	return p.Stop(ctx)
}
