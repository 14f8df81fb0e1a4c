package experiment

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/rs/xid"
	"github.com/sarchlab/marbles/sim"
	"github.com/sarchlab/marbles/stream"
)

// DefaultMaxSteps bounds the number of clock steps of a run when the builder
// is not told otherwise.
const DefaultMaxSteps = 100000

// Outcome tells why a run stopped.
type Outcome int

// The possible outcomes of a run.
const (
	// OutcomeTerminated means the pipeline delivered a terminal event.
	OutcomeTerminated Outcome = iota

	// OutcomeExhausted means the clock ran out of work before a terminal
	// event arrived.
	OutcomeExhausted

	// OutcomeStepLimit means the run hit the step budget.
	OutcomeStepLimit

	// OutcomeCancelled means the context ended before the run finished.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTerminated:
		return "terminated"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeStepLimit:
		return "step limit"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MarshalText lets outcomes appear by name in JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText reads an outcome written by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	for c := OutcomeTerminated; c <= OutcomeCancelled; c++ {
		if c.String() == string(text) {
			*o = c
			return nil
		}
	}

	return fmt.Errorf("unknown outcome %q", text)
}

// Result is what a run collected.
type Result struct {
	RunID   string      `json:"run_id"`
	Events  stream.Lane `json:"events"`
	Outcome Outcome     `json:"outcome"`
	Steps   uint64      `json:"steps"`
	EndTime sim.VTime   `json:"end_time"`
}

// A Runner drives a virtual clock until the pipeline under test terminates
// and collects every delivery as a marble. A runner can only be used once.
type Runner struct {
	maxSteps uint64
	hooks    []sim.Hook
	logger   *log.Logger
	drain    bool
	used     bool
}

// RunnerBuilder can build runners.
type RunnerBuilder struct {
	maxSteps uint64
	hooks    []sim.Hook
	logger   *log.Logger
	drain    bool
}

// MakeRunnerBuilder creates a new RunnerBuilder with default parameters.
func MakeRunnerBuilder() RunnerBuilder {
	return RunnerBuilder{
		maxSteps: DefaultMaxSteps,
	}
}

// WithMaxSteps sets the step budget of the runs.
func (b RunnerBuilder) WithMaxSteps(n uint64) RunnerBuilder {
	b.maxSteps = n
	return b
}

// WithHook attaches a hook to the clock of the run.
func (b RunnerBuilder) WithHook(h sim.Hook) RunnerBuilder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), h)
	return b
}

// WithLogger prints every action that the clock fires to the logger.
func (b RunnerBuilder) WithLogger(logger *log.Logger) RunnerBuilder {
	b.logger = logger
	return b
}

// WithDrainAfterTerminal keeps stepping the clock after the pipeline
// terminates, until no work is left or the step budget is spent. Deliveries
// after the terminal event are still ignored.
func (b RunnerBuilder) WithDrainAfterTerminal() RunnerBuilder {
	b.drain = true
	return b
}

// Build creates a runner.
func (b RunnerBuilder) Build() *Runner {
	return &Runner{
		maxSteps: b.maxSteps,
		hooks:    append([]sim.Hook(nil), b.hooks...),
		logger:   b.logger,
		drain:    b.drain,
	}
}

// Run subscribes to the publisher and then steps the clock in the
// background. The returned future resolves once the run stops: when the
// pipeline terminates (or, when draining, when the clock runs idle after
// that), when the clock runs out of work, when the step budget is spent, or
// when the context ends.
func (r *Runner) Run(
	ctx context.Context,
	publisher stream.Publisher,
	clock *sim.VirtualClock,
) *Future {
	if r.used {
		log.Panic("experiment: runner already used")
	}
	r.used = true

	for _, h := range r.hooks {
		clock.AcceptHook(h)
	}

	if r.logger != nil {
		clock.AcceptHook(sim.NewActionLogger(r.logger))
	}

	run := &run{
		id:     xid.New().String(),
		clock:  clock,
		future: newFuture(),
	}

	go r.drive(ctx, publisher, run)

	return run.future
}

func (r *Runner) drive(
	ctx context.Context,
	publisher stream.Publisher,
	run *run,
) {
	sub, err := run.subscribe(publisher)
	if err != nil {
		run.OnFailed(err.Error())
	}

	outcome := OutcomeExhausted

	for !run.terminated || r.drain {
		if ctx.Err() != nil {
			outcome = OutcomeCancelled
			break
		}

		if run.clock.Steps() >= r.maxSteps {
			outcome = OutcomeStepLimit
			break
		}

		advanced, err := run.step()
		if err != nil {
			run.OnFailed(err.Error())
			break
		}

		if !advanced {
			break
		}
	}

	if sub != nil {
		sub.Cancel()
	}

	if run.terminated {
		outcome = OutcomeTerminated
	}

	run.future.resolve(Result{
		RunID:   run.id,
		Events:  run.events.Clone(),
		Outcome: outcome,
		Steps:   run.clock.Steps(),
		EndTime: run.clock.CurrentTime(),
	})
}

// run is the state of one execution. It is also the observer that collects
// the deliveries.
type run struct {
	id         string
	clock      *sim.VirtualClock
	future     *Future
	events     stream.Lane
	terminated bool
}

func (r *run) subscribe(p stream.Publisher) (sub stream.Subscription, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicError(v)
		}
	}()

	return p.Subscribe(r), nil
}

func (r *run) step() (advanced bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicError(v)
		}
	}()

	return r.clock.Advance(), nil
}

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return fmt.Errorf("%v", v)
}

func (r *run) record(kind stream.Kind, content string) {
	if r.terminated {
		return
	}

	r.events = append(r.events, stream.TimedEvent{
		ID:      "out-" + strconv.Itoa(len(r.events)),
		Kind:    kind,
		Time:    r.clock.CurrentTime().Normalized(),
		Content: content,
	})
}

func (r *run) OnNext(value string) {
	r.record(stream.KindNext, value)
}

func (r *run) OnCompleted() {
	r.record(stream.KindFinished, "")
	r.terminated = true
}

func (r *run) OnFailed(message string) {
	r.record(stream.KindError, message)
	r.terminated = true
}
