package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarchlab/marbles/sim"
	"github.com/sarchlab/marbles/stream"
)

// MinSpacing is how close a marble may be moved to a value marble of the
// same lane.
const MinSpacing = 5

// Errors reported when editing a session.
var (
	ErrNoSuchLane  = errors.New("no such input lane")
	ErrNoSuchEvent = errors.New("no such event")
	ErrTooClose    = errors.New("too close to another value")
)

// Start runs the operator on the given input lanes with a fresh clock and
// fresh publishers.
func Start(
	ctx context.Context,
	op *Operator,
	inputs []stream.Lane,
	builder RunnerBuilder,
) (*Future, error) {
	clock := sim.NewVirtualClock()

	pubs := make([]stream.Publisher, 0, len(inputs))
	for _, lane := range inputs {
		pubs = append(pubs, stream.NewReplayPublisher(lane, clock))
	}

	publisher, err := build(op, pubs, clock)
	if err != nil {
		return nil, err
	}

	return builder.Build().Run(ctx, publisher, clock), nil
}

// build derives the publisher under test. A pipeline that panics while being
// built yields a publisher that fails as soon as it is subscribed to.
func build(
	op *Operator,
	pubs []stream.Publisher,
	clock sim.Scheduler,
) (publisher stream.Publisher, err error) {
	defer func() {
		if v := recover(); v != nil {
			publisher, err = failed(panicError(v).Error()), nil
		}
	}()

	return op.Build(pubs, clock)
}

func failed(message string) stream.Publisher {
	return stream.PublisherFunc(func(o stream.Observer) stream.Subscription {
		o.OnFailed(message)
		return stream.SubscriptionFunc(func() {})
	})
}

// A Session keeps the input lanes of one operator while they are being
// edited and the output of the latest run. A session is not safe for
// concurrent use.
type Session struct {
	op      *Operator
	builder RunnerBuilder
	inputs  []stream.Lane
	output  stream.Lane
}

// NewSession starts editing the example inputs of the operator.
func NewSession(op *Operator, builder RunnerBuilder) *Session {
	s := &Session{
		op:      op,
		builder: builder,
	}

	for _, lane := range op.Inputs {
		s.inputs = append(s.inputs, lane.Clone())
	}

	return s
}

// Operator returns the operator under test.
func (s *Session) Operator() *Operator {
	return s.op
}

// Inputs returns a copy of the current input lanes.
func (s *Session) Inputs() []stream.Lane {
	lanes := make([]stream.Lane, 0, len(s.inputs))
	for _, lane := range s.inputs {
		lanes = append(lanes, lane.Clone())
	}

	return lanes
}

// Output returns the output of the latest run.
func (s *Session) Output() stream.Lane {
	return s.output.Clone()
}

// SetInputs replaces all the input lanes.
func (s *Session) SetInputs(lanes []stream.Lane) error {
	if len(lanes) != s.op.Arity() {
		return fmt.Errorf("%w: %s takes %d, got %d",
			ErrArity, s.op.Name, s.op.Arity(), len(lanes))
	}

	for i, lane := range lanes {
		if err := lane.Validate(); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	}

	s.inputs = s.inputs[:0]
	for _, lane := range lanes {
		s.inputs = append(s.inputs, lane.Clone())
	}

	return nil
}

// Move changes the time of the marble with the given ID. A marble cannot be
// moved off the lane or to within MinSpacing of a value marble.
func (s *Session) Move(lane int, id string, time int) error {
	if lane < 0 || lane >= len(s.inputs) {
		return fmt.Errorf("%w: %d", ErrNoSuchLane, lane)
	}

	events := s.inputs[lane]

	index := events.IndexOf(id)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchEvent, id)
	}

	if time < stream.MinTime || time > stream.MaxTime {
		return fmt.Errorf("%w: %d", stream.ErrTimeOutOfRange, time)
	}

	for i, other := range events {
		if i == index || other.Kind != stream.KindNext {
			continue
		}

		if abs(other.Time-time) <= MinSpacing {
			return fmt.Errorf("%w: %s at %d", ErrTooClose, other, time)
		}
	}

	events[index].Time = time

	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

// Update reruns the operator on the current inputs and replaces the output
// with what the run collected.
func (s *Session) Update(ctx context.Context) (Result, error) {
	future, err := Start(ctx, s.op, s.inputs, s.builder)
	if err != nil {
		return Result{}, err
	}

	result, err := future.Wait(ctx)
	if err != nil {
		return Result{}, err
	}

	s.output = result.Events

	return result, nil
}
