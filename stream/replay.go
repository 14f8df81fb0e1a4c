package stream

import (
	"github.com/sarchlab/marbles/sim"
)

// A ReplayPublisher re-emits a fixed lane against a virtual clock. Every
// subscription schedules its own deliveries, so the same publisher can be
// subscribed more than once within a run.
type ReplayPublisher struct {
	lane  Lane
	clock sim.Scheduler
}

// NewReplayPublisher creates a publisher that replays the lane. The lane is
// copied, later edits to the argument do not affect the publisher.
func NewReplayPublisher(lane Lane, clock sim.Scheduler) *ReplayPublisher {
	return &ReplayPublisher{
		lane:  lane.Sorted(),
		clock: clock,
	}
}

// Lane returns the marbles the publisher replays, in time order.
func (p *ReplayPublisher) Lane() Lane {
	return p.lane.Clone()
}

// Subscribe schedules one delivery per marble up to and including the first
// terminal marble. Marbles after the terminal one are never delivered.
func (p *ReplayPublisher) Subscribe(o Observer) Subscription {
	sub := &replaySubscription{guard: NewGuard(o)}

	for _, evt := range p.lane {
		p.scheduleDelivery(sub, evt)

		if evt.IsTerminal() {
			break
		}
	}

	return sub
}

func (p *ReplayPublisher) scheduleDelivery(
	sub *replaySubscription,
	evt TimedEvent,
) {
	deliver := func() { sub.deliver(evt) }

	at := sim.FromNormalized(evt.Time)
	if p.clock.ScheduleOnce(at, deliver) {
		return
	}

	// Marbles that are due at or before the subscription instant are
	// delivered as soon as possible, still in lane order.
	p.clock.ScheduleImmediate(deliver)
}

type replaySubscription struct {
	guard *Guard
}

func (s *replaySubscription) deliver(evt TimedEvent) {
	switch evt.Kind {
	case KindNext:
		s.guard.OnNext(evt.Content)
	case KindFinished:
		s.guard.OnCompleted()
	case KindError:
		s.guard.OnFailed(evt.Content)
	}
}

// Cancel makes the remaining deliveries of the subscription inert.
func (s *replaySubscription) Cancel() {
	s.guard.Stop()
}
