package tracing

import (
	"sync"

	"github.com/sarchlab/marbles/sim"
)

// A Sample is the clock time observed at one step.
type Sample struct {
	Step uint64
	Time sim.VTime
}

// TimelineTracer records the time of the clock at every step.
type TimelineTracer struct {
	lock    sync.Mutex
	samples []Sample
}

// NewTimelineTracer creates a new TimelineTracer.
func NewTimelineTracer() *TimelineTracer {
	return &TimelineTracer{}
}

// Func records the time of the step that is about to run.
func (t *TimelineTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeAction {
		return
	}

	info, ok := ctx.Item.(sim.ActionInfo)
	if !ok {
		return
	}

	t.lock.Lock()
	t.samples = append(t.samples, Sample{Step: info.Step, Time: info.Time})
	t.lock.Unlock()
}

// Samples returns a copy of the recorded samples.
func (t *TimelineTracer) Samples() []Sample {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]Sample(nil), t.samples...)
}

// Monotonic tells if the time never went backwards. It also returns the
// first step at which it did.
func (t *TimelineTracer) Monotonic() (bool, uint64) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for i := 1; i < len(t.samples); i++ {
		if t.samples[i].Time < t.samples[i-1].Time {
			return false, t.samples[i].Step
		}
	}

	return true, 0
}

// Span returns the times of the first and the last recorded step.
func (t *TimelineTracer) Span() (first, last sim.VTime) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.samples) == 0 {
		return 0, 0
	}

	return t.samples[0].Time, t.samples[len(t.samples)-1].Time
}
