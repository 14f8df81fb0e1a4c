// Package tracing provides clock hooks that observe how a run unfolds.
package tracing

import (
	"sync"

	"github.com/sarchlab/marbles/sim"
)

// StepCountTracer counts the actions that a clock fires, telling one-shot
// actions apart from repeating ones.
type StepCountTracer struct {
	lock      sync.Mutex
	once      uint64
	repeating uint64
	perAction map[sim.ActionID]uint64
}

// NewStepCountTracer creates a new StepCountTracer.
func NewStepCountTracer() *StepCountTracer {
	return &StepCountTracer{
		perAction: make(map[sim.ActionID]uint64),
	}
}

// Func counts the action that is about to fire.
func (t *StepCountTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeAction {
		return
	}

	info, ok := ctx.Item.(sim.ActionInfo)
	if !ok {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if info.Repeating {
		t.repeating++
	} else {
		t.once++
	}

	t.perAction[info.ID]++
}

// Total returns the number of fired actions.
func (t *StepCountTracer) Total() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.once + t.repeating
}

// OneShot returns the number of fired one-shot actions.
func (t *StepCountTracer) OneShot() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.once
}

// Repeating returns the number of firings of repeating actions.
func (t *StepCountTracer) Repeating() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.repeating
}

// FiredCount returns how many times the given action fired.
func (t *StepCountTracer) FiredCount(id sim.ActionID) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.perAction[id]
}
