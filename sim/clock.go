package sim

// A VirtualClock keeps a virtual now and a set of pending actions. Time never
// moves on its own: Advance pops the earliest action, moves now to its fire
// time, and fires it.
//
// The clock is single threaded. Actions are fired on the goroutine that calls
// Advance and must only touch the clock from that goroutine.
type VirtualClock struct {
	*HookableBase

	now   VTime
	steps uint64
	live  int

	slots []actionSlot
	queue *actionQueue
}

// NewVirtualClock creates a clock whose now is zero.
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{
		HookableBase: NewHookableBase(),
		queue:        newActionQueue(),
	}
}

// CurrentTime returns the fire time of the most recently fired action.
func (c *VirtualClock) CurrentTime() VTime {
	return c.now
}

// Steps returns the number of actions fired so far.
func (c *VirtualClock) Steps() uint64 {
	return c.steps
}

// Pending returns the number of actions that are waiting to fire.
func (c *VirtualClock) Pending() int {
	return c.live
}

// ScheduleOnce registers an action that fires once at the given time.
// Scheduling at or before now is ignored and returns false.
func (c *VirtualClock) ScheduleOnce(at VTime, action func()) bool {
	if at <= c.now {
		return false
	}

	c.enqueue(c.newSlot(action, 0, false), at)

	return true
}

// ScheduleRepeating registers an action that fires at the given time and then
// every interval after that. A start time earlier than now is moved to now. A
// non-positive interval cannot move time forward, so such an action fires
// only once.
func (c *VirtualClock) ScheduleRepeating(
	at, interval VTime,
	action func(),
) *ActionHandle {
	if at < c.now {
		at = c.now
	}

	id := c.newSlot(action, interval, interval > 0)
	c.enqueue(id, at)

	return &ActionHandle{id: id, clock: c}
}

// ScheduleImmediate registers an action at the current time.
func (c *VirtualClock) ScheduleImmediate(action func()) ActionID {
	id := c.newSlot(action, 0, false)
	c.enqueue(id, c.now)

	return id
}

// Cancel removes a pending action. Cancelling an action that has already
// fired, or that is unknown to the clock, has no effect.
func (c *VirtualClock) Cancel(id ActionID) {
	if id < 0 || int(id) >= len(c.slots) {
		return
	}

	slot := &c.slots[id]
	if slot.cancelled {
		return
	}

	slot.cancelled = true
	if slot.pending {
		slot.pending = false
		c.live--
	}

	slot.action = nil
}

// Advance fires the earliest pending action. It returns false if nothing is
// pending.
func (c *VirtualClock) Advance() bool {
	entry, ok := c.popLive()
	if !ok {
		return false
	}

	slot := &c.slots[entry.slot]
	slot.pending = false
	c.live--

	c.now = entry.time
	c.steps++

	info := ActionInfo{
		ID:        entry.slot,
		Time:      c.now,
		Step:      c.steps,
		Repeating: slot.repeating,
	}

	hookCtx := HookCtx{
		Domain: c,
		Pos:    HookPosBeforeAction,
		Item:   info,
	}
	c.InvokeHook(hookCtx)

	slot.action()

	// The action may have scheduled more work and grown the arena.
	slot = &c.slots[entry.slot]
	if slot.repeating && !slot.cancelled {
		c.enqueue(entry.slot, c.now+slot.interval)
	}

	hookCtx.Pos = HookPosAfterAction
	c.InvokeHook(hookCtx)

	return true
}

func (c *VirtualClock) popLive() (queueEntry, bool) {
	for c.queue.Len() > 0 {
		entry := c.queue.Pop()
		if c.slots[entry.slot].cancelled {
			continue
		}

		return entry, true
	}

	return queueEntry{}, false
}

func (c *VirtualClock) newSlot(
	action func(),
	interval VTime,
	repeating bool,
) ActionID {
	if action == nil {
		panic("sim: cannot schedule a nil action")
	}

	c.slots = append(c.slots, actionSlot{
		action:    action,
		interval:  interval,
		repeating: repeating,
	})

	return ActionID(len(c.slots) - 1)
}

func (c *VirtualClock) enqueue(id ActionID, at VTime) {
	c.slots[id].pending = true
	c.live++
	c.queue.Push(id, at)
}
