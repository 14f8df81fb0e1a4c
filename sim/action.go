package sim

// ActionID identifies a scheduled action. It is the index of the action's
// slot in the clock that owns it, so IDs are only meaningful for that clock.
type ActionID int

// NoAction is returned when an action is not registered.
const NoAction ActionID = -1

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTime
}

// A Scheduler registers work to happen at a virtual time. Publishers and
// time-based operators only see the clock through this interface.
type Scheduler interface {
	TimeTeller

	// ScheduleOnce registers an action that fires once at the given time. The
	// action is ignored if the time is not strictly later than now. The
	// returned value tells whether the action has been registered.
	ScheduleOnce(at VTime, action func()) bool

	// ScheduleRepeating registers an action that first fires at the given
	// time and then every interval after that, until cancelled.
	ScheduleRepeating(at, interval VTime, action func()) *ActionHandle

	// ScheduleImmediate registers an action at the current time. It fires
	// after the actions that are already due at the current time.
	ScheduleImmediate(action func()) ActionID
}

// ActionInfo describes an action when it is passed to hooks.
type ActionInfo struct {
	ID        ActionID
	Time      VTime
	Step      uint64
	Repeating bool
}

// ActionHandle can cancel a repeating action.
type ActionHandle struct {
	id    ActionID
	clock *VirtualClock
}

// ID returns the identity of the action behind the handle.
func (h *ActionHandle) ID() ActionID {
	return h.id
}

// Cancel removes the pending instance of the action. If the action is between
// two firings, no further instance is enqueued.
func (h *ActionHandle) Cancel() {
	if h == nil || h.clock == nil {
		return
	}

	h.clock.Cancel(h.id)
}

type actionSlot struct {
	action    func()
	interval  VTime
	repeating bool
	pending   bool
	cancelled bool
}

type queueEntry struct {
	slot ActionID
	time VTime
	seq  uint64
}
