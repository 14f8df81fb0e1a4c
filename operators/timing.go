package operators

import (
	"github.com/sarchlab/marbles/sim"
	"github.com/sarchlab/marbles/stream"
)

// after runs the action once the given duration has passed on the clock. A
// non-positive duration runs the action at the current time, after the work
// that is already due.
func after(clock sim.Scheduler, d sim.VTime, action func()) {
	if d > 0 && clock.ScheduleOnce(clock.CurrentTime()+d, action) {
		return
	}

	clock.ScheduleImmediate(action)
}

// Delay shifts every delivery, including the terminal one, later by d.
func Delay(
	upstream stream.Publisher,
	d sim.VTime,
	clock sim.Scheduler,
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			return stream.ObserverFuncs{
				Next: func(v string) {
					after(clock, d, func() { down.OnNext(v) })
				},
				Completed: func() {
					after(clock, d, down.OnCompleted)
				},
				Failed: func(message string) {
					after(clock, d, func() { down.OnFailed(message) })
				},
			}
		})
}

// Debounce emits a value only after the upstream has been quiet for d. A
// pending value is flushed when the upstream completes and dropped when it
// fails.
func Debounce(
	upstream stream.Publisher,
	d sim.VTime,
	clock sim.Scheduler,
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			var (
				pending    string
				hasPending bool
				generation int
			)

			return stream.ObserverFuncs{
				Next: func(v string) {
					generation++
					pending = v
					hasPending = true

					mine := generation
					after(clock, d, func() {
						if mine != generation || !hasPending {
							return
						}

						hasPending = false
						down.OnNext(pending)
					})
				},
				Completed: func() {
					generation++
					if hasPending {
						hasPending = false
						down.OnNext(pending)
					}
					down.OnCompleted()
				},
				Failed: func(message string) {
					generation++
					hasPending = false
					down.OnFailed(message)
				},
			}
		})
}

// Throttle emits at most one value per window of length d. The first value
// opens a window and is emitted right away. If latest is set, the last value
// received while the window is open is emitted when the window closes, which
// opens the next window. Otherwise the values received during the window are
// dropped.
func Throttle(
	upstream stream.Publisher,
	d sim.VTime,
	clock sim.Scheduler,
	latest bool,
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			var (
				open       bool
				pending    string
				hasPending bool
			)

			var closeWindow func()
			openWindow := func() {
				open = true
				after(clock, d, closeWindow)
			}

			closeWindow = func() {
				open = false
				if down.Closed() || !hasPending {
					return
				}

				hasPending = false
				down.OnNext(pending)
				openWindow()
			}

			return stream.ObserverFuncs{
				Next: func(v string) {
					if d <= 0 {
						down.OnNext(v)
						return
					}

					if !open {
						down.OnNext(v)
						openWindow()
						return
					}

					if latest {
						pending = v
						hasPending = true
					}
				},
				Completed: func() {
					if hasPending {
						hasPending = false
						down.OnNext(pending)
					}
					down.OnCompleted()
				},
				Failed: func(message string) {
					hasPending = false
					down.OnFailed(message)
				},
			}
		})
}
