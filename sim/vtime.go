package sim

import "fmt"

// VTime defines the time in the simulated space in the unit of nanosecond.
type VTime int64

// Units that VTime can be expressed in.
const (
	Nanosecond  VTime = 1
	Microsecond       = 1000 * Nanosecond
	Millisecond       = 1000 * Microsecond
	Second            = 1000 * Millisecond
)

// NormalizedUnit is the length of one step on the [0, 100] scale that marble
// lanes use. A marble at position 40 fires at 40 * NormalizedUnit.
const NormalizedUnit = Millisecond

// Nanoseconds converts a number of nanoseconds to VTime.
func Nanoseconds(n int64) VTime {
	return VTime(n)
}

// Microseconds converts a number of microseconds to VTime.
func Microseconds(us int64) VTime {
	return VTime(us) * Microsecond
}

// Milliseconds converts a number of milliseconds to VTime.
func Milliseconds(ms int64) VTime {
	return VTime(ms) * Millisecond
}

// Seconds converts a number of seconds to VTime.
func Seconds(s int64) VTime {
	return VTime(s) * Second
}

// FromNormalized converts a lane position to VTime.
func FromNormalized(position int) VTime {
	return VTime(position) * NormalizedUnit
}

// Normalized converts the time to a lane position. Partial units are
// truncated toward zero.
func (t VTime) Normalized() int {
	return int(t / NormalizedUnit)
}

// Add returns t+d.
func (t VTime) Add(d VTime) VTime {
	return t + d
}

// Sub returns t-u.
func (t VTime) Sub(u VTime) VTime {
	return t - u
}

// Scale multiplies the time by an integer factor.
func (t VTime) Scale(factor int64) VTime {
	return t * VTime(factor)
}

// String prints the time in nanoseconds.
func (t VTime) String() string {
	return fmt.Sprintf("%dns", int64(t))
}
