// Package stream defines the marbles that flow through a pipeline and the
// minimal publish/subscribe contract that pipelines are built from.
package stream

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sarchlab/marbles/sim"
)

// Lane positions are on a normalized scale from MinTime to MaxTime.
const (
	MinTime = 0
	MaxTime = 100
)

// Errors reported when checking or decoding lanes.
var (
	ErrTimeOutOfRange    = errors.New("event time out of range")
	ErrMultipleTerminal  = errors.New("lane has more than one terminal event")
	ErrUnexpectedContent = errors.New("finished event cannot carry content")
	ErrMissingContent    = errors.New("error event needs a message")
	ErrUnknownKind       = errors.New("unknown event kind")
)

// Kind tells what a TimedEvent represents.
type Kind int

// The kinds of TimedEvent.
const (
	KindNext Kind = iota
	KindFinished
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindFinished:
		return "finished"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText writes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindNext, KindFinished, KindError:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
}

// UnmarshalText reads a kind written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, candidate := range []Kind{KindNext, KindFinished, KindError} {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownKind, text)
}

// A TimedEvent is one marble: a value, a completion, or an error at a
// position on a lane. The ID does not change when the marble is moved.
type TimedEvent struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Time    int    `json:"time"`
	Content string `json:"content,omitempty"`
}

// Next creates a value marble.
func Next(time int, content string) TimedEvent {
	return TimedEvent{
		ID:      sim.GetIDGenerator().Generate(),
		Kind:    KindNext,
		Time:    time,
		Content: content,
	}
}

// Finished creates a completion marble.
func Finished(time int) TimedEvent {
	return TimedEvent{
		ID:   sim.GetIDGenerator().Generate(),
		Kind: KindFinished,
		Time: time,
	}
}

// Error creates a failure marble.
func Error(time int, message string) TimedEvent {
	return TimedEvent{
		ID:      sim.GetIDGenerator().Generate(),
		Kind:    KindError,
		Time:    time,
		Content: message,
	}
}

// IsTerminal returns true for Finished and Error marbles.
func (e TimedEvent) IsTerminal() bool {
	return e.Kind == KindFinished || e.Kind == KindError
}

// Equivalent compares two marbles ignoring their identities.
func (e TimedEvent) Equivalent(other TimedEvent) bool {
	return e.Kind == other.Kind &&
		e.Time == other.Time &&
		e.Content == other.Content
}

// String prints the marble as content@time. Completions print as |@time and
// errors as x(message)@time.
func (e TimedEvent) String() string {
	switch e.Kind {
	case KindFinished:
		return fmt.Sprintf("|@%d", e.Time)
	case KindError:
		return fmt.Sprintf("x(%s)@%d", e.Content, e.Time)
	default:
		return fmt.Sprintf("%s@%d", e.Content, e.Time)
	}
}

// A Lane is an ordered sequence of marbles.
type Lane []TimedEvent

// Clone returns a copy of the lane that shares no storage with l.
func (l Lane) Clone() Lane {
	if l == nil {
		return nil
	}

	dup := make(Lane, len(l))
	copy(dup, l)

	return dup
}

// Sorted returns a copy of the lane ordered by time. Marbles at the same time
// keep their order.
func (l Lane) Sorted() Lane {
	dup := l.Clone()
	sort.SliceStable(dup, func(i, j int) bool {
		return dup[i].Time < dup[j].Time
	})

	return dup
}

// IndexOf returns the position of the marble with the given ID, or -1.
func (l Lane) IndexOf(id string) int {
	for i, e := range l {
		if e.ID == id {
			return i
		}
	}

	return -1
}

// Terminal returns the first terminal marble in time order.
func (l Lane) Terminal() (TimedEvent, bool) {
	for _, e := range l.Sorted() {
		if e.IsTerminal() {
			return e, true
		}
	}

	return TimedEvent{}, false
}

// Validate checks that the lane can be used as an input fixture.
func (l Lane) Validate() error {
	terminals := 0

	for _, e := range l {
		if e.Time < MinTime || e.Time > MaxTime {
			return fmt.Errorf("%w: %s", ErrTimeOutOfRange, e)
		}

		if e.Kind == KindFinished && e.Content != "" {
			return fmt.Errorf("%w: %s", ErrUnexpectedContent, e)
		}

		if e.Kind == KindError && e.Content == "" {
			return fmt.Errorf("%w: %s", ErrMissingContent, e)
		}

		if e.IsTerminal() {
			terminals++
		}
	}

	if terminals > 1 {
		return ErrMultipleTerminal
	}

	return nil
}

// Equivalent compares two lanes marble by marble, ignoring identities.
func (l Lane) Equivalent(other Lane) bool {
	if len(l) != len(other) {
		return false
	}

	for i := range l {
		if !l[i].Equivalent(other[i]) {
			return false
		}
	}

	return true
}

// String prints the marbles separated by spaces.
func (l Lane) String() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.String()
	}

	return strings.Join(parts, " ")
}
