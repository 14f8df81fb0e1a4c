package operators

import (
	"github.com/sarchlab/marbles/stream"
)

// Contains emits "true" and completes as soon as the value shows up, or emits
// "false" when the upstream completes without it.
func Contains(upstream stream.Publisher, value string) stream.Publisher {
	return AnySatisfy(upstream, func(v string) bool { return v == value })
}

// AnySatisfy emits "true" and completes at the first value that satisfies the
// predicate, or emits "false" when the upstream completes without one.
func AnySatisfy(
	upstream stream.Publisher,
	predicate func(value string) bool,
) stream.Publisher {
	return decide(upstream, predicate, "true", "false")
}

// AllSatisfy emits "false" and completes at the first value that does not
// satisfy the predicate, or emits "true" when the upstream completes.
func AllSatisfy(
	upstream stream.Publisher,
	predicate func(value string) bool,
) stream.Publisher {
	violates := func(v string) bool { return !predicate(v) }
	return decide(upstream, violates, "false", "true")
}

// decide emits onMatch at the first value matching the predicate and stops
// listening to the upstream. It emits otherwise when the upstream completes
// without a match.
func decide(
	upstream stream.Publisher,
	match func(value string) bool,
	onMatch, otherwise string,
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, up *upstreamLink) stream.Observer {
			return stream.ObserverFuncs{
				Next: func(v string) {
					if !match(v) {
						return
					}

					down.OnNext(onMatch)
					down.OnCompleted()
					up.Cancel()
				},
				Completed: func() {
					down.OnNext(otherwise)
					down.OnCompleted()
				},
				Failed: down.OnFailed,
			}
		})
}
