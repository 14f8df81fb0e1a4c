package operators

import (
	"github.com/sarchlab/marbles/stream"
)

// Filter only lets the values that satisfy the predicate through.
func Filter(
	upstream stream.Publisher,
	predicate func(value string) bool,
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			return onNext(down, func(v string) {
				if predicate(v) {
					down.OnNext(v)
				}
			})
		})
}

// RemoveDuplicates drops values that are equal to the value right before
// them.
func RemoveDuplicates(upstream stream.Publisher) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			var last string
			seen := false
			return onNext(down, func(v string) {
				if seen && v == last {
					return
				}

				seen = true
				last = v
				down.OnNext(v)
			})
		})
}

// IgnoreOutput drops all values and keeps the terminal delivery.
func IgnoreOutput(upstream stream.Publisher) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			return onNext(down, func(string) {})
		})
}
