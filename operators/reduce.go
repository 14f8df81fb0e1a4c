package operators

import (
	"strconv"
	"strings"

	"github.com/sarchlab/marbles/stream"
)

// Reduce emits the accumulation of all the values when the upstream
// completes.
func Reduce(
	upstream stream.Publisher,
	initial string,
	accumulate func(acc, value string) string,
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			acc := initial
			return stream.ObserverFuncs{
				Next: func(v string) { acc = accumulate(acc, v) },
				Completed: func() {
					down.OnNext(acc)
					down.OnCompleted()
				},
				Failed: down.OnFailed,
			}
		})
}

// Collect emits all the values as one list when the upstream completes.
func Collect(upstream stream.Publisher) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			var values []string
			return stream.ObserverFuncs{
				Next: func(v string) { values = append(values, v) },
				Completed: func() {
					down.OnNext("[" + strings.Join(values, ", ") + "]")
					down.OnCompleted()
				},
				Failed: down.OnFailed,
			}
		})
}

// Count emits the number of values when the upstream completes.
func Count(upstream stream.Publisher) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			n := 0
			return stream.ObserverFuncs{
				Next: func(string) { n++ },
				Completed: func() {
					down.OnNext(strconv.Itoa(n))
					down.OnCompleted()
				},
				Failed: down.OnFailed,
			}
		})
}

// Max emits the largest value when the upstream completes.
func Max(upstream stream.Publisher) stream.Publisher {
	return extreme(upstream, func(a, b string) bool { return Less(b, a) })
}

// Min emits the smallest value when the upstream completes.
func Min(upstream stream.Publisher) stream.Publisher {
	return extreme(upstream, Less)
}

func extreme(
	upstream stream.Publisher,
	better func(a, b string) bool,
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			var best string
			found := false
			return stream.ObserverFuncs{
				Next: func(v string) {
					if !found || better(v, best) {
						best = v
						found = true
					}
				},
				Completed: func() {
					if found {
						down.OnNext(best)
					}
					down.OnCompleted()
				},
				Failed: down.OnFailed,
			}
		})
}

// Less orders two values. Values that both parse as integers are compared as
// numbers, anything else is compared as text.
func Less(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return x < y
	}

	return a < b
}
