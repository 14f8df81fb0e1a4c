package operators

import (
	"github.com/sarchlab/marbles/stream"
)

// Map transforms every value.
func Map(
	upstream stream.Publisher,
	transform func(value string) string,
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			return onNext(down, func(v string) {
				down.OnNext(transform(v))
			})
		})
}

// TryMap transforms every value and fails the stream with the message of the
// first error the transformation returns.
func TryMap(
	upstream stream.Publisher,
	transform func(value string) (string, error),
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, up *upstreamLink) stream.Observer {
			return onNext(down, func(v string) {
				out, err := transform(v)
				if err != nil {
					down.OnFailed(err.Error())
					up.Cancel()
					return
				}

				down.OnNext(out)
			})
		})
}

// Scan emits the running accumulation of the values.
func Scan(
	upstream stream.Publisher,
	initial string,
	accumulate func(acc, value string) string,
) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			acc := initial
			return onNext(down, func(v string) {
				acc = accumulate(acc, v)
				down.OnNext(acc)
			})
		})
}

// ReplaceError turns a failure into one last value followed by a completion.
func ReplaceError(upstream stream.Publisher, value string) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			return stream.ObserverFuncs{
				Next:      down.OnNext,
				Completed: down.OnCompleted,
				Failed: func(string) {
					down.OnNext(value)
					down.OnCompleted()
				},
			}
		})
}
