package operators

import (
	"github.com/sarchlab/marbles/stream"
)

// First emits the first value and completes.
func First(upstream stream.Publisher) stream.Publisher {
	return Prefix(upstream, 1)
}

// Last emits the last value when the upstream completes.
func Last(upstream stream.Publisher) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			var last string
			found := false
			return stream.ObserverFuncs{
				Next: func(v string) {
					last = v
					found = true
				},
				Completed: func() {
					if found {
						down.OnNext(last)
					}
					down.OnCompleted()
				},
				Failed: down.OnFailed,
			}
		})
}

// DropFirst skips the first n values.
func DropFirst(upstream stream.Publisher, n int) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			skipped := 0
			return onNext(down, func(v string) {
				if skipped < n {
					skipped++
					return
				}

				down.OnNext(v)
			})
		})
}

// Prefix emits the first n values and completes.
func Prefix(upstream stream.Publisher, n int) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, up *upstreamLink) stream.Observer {
			if n <= 0 {
				down.OnCompleted()
				up.Cancel()
			}

			taken := 0
			return onNext(down, func(v string) {
				taken++
				down.OnNext(v)

				if taken >= n {
					down.OnCompleted()
					up.Cancel()
				}
			})
		})
}

// Prepend emits the given values as soon as it is subscribed to, and then
// the values of the upstream.
func Prepend(upstream stream.Publisher, values ...string) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			for _, v := range values {
				down.OnNext(v)
			}

			return onNext(down, down.OnNext)
		})
}

// Append emits the given values after the upstream completes.
func Append(upstream stream.Publisher, values ...string) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, _ *upstreamLink) stream.Observer {
			return stream.ObserverFuncs{
				Next: down.OnNext,
				Completed: func() {
					for _, v := range values {
						down.OnNext(v)
					}
					down.OnCompleted()
				},
				Failed: down.OnFailed,
			}
		})
}

// ElementAt emits the value at the given index and completes. The stream
// completes without a value if the upstream completes earlier.
func ElementAt(upstream stream.Publisher, index int) stream.Publisher {
	return lift(upstream,
		func(down *stream.Guard, up *upstreamLink) stream.Observer {
			i := 0
			return onNext(down, func(v string) {
				if i == index {
					down.OnNext(v)
					down.OnCompleted()
					up.Cancel()
				}
				i++
			})
		})
}
