package operators

import (
	"github.com/sarchlab/marbles/stream"
)

type links [2]*upstreamLink

func (l links) Cancel() {
	for _, link := range l {
		link.Cancel()
	}
}

// zip2 builds an operator that listens to two upstreams at once. The upstream
// a is subscribed to before the upstream b.
func zip2(
	a, b stream.Publisher,
	build func(down *stream.Guard, up links) [2]stream.Observer,
) stream.Publisher {
	return stream.PublisherFunc(func(o stream.Observer) stream.Subscription {
		down := stream.NewGuard(o)
		up := links{&upstreamLink{}, &upstreamLink{}}

		observers := build(down, up)
		up[0].subscribe(a, observers[0])
		up[1].subscribe(b, observers[1])

		return stream.SubscriptionFunc(func() {
			down.Stop()
			up.Cancel()
		})
	})
}

// failAll forwards a failure and stops listening to both upstreams.
func failAll(down *stream.Guard, up links) func(string) {
	return func(message string) {
		down.OnFailed(message)
		up.Cancel()
	}
}

// Merge forwards the values of both upstreams as they arrive. It completes
// when both upstreams complete and fails as soon as either fails.
func Merge(a, b stream.Publisher) stream.Publisher {
	return zip2(a, b,
		func(down *stream.Guard, up links) [2]stream.Observer {
			var done [2]bool
			observer := func(i int) stream.Observer {
				return stream.ObserverFuncs{
					Next: down.OnNext,
					Completed: func() {
						done[i] = true
						if done[0] && done[1] {
							down.OnCompleted()
						}
					},
					Failed: failAll(down, up),
				}
			}

			return [2]stream.Observer{observer(0), observer(1)}
		})
}

// CombineLatest emits the combination of the latest values of both
// upstreams every time either of them emits, once both have emitted.
func CombineLatest(
	a, b stream.Publisher,
	combine func(a, b string) string,
) stream.Publisher {
	return zip2(a, b,
		func(down *stream.Guard, up links) [2]stream.Observer {
			var (
				latest [2]string
				has    [2]bool
				done   [2]bool
			)

			observer := func(i int) stream.Observer {
				return stream.ObserverFuncs{
					Next: func(v string) {
						latest[i] = v
						has[i] = true
						if has[0] && has[1] {
							down.OnNext(combine(latest[0], latest[1]))
						}
					},
					Completed: func() {
						done[i] = true
						if done[0] && done[1] {
							down.OnCompleted()
						}
					},
					Failed: failAll(down, up),
				}
			}

			return [2]stream.Observer{observer(0), observer(1)}
		})
}

// Zip pairs the n-th value of a with the n-th value of b. It completes as
// soon as one upstream has completed and all its values have been paired.
func Zip(
	a, b stream.Publisher,
	combine func(a, b string) string,
) stream.Publisher {
	return zip2(a, b,
		func(down *stream.Guard, up links) [2]stream.Observer {
			var (
				queues [2][]string
				done   [2]bool
			)

			checkDone := func() {
				for i := range queues {
					if done[i] && len(queues[i]) == 0 {
						down.OnCompleted()
						up.Cancel()
						return
					}
				}
			}

			observer := func(i int) stream.Observer {
				return stream.ObserverFuncs{
					Next: func(v string) {
						queues[i] = append(queues[i], v)
						if len(queues[0]) > 0 && len(queues[1]) > 0 {
							x, y := queues[0][0], queues[1][0]
							queues[0] = queues[0][1:]
							queues[1] = queues[1][1:]
							down.OnNext(combine(x, y))
							checkDone()
						}
					},
					Completed: func() {
						done[i] = true
						checkDone()
					},
					Failed: failAll(down, up),
				}
			}

			return [2]stream.Observer{observer(0), observer(1)}
		})
}

// Concat forwards all the values of a and then all the values of b. The
// upstream b is only subscribed to after a completes.
func Concat(a, b stream.Publisher) stream.Publisher {
	return stream.PublisherFunc(func(o stream.Observer) stream.Subscription {
		down := stream.NewGuard(o)
		up := links{&upstreamLink{}, &upstreamLink{}}

		second := stream.ObserverFuncs{
			Next:      down.OnNext,
			Completed: down.OnCompleted,
			Failed:    down.OnFailed,
		}

		first := stream.ObserverFuncs{
			Next: down.OnNext,
			Completed: func() {
				up[1].subscribe(b, second)
			},
			Failed: down.OnFailed,
		}

		up[0].subscribe(a, first)

		return stream.SubscriptionFunc(func() {
			down.Stop()
			up.Cancel()
		})
	})
}
