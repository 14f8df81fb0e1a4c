// Package operators provides the operators that marble pipelines are built
// from. Every operator returns a stream.Publisher that subscribes to its
// upstream publishers once per downstream subscription.
package operators

import (
	"github.com/sarchlab/marbles/stream"
)

// upstreamLink owns the subscription to one upstream publisher. It can be
// cancelled before Subscribe returns, which happens when an upstream delivers
// synchronously and the operator terminates right away.
type upstreamLink struct {
	sub       stream.Subscription
	cancelled bool
}

func (l *upstreamLink) subscribe(p stream.Publisher, o stream.Observer) {
	sub := p.Subscribe(o)
	if l.cancelled {
		sub.Cancel()
		return
	}

	l.sub = sub
}

func (l *upstreamLink) Cancel() {
	if l.cancelled {
		return
	}

	l.cancelled = true
	if l.sub != nil {
		l.sub.Cancel()
	}
}

// lift builds an operator with one upstream. The build function receives the
// guarded downstream and the link to the upstream, and returns the observer
// that will be subscribed upstream.
func lift(
	upstream stream.Publisher,
	build func(down *stream.Guard, up *upstreamLink) stream.Observer,
) stream.Publisher {
	return stream.PublisherFunc(func(o stream.Observer) stream.Subscription {
		down := stream.NewGuard(o)
		up := &upstreamLink{}

		up.subscribe(upstream, build(down, up))

		return stream.SubscriptionFunc(func() {
			down.Stop()
			up.Cancel()
		})
	})
}

// passTerminal forwards completions and failures unchanged.
type passTerminal struct {
	down *stream.Guard
}

func (p passTerminal) OnCompleted() {
	p.down.OnCompleted()
}

func (p passTerminal) OnFailed(message string) {
	p.down.OnFailed(message)
}

type nextFunc func(value string)

type nextObserver struct {
	passTerminal
	next nextFunc
}

func (o nextObserver) OnNext(value string) {
	o.next(value)
}

// onNext builds an observer that handles values with fn and forwards
// terminal deliveries.
func onNext(down *stream.Guard, fn nextFunc) stream.Observer {
	return nextObserver{passTerminal: passTerminal{down: down}, next: fn}
}
