package stream

// An Observer receives the deliveries of one subscription.
type Observer interface {
	OnNext(value string)
	OnCompleted()
	OnFailed(message string)
}

// A Subscription can stop the deliveries to an observer.
type Subscription interface {
	Cancel()
}

// A Publisher delivers values to observers. Each call to Subscribe starts an
// independent delivery sequence for exactly one observer.
type Publisher interface {
	Subscribe(o Observer) Subscription
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(o Observer) Subscription

// Subscribe calls f.
func (f PublisherFunc) Subscribe(o Observer) Subscription {
	return f(o)
}

// ObserverFuncs builds an observer out of functions. Nil functions are
// skipped.
type ObserverFuncs struct {
	Next      func(value string)
	Completed func()
	Failed    func(message string)
}

// OnNext calls Next.
func (o ObserverFuncs) OnNext(value string) {
	if o.Next != nil {
		o.Next(value)
	}
}

// OnCompleted calls Completed.
func (o ObserverFuncs) OnCompleted() {
	if o.Completed != nil {
		o.Completed()
	}
}

// OnFailed calls Failed.
func (o ObserverFuncs) OnFailed(message string) {
	if o.Failed != nil {
		o.Failed(message)
	}
}

// Failure is the error type that pipelines fail with.
type Failure struct {
	Content string
}

func (f Failure) Error() string {
	return f.Content
}

// SubscriptionFunc adapts a function to the Subscription interface.
type SubscriptionFunc func()

// Cancel calls f.
func (f SubscriptionFunc) Cancel() {
	if f != nil {
		f()
	}
}

// Subscriptions cancels a group of subscriptions together.
type Subscriptions []Subscription

// Cancel cancels every subscription in the group.
func (s Subscriptions) Cancel() {
	for _, sub := range s {
		if sub != nil {
			sub.Cancel()
		}
	}
}

// A Guard wraps an observer so that it sees at most one terminal delivery and
// nothing after the terminal delivery or after Stop.
type Guard struct {
	downstream Observer
	closed     bool
}

// NewGuard wraps an observer.
func NewGuard(downstream Observer) *Guard {
	return &Guard{downstream: downstream}
}

// Closed returns true once the guard will not deliver anymore.
func (g *Guard) Closed() bool {
	return g.closed
}

// Stop closes the guard without delivering anything.
func (g *Guard) Stop() {
	g.closed = true
}

// OnNext forwards the value if the guard is open.
func (g *Guard) OnNext(value string) {
	if g.closed {
		return
	}

	g.downstream.OnNext(value)
}

// OnCompleted closes the guard and forwards the completion.
func (g *Guard) OnCompleted() {
	if g.closed {
		return
	}

	g.closed = true
	g.downstream.OnCompleted()
}

// OnFailed closes the guard and forwards the failure.
func (g *Guard) OnFailed(message string) {
	if g.closed {
		return
	}

	g.closed = true
	g.downstream.OnFailed(message)
}
