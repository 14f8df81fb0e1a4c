package experiment

import (
	"bytes"
	"context"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/marbles/operators"
	"github.com/sarchlab/marbles/sim"
	"github.com/sarchlab/marbles/stream"
	"github.com/sarchlab/marbles/tracing"
)

func identity(p stream.Publisher, _ sim.Scheduler) stream.Publisher {
	return p
}

func wait(f *Future) Result {
	r, err := f.Wait(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Runner", func() {
	var (
		clock *sim.VirtualClock
		lane  stream.Lane
	)

	BeforeEach(func() {
		clock = sim.NewVirtualClock()
		lane = stream.Lane{
			stream.Next(10, "A"),
			stream.Next(40, "B"),
			stream.Finished(90),
		}
	})

	// ticker ticks every millisecond from 1ms. Unless endless is set, it
	// completes at 3ms, before the third tick.
	ticker := func(endless bool) stream.Publisher {
		return stream.PublisherFunc(func(o stream.Observer) stream.Subscription {
			h := clock.ScheduleRepeating(
				sim.Milliseconds(1), sim.Milliseconds(1),
				func() { o.OnNext("tick") })

			if !endless {
				clock.ScheduleOnce(sim.Milliseconds(3), o.OnCompleted)
			}

			return stream.SubscriptionFunc(h.Cancel)
		})
	}

	It("should replay a lane as it is", func() {
		p := stream.NewReplayPublisher(lane, clock)

		r := wait(MakeRunnerBuilder().Build().Run(
			context.Background(), p, clock))

		Expect(r.Events.String()).To(Equal("A@10 B@40 |@90"))
		Expect(r.Events.Equivalent(lane)).To(BeTrue())
		Expect(r.Outcome).To(Equal(OutcomeTerminated))
		Expect(r.Steps).To(Equal(uint64(3)))
		Expect(r.EndTime).To(Equal(sim.Milliseconds(90)))
		Expect(r.RunID).NotTo(BeEmpty())
	})

	It("should produce the same output every time", func() {
		op := NewBinary("merge", "", "",
			stream.Lane{stream.Next(10, "A"), stream.Finished(50)},
			stream.Lane{stream.Next(5, "B"), stream.Finished(60)},
			operators.Merge)

		first, err := Start(context.Background(), op, op.Inputs,
			MakeRunnerBuilder())
		Expect(err).NotTo(HaveOccurred())
		second, err := Start(context.Background(), op, op.Inputs,
			MakeRunnerBuilder())
		Expect(err).NotTo(HaveOccurred())

		a, b := wait(first), wait(second)
		Expect(a.Events).To(Equal(b.Events))
		Expect(a.Events.String()).To(Equal("B@5 A@10 |@60"))
		Expect(a.RunID).NotTo(Equal(b.RunID))
	})

	It("should never see the clock go backwards", func() {
		timeline := tracing.NewTimelineTracer()

		a := stream.NewReplayPublisher(lane, clock)
		b := stream.NewReplayPublisher(stream.Lane{
			stream.Next(20, "C"), stream.Next(25, "D"), stream.Finished(70),
		}, clock)
		p := operators.Merge(operators.Delay(a, sim.Milliseconds(15), clock), b)

		r := wait(MakeRunnerBuilder().WithHook(timeline).Build().Run(
			context.Background(), p, clock))

		monotonic, _ := timeline.Monotonic()
		Expect(monotonic).To(BeTrue())
		Expect(timeline.Samples()).To(HaveLen(int(r.Steps)))
	})

	It("should keep only the first terminal event", func() {
		p := stream.PublisherFunc(func(o stream.Observer) stream.Subscription {
			clock.ScheduleOnce(sim.Milliseconds(10), func() {
				o.OnNext("A")
				o.OnCompleted()
				o.OnNext("B")
				o.OnFailed("late")
			})
			return stream.SubscriptionFunc(func() {})
		})

		r := wait(MakeRunnerBuilder().Build().Run(
			context.Background(), p, clock))

		Expect(r.Events.String()).To(Equal("A@10 |@10"))
	})

	It("should stop stepping at the terminal event", func() {
		endless := stream.PublisherFunc(func(o stream.Observer) stream.Subscription {
			clock.ScheduleRepeating(
				sim.Milliseconds(1), sim.Milliseconds(1),
				func() { o.OnNext("tick") })
			clock.ScheduleOnce(sim.Milliseconds(3), o.OnCompleted)

			// Never stops ticking.
			return stream.SubscriptionFunc(func() {})
		})

		r := wait(MakeRunnerBuilder().Build().Run(
			context.Background(), endless, clock))

		Expect(r.Events.String()).To(Equal("tick@1 tick@2 |@3"))
		Expect(r.Outcome).To(Equal(OutcomeTerminated))
		Expect(r.Steps).To(Equal(uint64(3)))
	})

	It("should cancel the subscription when the run stops", func() {
		wait(MakeRunnerBuilder().Build().Run(
			context.Background(), ticker(false), clock))

		Expect(clock.Pending()).To(Equal(0))
	})

	It("should keep stepping after the terminal event when draining", func() {
		endless := stream.PublisherFunc(func(o stream.Observer) stream.Subscription {
			clock.ScheduleRepeating(
				sim.Milliseconds(1), sim.Milliseconds(1),
				func() { o.OnNext("tick") })
			clock.ScheduleOnce(sim.Milliseconds(3), o.OnCompleted)
			return stream.SubscriptionFunc(func() {})
		})

		r := wait(MakeRunnerBuilder().
			WithMaxSteps(20).
			WithDrainAfterTerminal().
			Build().
			Run(context.Background(), endless, clock))

		Expect(r.Events.String()).To(Equal("tick@1 tick@2 |@3"))
		Expect(r.Outcome).To(Equal(OutcomeTerminated))
		Expect(r.Steps).To(Equal(uint64(20)))
	})

	It("should stop at the step limit", func() {
		r := wait(MakeRunnerBuilder().WithMaxSteps(5).Build().Run(
			context.Background(), ticker(true), clock))

		Expect(r.Outcome).To(Equal(OutcomeStepLimit))
		Expect(r.Steps).To(Equal(uint64(5)))
		Expect(r.Events).To(HaveLen(5))
	})

	It("should report a lane without a terminal event as exhausted", func() {
		p := stream.NewReplayPublisher(lane[:2], clock)

		r := wait(MakeRunnerBuilder().Build().Run(
			context.Background(), p, clock))

		Expect(r.Events.String()).To(Equal("A@10 B@40"))
		Expect(r.Outcome).To(Equal(OutcomeExhausted))
	})

	It("should stop when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := wait(MakeRunnerBuilder().Build().Run(
			ctx, stream.NewReplayPublisher(lane, clock), clock))

		Expect(r.Outcome).To(Equal(OutcomeCancelled))
		Expect(r.Events).To(BeEmpty())
		Expect(r.Steps).To(BeZero())
	})

	It("should turn a panic during subscription into an error", func() {
		p := stream.PublisherFunc(func(stream.Observer) stream.Subscription {
			panic("boom")
		})

		r := wait(MakeRunnerBuilder().Build().Run(
			context.Background(), p, clock))

		Expect(r.Events.String()).To(Equal("x(boom)@0"))
		Expect(r.Outcome).To(Equal(OutcomeTerminated))
	})

	It("should turn a panic while building the pipeline into an error", func() {
		op := NewUnary("broken", "", "", lane,
			func(stream.Publisher, sim.Scheduler) stream.Publisher {
				panic("pipeline function failed")
			})

		f, err := Start(context.Background(), op, op.Inputs,
			MakeRunnerBuilder())
		Expect(err).NotTo(HaveOccurred())

		r := wait(f)
		Expect(r.Events.String()).To(Equal("x(pipeline function failed)@0"))
		Expect(r.Outcome).To(Equal(OutcomeTerminated))
		Expect(r.Steps).To(BeZero())
	})

	It("should turn a panic during a step into an error", func() {
		p := operators.Map(stream.NewReplayPublisher(lane, clock),
			func(v string) string {
				if v == "B" {
					panic("bad value")
				}
				return v
			})

		r := wait(MakeRunnerBuilder().Build().Run(
			context.Background(), p, clock))

		Expect(r.Events.String()).To(Equal("A@10 x(bad value)@40"))
	})

	It("should log the fired actions", func() {
		buf := new(bytes.Buffer)
		logger := log.New(buf, "", 0)

		wait(MakeRunnerBuilder().WithLogger(logger).Build().Run(
			context.Background(), stream.NewReplayPublisher(lane, clock), clock))

		Expect(buf.String()).To(Equal(
			"10000000, step 1, action 0 (once)\n" +
				"40000000, step 2, action 1 (once)\n" +
				"90000000, step 3, action 2 (once)\n"))
	})

	It("should panic when used twice", func() {
		runner := MakeRunnerBuilder().Build()
		wait(runner.Run(context.Background(),
			stream.NewReplayPublisher(lane, clock), clock))

		Expect(func() {
			runner.Run(context.Background(),
				stream.NewReplayPublisher(lane, clock), clock)
		}).To(Panic())
	})
})

var _ = Describe("Future", func() {
	It("should resolve only once", func() {
		f := newFuture()

		_, ok := f.Result()
		Expect(ok).To(BeFalse())

		Expect(f.resolve(Result{RunID: "a"})).To(BeTrue())
		Expect(f.resolve(Result{RunID: "b"})).To(BeFalse())

		r, ok := f.Result()
		Expect(ok).To(BeTrue())
		Expect(r.RunID).To(Equal("a"))
		Eventually(f.Done()).Should(BeClosed())
	})

	It("should stop waiting when the context ends", func() {
		f := newFuture()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.Wait(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Outcome", func() {
	It("should print its name", func() {
		Expect(OutcomeStepLimit.String()).To(Equal("step limit"))
		Expect(Outcome(9).String()).To(Equal("Outcome(9)"))
	})

	It("should read back its name", func() {
		var o Outcome
		Expect(o.UnmarshalText([]byte("cancelled"))).To(Succeed())
		Expect(o).To(Equal(OutcomeCancelled))
		Expect(o.UnmarshalText([]byte("done"))).NotTo(Succeed())
	})
})
