package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("VirtualClock", func() {
	var (
		mockCtrl *gomock.Controller
		clock    *VirtualClock
		fired    []string
	)

	record := func(label string) func() {
		return func() { fired = append(fired, label) }
	}

	drain := func() {
		for clock.Advance() {
		}
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		clock = NewVirtualClock()
		fired = nil
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should be idle when nothing is scheduled", func() {
		Expect(clock.Advance()).To(BeFalse())
		Expect(clock.CurrentTime()).To(Equal(VTime(0)))
		Expect(clock.Steps()).To(Equal(uint64(0)))
	})

	It("should fire actions in time order", func() {
		clock.ScheduleOnce(Milliseconds(4), record("evt1"))
		clock.ScheduleOnce(Milliseconds(2), func() {
			fired = append(fired, "evt2")
			clock.ScheduleOnce(Milliseconds(3), record("evt3"))
			clock.ScheduleOnce(Milliseconds(5), record("evt4"))
		})

		drain()

		Expect(fired).To(Equal([]string{"evt2", "evt3", "evt1", "evt4"}))
		Expect(clock.CurrentTime()).To(Equal(Milliseconds(5)))
		Expect(clock.Steps()).To(Equal(uint64(4)))
	})

	It("should move now to the fire time of each action", func() {
		var seen []VTime
		clock.ScheduleOnce(Milliseconds(10), func() {
			seen = append(seen, clock.CurrentTime())
		})
		clock.ScheduleOnce(Milliseconds(40), func() {
			seen = append(seen, clock.CurrentTime())
		})

		drain()

		Expect(seen).To(Equal([]VTime{Milliseconds(10), Milliseconds(40)}))
	})

	It("should break ties by insertion order", func() {
		for i := 0; i < 20; i++ {
			clock.ScheduleOnce(Milliseconds(7), record(string(rune('a'+i))))
		}

		drain()

		expected := make([]string, 0, 20)
		for i := 0; i < 20; i++ {
			expected = append(expected, string(rune('a'+i)))
		}
		Expect(fired).To(Equal(expected))
	})

	It("should ignore one-shot actions that are not in the future", func() {
		clock.ScheduleOnce(Milliseconds(10), func() {
			Expect(clock.ScheduleOnce(Milliseconds(10), record("same"))).
				To(BeFalse())
			Expect(clock.ScheduleOnce(Milliseconds(5), record("past"))).
				To(BeFalse())
		})

		Expect(clock.ScheduleOnce(0, record("zero"))).To(BeFalse())

		drain()

		Expect(fired).To(BeEmpty())
		Expect(clock.Pending()).To(Equal(0))
	})

	It("should fire immediate actions before moving time forward", func() {
		clock.ScheduleOnce(Milliseconds(10), func() {
			fired = append(fired, "a")
			clock.ScheduleImmediate(record("a-follow-up"))
		})
		clock.ScheduleOnce(Milliseconds(10), record("b"))
		clock.ScheduleOnce(Milliseconds(11), record("c"))

		drain()

		Expect(fired).To(Equal([]string{"a", "b", "a-follow-up", "c"}))
	})

	It("should fire immediate actions scheduled before stepping at zero", func() {
		clock.ScheduleImmediate(record("hookup"))

		Expect(clock.Pending()).To(Equal(1))
		Expect(clock.Advance()).To(BeTrue())
		Expect(fired).To(Equal([]string{"hookup"}))
		Expect(clock.CurrentTime()).To(Equal(VTime(0)))
	})

	It("should repeat actions until cancelled", func() {
		var times []VTime
		var handle *ActionHandle
		handle = clock.ScheduleRepeating(
			Milliseconds(10), Milliseconds(20),
			func() {
				times = append(times, clock.CurrentTime())
				if len(times) == 3 {
					handle.Cancel()
				}
			})

		drain()

		Expect(times).To(Equal([]VTime{
			Milliseconds(10), Milliseconds(30), Milliseconds(50),
		}))
		Expect(clock.Pending()).To(Equal(0))
	})

	It("should keep the identity of repeating actions", func() {
		var ids []ActionID
		hook := HookFunc(func(ctx HookCtx) {
			if ctx.Pos == HookPosBeforeAction {
				ids = append(ids, ctx.Item.(ActionInfo).ID)
			}
		})
		clock.AcceptHook(hook)

		handle := clock.ScheduleRepeating(Milliseconds(1), Milliseconds(1), func() {})
		clock.ScheduleOnce(Milliseconds(3), handle.Cancel)

		drain()

		// The canceller was scheduled first, so it wins the tie at 3ms.
		Expect(ids).To(HaveLen(3))
		Expect(ids[0]).To(Equal(handle.ID()))
		Expect(ids[1]).To(Equal(handle.ID()))
		Expect(ids[2]).NotTo(Equal(handle.ID()))
	})

	It("should not fire a repeating action cancelled between firings", func() {
		count := 0
		handle := clock.ScheduleRepeating(
			Milliseconds(10), Milliseconds(10), func() { count++ })
		clock.ScheduleOnce(Milliseconds(15), handle.Cancel)

		drain()

		Expect(count).To(Equal(1))
		Expect(clock.CurrentTime()).To(Equal(Milliseconds(15)))
	})

	It("should fire a repeating action with a zero interval only once", func() {
		count := 0
		clock.ScheduleRepeating(Milliseconds(10), 0, func() { count++ })

		drain()

		Expect(count).To(Equal(1))
	})

	It("should start a repeating action that is late at now", func() {
		var at VTime
		clock.ScheduleOnce(Milliseconds(20), func() {
			h := clock.ScheduleRepeating(Milliseconds(5), Milliseconds(100),
				func() { at = clock.CurrentTime() })
			clock.ScheduleOnce(Milliseconds(50), h.Cancel)
		})

		drain()

		Expect(at).To(Equal(Milliseconds(20)))
	})

	It("should cancel a one-shot action", func() {
		id := clock.ScheduleImmediate(record("cancelled"))
		clock.ScheduleOnce(Milliseconds(1), record("kept"))

		clock.Cancel(id)
		clock.Cancel(id)
		clock.Cancel(ActionID(42))
		clock.Cancel(NoAction)

		Expect(clock.Pending()).To(Equal(1))
		drain()
		Expect(fired).To(Equal([]string{"kept"}))
	})

	It("should panic on nil actions", func() {
		Expect(func() { clock.ScheduleImmediate(nil) }).To(Panic())
	})

	It("should invoke hooks around each action", func() {
		hook := NewMockHook(mockCtrl)
		clock.AcceptHook(hook)

		before := hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(Equal(HookPosBeforeAction))
			Expect(fired).To(BeEmpty())
			info := ctx.Item.(ActionInfo)
			Expect(info.Time).To(Equal(Milliseconds(3)))
			Expect(info.Step).To(Equal(uint64(1)))
		})
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(Equal(HookPosAfterAction))
			Expect(fired).To(Equal([]string{"x"}))
		}).After(before)

		clock.ScheduleOnce(Milliseconds(3), record("x"))

		drain()
	})

	It("should reject duplicated hooks", func() {
		hook := NewMockHook(mockCtrl)
		clock.AcceptHook(hook)

		Expect(func() { clock.AcceptHook(hook) }).To(Panic())
		Expect(clock.NumHooks()).To(Equal(1))
	})

	It("should never move time backward", func() {
		r := rand.New(rand.NewSource(1))
		for i := 0; i < 500; i++ {
			at := Microseconds(int64(r.Intn(1000) + 1))
			clock.ScheduleOnce(at, func() {
				if r.Intn(3) == 0 {
					clock.ScheduleOnce(
						clock.CurrentTime()+Microseconds(int64(r.Intn(50)+1)),
						func() {})
				}
			})
		}

		last := VTime(-1)
		for clock.Advance() {
			Expect(clock.CurrentTime()).To(BeNumerically(">=", last))
			last = clock.CurrentTime()
		}
	})
})
