package operators

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/marbles/sim"
	"github.com/sarchlab/marbles/stream"
)

var _ = Describe("Transforming operators", func() {
	lane := func() stream.Lane {
		return stream.Lane{
			stream.Next(10, "a"),
			stream.Next(40, "b"),
			stream.Next(60, "c"),
			stream.Finished(90),
		}
	}

	It("should map values", func() {
		out := run(unary(func(p stream.Publisher, _ sim.Scheduler) stream.Publisher {
			return Map(p, strings.ToUpper)
		}), lane())

		Expect(out).To(Equal("A@10 B@40 C@60 |@90"))
	})

	It("should fail a try-map at the first error", func() {
		out := run(unary(func(p stream.Publisher, _ sim.Scheduler) stream.Publisher {
			return TryMap(p, func(v string) (string, error) {
				if v == "b" {
					return "", errors.New("bad b")
				}
				return v + v, nil
			})
		}), lane())

		Expect(out).To(Equal("aa@10 x(bad b)@40"))
	})

	It("should scan values", func() {
		out := run(unary(func(p stream.Publisher, _ sim.Scheduler) stream.Publisher {
			return Scan(p, "", func(acc, v string) string { return acc + v })
		}), lane())

		Expect(out).To(Equal("a@10 ab@40 abc@60 |@90"))
	})

	It("should replace errors", func() {
		out := run(unary(func(p stream.Publisher, _ sim.Scheduler) stream.Publisher {
			return ReplaceError(p, "fallback")
		}), stream.Lane{stream.Next(10, "a"), stream.Error(30, "boom")})

		Expect(out).To(Equal("a@10 fallback@30 |@30"))
	})
})

var _ = Describe("Filtering operators", func() {
	It("should filter values", func() {
		out := run(unary(func(p stream.Publisher, _ sim.Scheduler) stream.Publisher {
			return Filter(p, func(v string) bool { return v != "2" })
		}), stream.Lane{
			stream.Next(10, "1"), stream.Next(20, "2"),
			stream.Next(30, "3"), stream.Finished(40),
		})

		Expect(out).To(Equal("1@10 3@30 |@40"))
	})

	It("should remove consecutive duplicates", func() {
		out := run(unary(func(p stream.Publisher, _ sim.Scheduler) stream.Publisher {
			return RemoveDuplicates(p)
		}), stream.Lane{
			stream.Next(10, "a"), stream.Next(20, "a"),
			stream.Next(30, "b"), stream.Next(40, "a"), stream.Finished(50),
		})

		Expect(out).To(Equal("a@10 b@30 a@40 |@50"))
	})

	It("should ignore output", func() {
		out := run(unary(func(p stream.Publisher, _ sim.Scheduler) stream.Publisher {
			return IgnoreOutput(p)
		}), stream.Lane{stream.Next(10, "a"), stream.Error(20, "e")})

		Expect(out).To(Equal("x(e)@20"))
	})
})
