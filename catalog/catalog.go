// Package catalog lists the built-in operators, grouped the way they are
// browsed, each with example input lanes.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/marbles/experiment"
	"github.com/sarchlab/marbles/operators"
	"github.com/sarchlab/marbles/sim"
	"github.com/sarchlab/marbles/stream"
)

const docBase = "http://reactivex.io/documentation/operators/"

// A Collection is a named group of operators.
type Collection struct {
	Name      string
	Operators []*experiment.Operator
}

// Collections returns all the built-in collections in display order. Every
// call returns new operators with new example lanes.
func Collections() []Collection {
	return []Collection{
		{Name: "Mapping", Operators: mapping()},
		{Name: "Filtering", Operators: filtering()},
		{Name: "Reducing", Operators: reducing()},
		{Name: "Mathematical", Operators: mathematical()},
		{Name: "Matching", Operators: matching()},
		{Name: "Sequence", Operators: sequence()},
		{Name: "Selecting", Operators: selecting()},
		{Name: "Combining", Operators: combining()},
		{Name: "Timing", Operators: timing()},
		{Name: "Error Handling", Operators: errorHandling()},
	}
}

// All returns the operators of all the collections in display order.
func All() []*experiment.Operator {
	var all []*experiment.Operator
	for _, c := range Collections() {
		all = append(all, c.Operators...)
	}

	return all
}

// Find looks an operator up by name, ignoring case.
func Find(name string) (*experiment.Operator, bool) {
	for _, op := range All() {
		if strings.EqualFold(op.Name, name) {
			return op, true
		}
	}

	return nil, false
}

func numbers() stream.Lane {
	return stream.Lane{
		stream.Next(10, "1"),
		stream.Next(30, "2"),
		stream.Next(50, "3"),
		stream.Next(70, "4"),
		stream.Finished(90),
	}
}

func letters() stream.Lane {
	return stream.Lane{
		stream.Next(10, "A"),
		stream.Next(40, "B"),
		stream.Next(70, "C"),
		stream.Finished(90),
	}
}

func unordered() stream.Lane {
	return stream.Lane{
		stream.Next(10, "3"),
		stream.Next(30, "7"),
		stream.Next(50, "2"),
		stream.Next(70, "5"),
		stream.Finished(90),
	}
}

func bursts() stream.Lane {
	return stream.Lane{
		stream.Next(10, "a"),
		stream.Next(20, "b"),
		stream.Next(50, "c"),
		stream.Next(60, "d"),
		stream.Finished(90),
	}
}

// sum adds v to the running total. Values that are not numbers are skipped.
func sum(acc, v string) string {
	y, err := strconv.Atoi(v)
	if err != nil {
		return acc
	}

	x, _ := strconv.Atoi(acc)
	return strconv.Itoa(x + y)
}

func isEven(v string) bool {
	n, err := strconv.Atoi(v)
	return err == nil && n%2 == 0
}

func pair(a, b string) string {
	return a + b
}

func unary(
	name, description, doc string,
	input stream.Lane,
	pipeline experiment.UnaryPipeline,
) *experiment.Operator {
	return experiment.NewUnary(name, description, docBase+doc, input, pipeline)
}

// clockless adapts an operator that does not need the clock.
func clockless(
	op func(stream.Publisher) stream.Publisher,
) experiment.UnaryPipeline {
	return func(p stream.Publisher, _ sim.Scheduler) stream.Publisher {
		return op(p)
	}
}

func mapping() []*experiment.Operator {
	return []*experiment.Operator{
		unary("map", "Transforms each value with a function.", "map.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.Map(p, func(v string) string {
					n, err := strconv.Atoi(v)
					if err != nil {
						return v
					}
					return strconv.Itoa(n * 10)
				})
			})),
		unary("scan", "Emits the running total of the values, skipping non-numbers.", "scan.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.Scan(p, "0", sum)
			})),
	}
}

func filtering() []*experiment.Operator {
	return []*experiment.Operator{
		unary("filter", "Only lets the even values through.", "filter.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.Filter(p, isEven)
			})),
		unary("removeDuplicates",
			"Drops values equal to the value right before them.",
			"distinct.html",
			stream.Lane{
				stream.Next(10, "A"),
				stream.Next(25, "A"),
				stream.Next(40, "B"),
				stream.Next(55, "B"),
				stream.Next(70, "A"),
				stream.Finished(90),
			},
			clockless(operators.RemoveDuplicates)),
		unary("ignoreOutput", "Drops every value and keeps the terminal event.",
			"ignoreelements.html",
			numbers(),
			clockless(operators.IgnoreOutput)),
	}
}

func reducing() []*experiment.Operator {
	return []*experiment.Operator{
		unary("reduce", "Emits the sum of all the numbers on completion.",
			"reduce.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.Reduce(p, "0", sum)
			})),
		unary("collect", "Emits all the values as one list on completion.",
			"to.html",
			letters(),
			clockless(operators.Collect)),
	}
}

func mathematical() []*experiment.Operator {
	return []*experiment.Operator{
		unary("count", "Emits the number of values on completion.",
			"count.html",
			letters(),
			clockless(operators.Count)),
		unary("max", "Emits the largest value on completion.",
			"max.html",
			unordered(),
			clockless(operators.Max)),
		unary("min", "Emits the smallest value on completion.",
			"min.html",
			unordered(),
			clockless(operators.Min)),
	}
}

func matching() []*experiment.Operator {
	return []*experiment.Operator{
		unary("contains", "Tells whether the value 2 shows up.",
			"contains.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.Contains(p, "2")
			})),
		unary("allSatisfy", "Tells whether every value is below 3.",
			"all.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.AllSatisfy(p, func(v string) bool {
					return operators.Less(v, "3")
				})
			})),
	}
}

func sequence() []*experiment.Operator {
	return []*experiment.Operator{
		unary("first", "Emits the first value and completes.",
			"first.html",
			letters(),
			clockless(operators.First)),
		unary("last", "Emits the last value on completion.",
			"last.html",
			letters(),
			clockless(operators.Last)),
		unary("dropFirst", "Skips the first two values.",
			"skip.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.DropFirst(p, 2)
			})),
		unary("prefix", "Emits the first two values and completes.",
			"take.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.Prefix(p, 2)
			})),
		unary("prepend", "Emits 0 before the values.",
			"startwith.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.Prepend(p, "0")
			})),
		unary("append", "Emits 5 after the values.",
			"concat.html",
			numbers(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.Append(p, "5")
			})),
	}
}

func selecting() []*experiment.Operator {
	return []*experiment.Operator{
		unary("elementAt", "Emits the second value and completes.",
			"elementat.html",
			letters(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.ElementAt(p, 1)
			})),
	}
}

func combining() []*experiment.Operator {
	top := func() stream.Lane {
		return stream.Lane{
			stream.Next(10, "A"),
			stream.Next(40, "B"),
			stream.Next(70, "C"),
			stream.Finished(80),
		}
	}

	bottom := func() stream.Lane {
		return stream.Lane{
			stream.Next(25, "1"),
			stream.Next(55, "2"),
			stream.Finished(90),
		}
	}

	return []*experiment.Operator{
		experiment.NewBinary("merge",
			"Emits the values of both inputs as they arrive.",
			docBase+"merge.html",
			top(), bottom(),
			operators.Merge),
		experiment.NewBinary("combineLatest",
			"Combines the latest values of both inputs whenever either emits.",
			docBase+"combinelatest.html",
			top(), bottom(),
			func(a, b stream.Publisher) stream.Publisher {
				return operators.CombineLatest(a, b, pair)
			}),
		experiment.NewBinary("zip",
			"Pairs the values of both inputs in order.",
			docBase+"zip.html",
			top(), bottom(),
			func(a, b stream.Publisher) stream.Publisher {
				return operators.Zip(a, b, pair)
			}),
		experiment.NewBinary("concat",
			"Emits the values of the second input after the first completes.",
			docBase+"concat.html",
			stream.Lane{
				stream.Next(10, "A"),
				stream.Next(30, "B"),
				stream.Finished(40),
			},
			stream.Lane{
				stream.Next(60, "1"),
				stream.Next(80, "2"),
				stream.Finished(90),
			},
			operators.Concat),
	}
}

func timing() []*experiment.Operator {
	return []*experiment.Operator{
		unary("delay", "Shifts every event 15 units later.",
			"delay.html",
			stream.Lane{
				stream.Next(10, "a"),
				stream.Next(40, "b"),
				stream.Finished(75),
			},
			func(p stream.Publisher, clock sim.Scheduler) stream.Publisher {
				return operators.Delay(p, sim.FromNormalized(15), clock)
			}),
		unary("debounce", "Emits a value after 20 units without a new one.",
			"debounce.html",
			bursts(),
			func(p stream.Publisher, clock sim.Scheduler) stream.Publisher {
				return operators.Debounce(p, sim.FromNormalized(20), clock)
			}),
		unary("throttle", "Emits at most one value every 20 units.",
			"sample.html",
			bursts(),
			func(p stream.Publisher, clock sim.Scheduler) stream.Publisher {
				return operators.Throttle(p, sim.FromNormalized(20), clock, true)
			}),
	}
}

func errorHandling() []*experiment.Operator {
	failing := func() stream.Lane {
		return stream.Lane{
			stream.Next(10, "1"),
			stream.Next(30, "2"),
			stream.Error(60, "boom"),
		}
	}

	return []*experiment.Operator{
		unary("tryMap", "Fails on the first value that is not a number.",
			"map.html",
			stream.Lane{
				stream.Next(10, "1"),
				stream.Next(30, "2"),
				stream.Next(50, "X"),
				stream.Next(70, "4"),
				stream.Finished(90),
			},
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.TryMap(p, func(v string) (string, error) {
					if _, err := strconv.Atoi(v); err != nil {
						return "", fmt.Errorf("%s is not a number", v)
					}
					return v, nil
				})
			})),
		unary("replaceError", "Replaces a failure with the value 0.",
			"catch.html",
			failing(),
			clockless(func(p stream.Publisher) stream.Publisher {
				return operators.ReplaceError(p, "0")
			})),
	}
}
