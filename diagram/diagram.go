// Package diagram draws lanes as text marble diagrams.
package diagram

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/marbles/experiment"
	"github.com/sarchlab/marbles/stream"
)

// MinWidth is the narrowest track that can be drawn.
const MinWidth = 11

// Render draws the lane as a track of the given width. A value marble shows
// its content, a completion shows as | and an error as X. A marble that
// lands on another one is drawn over it.
func Render(lane stream.Lane, width int) string {
	if width < MinWidth {
		width = MinWidth
	}

	track := []rune(strings.Repeat("-", width))

	for _, e := range lane.Sorted() {
		col := column(e.Time, width)

		switch e.Kind {
		case stream.KindFinished:
			track[col] = '|'
		case stream.KindError:
			track[col] = 'X'
		default:
			label := []rune(e.Content)
			if len(label) == 0 {
				label = []rune{'o'}
			}

			for i, r := range label {
				if col+i >= width {
					break
				}
				track[col+i] = r
			}
		}
	}

	return string(track) + ">"
}

func column(time, width int) int {
	switch {
	case time <= stream.MinTime:
		return 0
	case time >= stream.MaxTime:
		return width - 1
	}

	return time * (width - 1) / (stream.MaxTime - stream.MinTime)
}

// RenderOperator draws the input lanes, the operator, and the output lane
// one under another.
func RenderOperator(
	op *experiment.Operator,
	inputs []stream.Lane,
	output stream.Lane,
	width int,
) string {
	buf := new(strings.Builder)
	w := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)

	for i, lane := range inputs {
		fmt.Fprintf(w, "input %d\t%s\n", i+1, Render(lane, width))
	}

	fmt.Fprintf(w, "\t[ %s ]\n", op.Name)
	fmt.Fprintf(w, "output\t%s\n", Render(output, width))

	w.Flush()

	for _, lane := range append(append([]stream.Lane(nil), inputs...), output) {
		for _, e := range lane.Sorted() {
			if e.Kind == stream.KindError {
				fmt.Fprintf(buf, "X at %d: %s\n", e.Time, e.Content)
			}
		}
	}

	return buf.String()
}
