// Package experiment runs operator pipelines against a virtual clock and
// collects what they emit as a lane of marbles.
package experiment

import (
	"errors"
	"fmt"

	"github.com/sarchlab/marbles/sim"
	"github.com/sarchlab/marbles/stream"
)

// ErrArity is returned when an operator receives the wrong number of inputs.
var ErrArity = errors.New("wrong number of inputs")

// A UnaryPipeline derives a publisher from one input. The clock is passed so
// that time-based operators can schedule work.
type UnaryPipeline func(
	input stream.Publisher,
	clock sim.Scheduler,
) stream.Publisher

// A BinaryPipeline derives a publisher from two inputs.
type BinaryPipeline func(a, b stream.Publisher) stream.Publisher

// An Operator describes an operator under test together with the example
// inputs it is shown with.
type Operator struct {
	Name             string
	Description      string
	DocumentationURL string

	// Inputs holds one lane for unary operators and two for binary ones.
	Inputs []stream.Lane

	unary  UnaryPipeline
	binary BinaryPipeline
}

// NewUnary describes an operator with one input lane.
func NewUnary(
	name, description, documentationURL string,
	input stream.Lane,
	pipeline UnaryPipeline,
) *Operator {
	return &Operator{
		Name:             name,
		Description:      description,
		DocumentationURL: documentationURL,
		Inputs:           []stream.Lane{input},
		unary:            pipeline,
	}
}

// NewBinary describes an operator with two input lanes.
func NewBinary(
	name, description, documentationURL string,
	a, b stream.Lane,
	pipeline BinaryPipeline,
) *Operator {
	return &Operator{
		Name:             name,
		Description:      description,
		DocumentationURL: documentationURL,
		Inputs:           []stream.Lane{a, b},
		binary:           pipeline,
	}
}

// Arity returns the number of input lanes the operator takes.
func (o *Operator) Arity() int {
	if o.binary != nil {
		return 2
	}

	return 1
}

// Build derives the publisher under test from the input publishers.
func (o *Operator) Build(
	inputs []stream.Publisher,
	clock sim.Scheduler,
) (stream.Publisher, error) {
	if len(inputs) != o.Arity() {
		return nil, fmt.Errorf("%w: %s takes %d, got %d",
			ErrArity, o.Name, o.Arity(), len(inputs))
	}

	if o.binary != nil {
		return o.binary(inputs[0], inputs[1]), nil
	}

	return o.unary(inputs[0], clock), nil
}
