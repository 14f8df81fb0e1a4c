// Command marbles lists, runs, and serves the built-in operators as marble
// diagrams.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/marbles/marbles/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
