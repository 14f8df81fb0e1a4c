package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/marbles/catalog"
	"github.com/sarchlab/marbles/diagram"
	"github.com/sarchlab/marbles/experiment"
	"github.com/sarchlab/marbles/stream"
	"github.com/sarchlab/marbles/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run [operator]",
	Short: "Run an operator and draw its output.",
	Long: "`run [operator]` runs the operator on its example inputs. " +
		"Each --input flag replaces one input lane, written like " +
		"\"A@10 B@40 |@90\".",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, ok := catalog.Find(args[0])
		if !ok {
			return fmt.Errorf("operator %s not found", args[0])
		}

		counter := tracing.NewStepCountTracer()
		session := experiment.NewSession(op, runnerBuilder().WithHook(counter))

		inputs, _ := cmd.Flags().GetStringArray("input")
		if len(inputs) > 0 {
			lanes := make([]stream.Lane, 0, len(inputs))
			for _, s := range inputs {
				lane, err := stream.ParseLane(s)
				if err != nil {
					return err
				}
				lanes = append(lanes, lane)
			}

			if err := session.SetInputs(lanes); err != nil {
				return err
			}
		}

		result, err := session.Update(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %s\n%s\n\n", op.Name, op.Description,
			op.DocumentationURL)
		fmt.Fprint(out, diagram.RenderOperator(
			op, session.Inputs(), result.Events, cfg.width))
		fmt.Fprintf(out, "\n%s\n%s after %d steps, "+
			"%d one-shot and %d repeating actions fired\n",
			result.Events, result.Outcome, result.Steps,
			counter.OneShot(), counter.Repeating())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringArray("input", nil,
		"Replace an input lane. Repeat for binary operators.")
}
