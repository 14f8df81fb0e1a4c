package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/marbles/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in operators.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

		for _, c := range catalog.Collections() {
			fmt.Fprintf(w, "%s\n", c.Name)
			for _, op := range c.Operators {
				fmt.Fprintf(w, "  %s\t%s\n", op.Name, op.Description)
			}
		}

		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
