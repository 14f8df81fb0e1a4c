package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/marbles/monitoring"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the operators over HTTP.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		port, err := uint64Setting(cmd, "port", EnvPort)
		if err != nil {
			return err
		}
		cfg.port = int(port)

		m := monitoring.NewMonitor().
			WithWidth(cfg.width).
			WithRunnerBuilder(runnerBuilder())

		if cfg.port > 0 {
			m = m.WithPortNumber(cfg.port)
		}

		if open, _ := cmd.Flags().GetBool("open"); open {
			m = m.WithBrowser()
		}

		m.StartServer()

		atexit.Register(func() {
			ctx, cancel := context.WithTimeout(
				context.Background(), 5*time.Second)
			defer cancel()

			_ = m.StopServer(ctx)
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		<-ctx.Done()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0,
		"Port of the server. A random port is used if below 1000.")
	serveCmd.Flags().Bool("open", false, "Open the server in a browser.")
}
