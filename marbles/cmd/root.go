// Package cmd provides the command-line interface for marbles.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/marbles/experiment"
	"github.com/sarchlab/marbles/monitoring"
)

// Environment variables that provide the defaults of the flags.
const (
	EnvMaxSteps = "MARBLES_MAX_STEPS"
	EnvWidth    = "MARBLES_WIDTH"
	EnvPort     = "MARBLES_PORT"
)

// config holds the settings shared by all the commands.
type config struct {
	maxSteps uint64
	width    int
	port     int
	verbose  bool
}

var cfg config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marbles",
	Short: "Marbles runs reactive operators on a virtual clock.",
	Long: `Marbles runs reactive operators on a virtual clock and draws what ` +
		`they emit as marble diagrams. Settings can also be given with the ` +
		EnvMaxSteps + `, ` + EnvWidth + `, and ` + EnvPort + ` variables, ` +
		`which are read from a .env file if present.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Uint64("max-steps", experiment.DefaultMaxSteps,
		"Maximum number of clock steps of a run.")
	flags.Int("width", monitoring.DefaultWidth,
		"Width of the drawn lanes.")
	flags.BoolP("verbose", "v", false,
		"Log every action that the clock fires.")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("cannot load .env: %v", err)
	}

	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error

	cfg.maxSteps, err = uint64Setting(cmd, "max-steps", EnvMaxSteps)
	if err != nil {
		return err
	}

	width, err := uint64Setting(cmd, "width", EnvWidth)
	if err != nil {
		return err
	}
	cfg.width = int(width)

	cfg.verbose, _ = cmd.Flags().GetBool("verbose")

	return nil
}

// uint64Setting reads a flag, falling back to the environment variable when
// the flag is not given.
func uint64Setting(cmd *cobra.Command, flag, env string) (uint64, error) {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		return 0, fmt.Errorf("unknown flag %s", flag)
	}

	value := f.Value.String()
	if v, ok := os.LookupEnv(env); ok && !f.Changed {
		value = v
	}

	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", flag, value, err)
	}

	return n, nil
}

func runnerBuilder() experiment.RunnerBuilder {
	b := experiment.MakeRunnerBuilder().WithMaxSteps(cfg.maxSteps)

	if cfg.verbose {
		b = b.WithLogger(log.New(os.Stderr, "", 0))
	}

	return b
}
