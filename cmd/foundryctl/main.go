// Command foundryctl runs small, self-contained demonstrations of a
// foundry world: a damage-over-time tick loop, a reactive trigger system, a
// parallel command-buffer flush, and a badger-backed snapshot round-trip.
// It exists to exercise the library end-to-end from outside its own test
// suite, the way a host program would.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:   "foundryctl",
		Short: "Run foundry ECS demonstration scenarios",
	}

	root.AddCommand(
		newDotCommand(),
		newReactiveCommand(),
		newParallelCommand(),
		newSnapshotCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
