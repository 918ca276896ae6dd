package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var verbose bool

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feynman-tools",
		Short: "Reading agent and policy-gradient simulator utilities",
	}
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(
		ServeCommand(),
		AgentCommand(),
	)

	return cmd
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// signalContext returns a context cancelled on interrupt or when done is
// closed by the command itself.
func signalContext() (context.Context, chan<- struct{}) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	doneCh := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		cancel()
	}()

	return ctx, doneCh
}
