package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvorn/feynman-tools/agent"
	"github.com/dvorn/feynman-tools/llm"
	"github.com/dvorn/feynman-tools/readwise"
)

var (
	vaultPath string
	hours     int
	dryRun    bool
)

func AgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Check recently saved articles against your active problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel(),
			})))

			client, err := llm.FromEnv()
			if err != nil {
				return err
			}

			token := os.Getenv("READWISE_TOKEN")
			if token == "" {
				return fmt.Errorf("READWISE_TOKEN is missing")
			}

			if vaultPath == "" {
				vaultPath = os.Getenv("OBSIDIAN_VAULT_PATH")
			}
			if vaultPath == "" {
				vaultPath = "."
			}

			a := agent.New(agent.Config{
				VaultPath: vaultPath,
				Hours:     hours,
				DryRun:    dryRun,
			}, client, readwise.NewClient(token))

			ctx, doneCh := signalContext()
			defer close(doneCh)

			return a.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&vaultPath, "vault", "", "Obsidian vault path (defaults to OBSIDIAN_VAULT_PATH)")
	cmd.Flags().IntVar(&hours, "hours", 24, "Lookback window for saved articles")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Analyze without writing the daily note")

	return cmd
}
