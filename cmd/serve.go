package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dvorn/feynman-tools/server"
)

var (
	serveAddr   string
	serveVocab  []string
	rewardToken string
	maxEpisodes int
)

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the policy-gradient simulator HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: logLevel(),
			})))

			rewardIndex := slices.Index(serveVocab, rewardToken)
			if rewardIndex < 0 {
				return fmt.Errorf("reward token %q is not in the vocabulary %v", rewardToken, serveVocab)
			}

			srv, err := server.New(server.Config{
				Addr:        serveAddr,
				Vocabulary:  serveVocab,
				RewardToken: rewardIndex,
				MaxEpisodes: maxEpisodes,
			})
			if err != nil {
				return err
			}

			ctx, doneCh := signalContext()
			defer close(doneCh)

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&serveAddr, "addr", ":8000", "Address to listen on")
	cmd.Flags().StringSliceVar(&serveVocab, "vocab", []string{"A", "B", "C", "D"}, "Token vocabulary")
	cmd.Flags().StringVar(&rewardToken, "reward-token", "C", "Vocabulary token that earns reward")
	cmd.Flags().IntVar(&maxEpisodes, "max-episodes", server.DefaultMaxEpisodes, "Per-request episode limit")

	return cmd
}
