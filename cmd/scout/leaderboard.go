package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/scout/internal/domain/model"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank a cohort on one test",
	Long:  "Prints cohort members best first with their competition rank and percentile.",
	RunE:  runLeaderboard,
}

var (
	leaderboardTest    string
	leaderboardLimit   int
	leaderboardFilters filterFlags
)

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardTest, "test", "", "Test name, e.g. Forty (required)")
	leaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", 10, "Maximum rows to print, 0 for all")
	leaderboardFilters.register(leaderboardCmd)
	for _, name := range []string{"test", "year"} {
		if err := leaderboardCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	rootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	svc, _, err := bootstrap(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer svc.Stop()

	f, err := leaderboardFilters.filter(model.Filter{})
	if err != nil {
		return err
	}
	standings, err := svc.Rankings(ctx, leaderboardTest, f, leaderboardLimit)
	if err != nil {
		return err
	}

	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "RANK\tPLAYER\tPOS\t%s\tPCT\n", leaderboardTest)
	for _, s := range standings {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%g\n", s.Rank, s.Player.Name(), s.Player.Position(), s.Score, s.Percentile)
	}
	return tw.Flush()
}
