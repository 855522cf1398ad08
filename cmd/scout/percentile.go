package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/scout/internal/domain/model"
)

var percentileCmd = &cobra.Command{
	Use:   "percentile <player-id>",
	Short: "Score a player against a cohort",
	Long: "Prints the share of the cohort that performed no better than the player on one test. " +
		"The cohort defaults to the player's draft class and can be narrowed by position and draft status.",
	Args: cobra.ExactArgs(1),
	RunE: runPercentile,
}

var (
	percentileTest    string
	percentileFilters filterFlags
)

func init() {
	percentileCmd.Flags().StringVar(&percentileTest, "test", "", "Test name, e.g. Forty (required)")
	percentileFilters.register(percentileCmd)
	if err := percentileCmd.MarkFlagRequired("test"); err != nil {
		panic(fmt.Sprintf("failed to mark test flag as required: %v", err))
	}
	rootCmd.AddCommand(percentileCmd)
}

func runPercentile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, _, err := bootstrap(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer svc.Stop()

	id := model.PlayerID(args[0])
	p, err := svc.Player(ctx, id)
	if err != nil {
		return err
	}
	f, err := percentileFilters.filter(model.ClassOf(p))
	if err != nil {
		return err
	}
	v, err := svc.Percentile(ctx, id, percentileTest, f)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s [%s]: %g\n", id, percentileTest, f, v)
	return err
}
