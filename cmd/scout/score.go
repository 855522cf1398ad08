package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/scout/internal/domain/model"
)

var scoreCmd = &cobra.Command{
	Use:   "score <player-id> [test]",
	Short: "Print a player's record and raw results",
	Long:  "Prints the biographical record and every recorded test result of a player, or one result when a test is named. Player ids have the form \"Name_Year\".",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runScore,
}

var scoreJSON bool

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(scoreCmd)
}

type scoreOutput struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Position string             `json:"position"`
	Year     int                `json:"year"`
	Status   string             `json:"status"`
	Scores   map[string]float64 `json:"scores"`
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, _, err := bootstrap(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer svc.Stop()

	id := model.PlayerID(args[0])
	w := cmd.OutOrStdout()

	if len(args) == 2 {
		v, err := svc.Score(ctx, id, args[1])
		if err != nil {
			return err
		}
		if scoreJSON {
			return writeJSON(w, map[string]any{"player": string(id), "test": args[1], "value": v})
		}
		_, err = fmt.Fprintf(w, "%s %s: %g\n", id, args[1], v)
		return err
	}

	p, err := svc.Player(ctx, id)
	if err != nil {
		return err
	}
	out := scoreOutput{
		ID:       string(p.ID()),
		Name:     p.Name(),
		Position: p.Position(),
		Year:     p.DraftYear(),
		Status:   p.WasDrafted().String(),
		Scores:   p.Scores(),
	}
	if scoreJSON {
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "%s (%s, %d, %s)\n", out.Name, out.Position, out.Year, out.Status)
	tw := newTable(w)
	for _, test := range p.Tests() {
		fmt.Fprintf(tw, "  %s\t%g\n", test, out.Scores[test])
	}
	return tw.Flush()
}
