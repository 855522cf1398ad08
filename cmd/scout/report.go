package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Parse the combine files and report skipped rows",
	Long:  "Parses the player and test files and prints row counts, every skipped row and every overwritten duplicate result.",
	RunE:  runReport,
}

var (
	reportStrict bool
	reportJSON   bool
)

func init() {
	reportCmd.Flags().BoolVar(&reportStrict, "strict", false, "Exit non-zero when any row was skipped")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(reportCmd)
}

type reportOutput struct {
	Players           int      `json:"players"`
	Scores            int      `json:"scores"`
	PlayerRows        int      `json:"player_rows"`
	TestRows          int      `json:"test_rows"`
	DidNotParticipate int      `json:"did_not_participate"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
}

func runReport(cmd *cobra.Command, _ []string) error {
	svc, _, err := bootstrap(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer svc.Stop()

	rep := svc.Report()
	out := reportOutput{
		Players:           rep.Players,
		Scores:            rep.Scores,
		PlayerRows:        rep.PlayerRows,
		TestRows:          rep.TestRows,
		DidNotParticipate: rep.DidNotParticipate,
		Errors:            []string{},
		Warnings:          []string{},
	}
	for _, e := range rep.Errors {
		out.Errors = append(out.Errors, e.Error())
	}
	for _, w := range rep.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}

	w := cmd.OutOrStdout()
	if reportJSON {
		if err := writeJSON(w, out); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "players: %d (%d rows)\n", out.Players, out.PlayerRows)
		fmt.Fprintf(w, "scores: %d (%d rows, %d did not participate)\n", out.Scores, out.TestRows, out.DidNotParticipate)
		fmt.Fprintf(w, "skipped rows: %d\n", len(out.Errors))
		for _, e := range out.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		fmt.Fprintf(w, "duplicate results: %d\n", len(out.Warnings))
		for _, wn := range out.Warnings {
			fmt.Fprintf(w, "  %s\n", wn)
		}
	}

	if reportStrict && !rep.Clean() {
		return fmt.Errorf("%d rows skipped, %d duplicate results", len(rep.Errors), len(rep.Warnings))
	}
	return nil
}
