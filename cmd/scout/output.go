package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/scout/internal/domain/model"
)

// writeJSON prints v indented.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// filterFlags are shared by the cohort commands.
type filterFlags struct {
	year     int
	position string
	status   string
}

// filter narrows base with the flags; --year replaces the base year.
func (f filterFlags) filter(base model.Filter) (model.Filter, error) {
	out := base
	if f.year != 0 {
		out.Year = f.year
	}
	if f.position != "" {
		out = out.WithPosition(f.position)
	}
	if f.status != "" {
		st, err := model.ParseDraftStatus(f.status)
		if err != nil {
			return model.Filter{}, err
		}
		out = out.WithStatus(st)
	}
	return out, out.Validate()
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "Draft year of the cohort")
	cmd.Flags().StringVar(&f.position, "position", "", "Restrict the cohort to one position")
	cmd.Flags().StringVar(&f.status, "status", "", "Restrict the cohort by draft status: drafted, undrafted, unknown")
}
