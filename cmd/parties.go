package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brohirim/dotastats/internal/aggregator"
	"github.com/brohirim/dotastats/internal/pipeline"
	"github.com/brohirim/dotastats/internal/report"
)

var partiesCmd = &cobra.Command{
	Use:   "parties",
	Short: "Show party vs solo performance and party combinations",
	Args:  cobra.NoArgs,
	RunE:  runParties,
}

func runParties(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(nil)
	if err != nil {
		return err
	}
	defer rt.close()

	records, err := rt.loadRecords(cmd.Context())
	if errors.Is(err, pipeline.ErrNoData) {
		fmt.Fprintln(os.Stdout, "No match data for any selected player.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\n--- Party vs Solo ---\n\n")
	report.PrintPartySplits(os.Stdout, aggregator.PartySplits(records))

	combos := aggregator.PartyCombos(records)
	if len(combos) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Party Combinations ---\n\n")
		report.PrintPartyCombos(os.Stdout, combos)
	}
	return nil
}
