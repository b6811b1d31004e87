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

// summaryCmd shows the overview and the detailed per-player table.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the squad overview and per-player statistics",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	report.PrintOverview(os.Stdout, aggregator.Summarize(records))
	report.PrintPlayerSummaries(os.Stdout, aggregator.PlayerSummaries(records))
	return nil
}
