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

var recentCount int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent matches",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().IntVar(&recentCount, "count", 20, "number of matches to show")
}

func runRecent(cmd *cobra.Command, args []string) error {
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

	report.PrintRecentMatches(os.Stdout, aggregator.Recent(records, recentCount))
	return nil
}
