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

var lanesCmd = &cobra.Command{
	Use:   "lanes",
	Short: "Show per-lane performance and laning partnerships",
	Args:  cobra.NoArgs,
	RunE:  runLanes,
}

func runLanes(cmd *cobra.Command, args []string) error {
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

	laneStats := aggregator.LaneStats(records, aggregator.MinLaneGames)
	if len(laneStats) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Performance by Lane ---\n\n")
		report.PrintGroupStats(os.Stdout, "LANE", laneStats)
	}

	partnerships := aggregator.LanePartnerships(records, aggregator.MinPartnershipGames)
	if len(partnerships) == 0 {
		fmt.Fprintln(os.Stdout, "No laning partner data available.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "\n--- Laning Partnerships ---\n\n")
	report.PrintPartnerships(os.Stdout, partnerships)
	return nil
}
