package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brohirim/dotastats/internal/pipeline"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Fetch and merge match data for the roster",
	Long: `Runs the full ingestion pipeline: fetches each selected player's
matches from the Stratz API, derives per-match records, and warms the cache.

Examples:
  dotastats load
  dotastats load --players Andreas,Magnus --days 30`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(printStatus)
	if err != nil {
		return err
	}
	defer rt.close()

	records, err := rt.loadRecords(cmd.Context())
	if errors.Is(err, pipeline.ErrNoData) {
		fmt.Fprintln(os.Stdout, "No match data for any selected player. Check the API token or try again later.")
		return nil
	}
	if err != nil {
		return err
	}

	oldest, newest := records[0].MatchDate, records[0].MatchDate
	for _, r := range records {
		if r.MatchDate.Before(oldest) {
			oldest = r.MatchDate
		}
		if r.MatchDate.After(newest) {
			newest = r.MatchDate
		}
	}
	fmt.Fprintf(os.Stdout, "\nLoaded %d records (%s → %s)\n",
		len(records), oldest.Format("2006-01-02"), newest.Format("2006-01-02"))
	return nil
}

// printStatus renders pipeline progress on stderr.
func printStatus(s pipeline.Status) {
	switch s.State {
	case pipeline.StateFetching:
		fmt.Fprintf(os.Stderr, "[%d/%d] fetching %s...\n", s.Index+1, s.Total, s.Player)
	case pipeline.StateDone:
		fmt.Fprintln(os.Stderr, "done")
	}
}
