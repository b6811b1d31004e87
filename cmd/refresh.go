package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var refreshQuick bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Invalidate cached match data",
	Long: `Drops the cached merged table and raw API pages so the next command
re-fetches everything. With --quick, only the per-player raw pages are
dropped and the merged table expires on its own schedule.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshQuick, "quick", false, "drop only the per-player raw pages")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(nil)
	if err != nil {
		return err
	}
	defer rt.close()

	if refreshQuick {
		if err := rt.runner.QuickRefresh(); err != nil {
			return fmt.Errorf("quick refresh: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Raw fetch cache cleared.")
		return nil
	}
	if err := rt.runner.Refresh(); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	fmt.Fprintln(os.Stdout, "All caches cleared.")
	return nil
}
