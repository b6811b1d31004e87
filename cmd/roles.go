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

var rolesMinGames int

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Show per-role performance and each player's best role",
	Long: `Aggregates performance per player and role. Records with an unknown
position are excluded; cells below the minimum game count are hidden.`,
	Args: cobra.NoArgs,
	RunE: runRoles,
}

func init() {
	rolesCmd.Flags().IntVar(&rolesMinGames, "min-games", aggregator.MinRoleGames, "minimum games per role cell")
}

func runRoles(cmd *cobra.Command, args []string) error {
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

	stats := aggregator.RoleStats(records, rolesMinGames)
	if len(stats) == 0 {
		fmt.Fprintf(os.Stdout, "Not enough games per role for analysis (minimum %d games required).\n", rolesMinGames)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n--- Performance by Role ---\n\n")
	report.PrintGroupStats(os.Stdout, "ROLE", stats)

	fmt.Fprintf(os.Stdout, "\n--- Best Role per Player ---\n\n")
	report.PrintGroupStats(os.Stdout, "ROLE", aggregator.BestRoles(stats))
	return nil
}
