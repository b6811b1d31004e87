package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/brohirim/dotastats/internal/pipeline"
	"github.com/brohirim/dotastats/internal/report"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the merged match table as CSV",
	Long: `Serializes the merged table to CSV: a header row of field names,
then one row per record.

Example:
  dotastats export --out squad_stats.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: dotastats_YYYYMMDD.csv)")
}

func runExport(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(nil)
	if err != nil {
		return err
	}
	defer rt.close()

	records, err := rt.loadRecords(cmd.Context())
	if errors.Is(err, pipeline.ErrNoData) {
		fmt.Fprintln(os.Stdout, "No match data for any selected player; nothing to export.")
		return nil
	}
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = "dotastats_" + time.Now().Format("20060102") + ".csv"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := report.WriteCSV(f, records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d records to %s\n", len(records), out)
	return nil
}
