package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/brohirim/dotastats/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard HTTP API",
	Long: `Exposes the merged match table over HTTP for a browser dashboard:
JSON rows, CSV export, run status, cache refresh, and player avatars.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(nil)
	if err != nil {
		return err
	}
	defer rt.close()

	addr := serveAddr
	if addr == "" {
		addr = rt.cfg.Server.Addr
	}
	window := time.Duration(rt.cfg.WindowDays) * 24 * time.Hour

	srv := server.New(rt.runner, rt.roster, window, rt.cfg.AvatarDir, rt.log)
	fmt.Fprintf(os.Stdout, "Listening on %s\n", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
