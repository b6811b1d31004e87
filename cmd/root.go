package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/brohirim/dotastats/internal/cache"
	"github.com/brohirim/dotastats/internal/config"
	"github.com/brohirim/dotastats/internal/model"
	"github.com/brohirim/dotastats/internal/pipeline"
	"github.com/brohirim/dotastats/internal/roster"
	"github.com/brohirim/dotastats/internal/stratz"
)

// Persistent flags.
var (
	cfgPath     string
	sinceFlag   string
	daysFlag    int
	playersFlag string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "dotastats",
	Short: "Dota 2 squad statistics tool",
	Long:  "Fetch a roster's Dota 2 match histories from the Stratz API and report per-player statistics.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultCfg := filepath.Join(mustUserHome(), ".dotastats", "config.yaml")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&sinceFlag, "since", "", "fetch cutoff as YYYY-MM-DD (overrides --days)")
	rootCmd.PersistentFlags().IntVar(&daysFlag, "days", 0, "fetch window in days (default: window_days from config)")
	rootCmd.PersistentFlags().StringVar(&playersFlag, "players", "", "comma-separated roster subset (default: everyone)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log fetch details")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(lanesCmd)
	rootCmd.AddCommand(partiesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(serveCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// runtime bundles everything a command needs: config, roster, runner,
// and the cache store to close on exit.
type runtime struct {
	cfg    *config.Config
	roster *roster.Roster
	runner *pipeline.Runner
	store  cache.Store
	log    *zap.Logger
}

func (rt *runtime) close() {
	_ = rt.log.Sync()
	if err := rt.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close cache: %v\n", err)
	}
}

// buildRuntime wires the client, fetcher, cache, and runner from config.
// onStatus, when non-nil, observes run progress.
func buildRuntime(onStatus func(pipeline.Status)) (*runtime, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	ros, err := roster.New(cfg.Players)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, err
	}

	log := newLogger()

	var store cache.Store
	if cfg.Cache.Path == "" {
		store = cache.NewMemory()
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		store, err = cache.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
	}

	client := stratz.NewClient(cfg.API.URL, token, cfg.API.Timeout.Std())
	fetcher := pipeline.NewFetcher(client, pipeline.FetcherOptions{
		PageSize:    cfg.API.PageSize,
		PageCeiling: cfg.API.PageCeiling,
		Pace:        cfg.API.PagePace.Std(),
	}, log)
	runner := pipeline.NewRunner(fetcher, ros, store, pipeline.RunnerOptions{
		MergedTTL:  cfg.Cache.MergedTTL.Std(),
		RawTTL:     cfg.Cache.RawTTL.Std(),
		PlayerPace: cfg.API.PlayerPace.Std(),
		OnStatus:   onStatus,
	}, log)

	return &runtime{cfg: cfg, roster: ros, runner: runner, store: store, log: log}, nil
}

// newLogger builds a console logger on stderr so tables on stdout stay
// clean.
func newLogger() *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.InfoLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

// cutoff resolves the fetch cutoff from --since, --days, or the config
// window. It is truncated to the hour so repeated invocations share
// cache keys within the TTL.
func (rt *runtime) cutoff() (time.Time, error) {
	if sinceFlag != "" {
		t, err := time.Parse("2006-01-02", sinceFlag)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --since value %q: %w", sinceFlag, err)
		}
		return t, nil
	}
	days := daysFlag
	if days <= 0 {
		days = rt.cfg.WindowDays
	}
	return time.Now().AddDate(0, 0, -days).Truncate(time.Hour), nil
}

// selectedPlayers resolves --players against the roster.
func (rt *runtime) selectedPlayers() ([]string, error) {
	if playersFlag == "" {
		return rt.roster.Names(), nil
	}
	var names []string
	for _, p := range strings.Split(playersFlag, ",") {
		names = append(names, strings.TrimSpace(p))
	}
	return rt.roster.Select(names)
}

// loadRecords runs the pipeline for the selected players and window.
func (rt *runtime) loadRecords(ctx context.Context) ([]model.Record, error) {
	players, err := rt.selectedPlayers()
	if err != nil {
		return nil, err
	}
	cutoff, err := rt.cutoff()
	if err != nil {
		return nil, err
	}
	return rt.runner.Load(ctx, players, cutoff)
}
