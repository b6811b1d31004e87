package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/brohirim/dotastats/internal/cache"
	"github.com/brohirim/dotastats/internal/model"
	"github.com/brohirim/dotastats/internal/roster"
	"github.com/brohirim/dotastats/internal/stratz"
)

// ErrNoData marks a run in which every selected player's fetch failed or
// returned no in-window matches. It is distinct from a table that a later
// time filter emptied.
var ErrNoData = errors.New("no matches found for any selected player")

// Cache key prefixes. The merged table and per-player raw pages are
// invalidated together by a full refresh; a quick refresh drops only the
// raw pages.
const (
	mergedKeyPrefix = "merged|"
	rawKeyPrefix    = "raw|"
)

// Default cache lifetimes and inter-player pacing. The merged table
// outlives the per-player raw pages.
const (
	DefaultMergedTTL  = time.Hour
	DefaultRawTTL     = 15 * time.Minute
	DefaultPlayerPace = 2 * time.Second
)

// State is the phase of an aggregation run.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateNormalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateNormalizing:
		return "normalizing"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// Status describes run progress for an observing caller.
type Status struct {
	State    State   `json:"state"`
	Player   string  `json:"player,omitempty"`
	Index    int     `json:"index"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
}

// Runner drives the fetch+normalize pipeline across a roster selection
// and merges all records into one table. Players are processed one at a
// time; there is no concurrent fan-out.
type Runner struct {
	fetcher    *Fetcher
	roster     *roster.Roster
	store      cache.Store
	mergedTTL  time.Duration
	rawTTL     time.Duration
	playerPace time.Duration
	log        *zap.Logger
	onStatus   func(Status)

	mu     sync.RWMutex
	status Status
}

// RunnerOptions tune caching, pacing, and observation. Zero TTLs select
// the defaults; a negative PlayerPace disables inter-player pacing.
type RunnerOptions struct {
	MergedTTL  time.Duration
	RawTTL     time.Duration
	PlayerPace time.Duration
	OnStatus   func(Status)
}

// NewRunner builds a Runner over the given fetcher, roster, and cache.
func NewRunner(fetcher *Fetcher, ros *roster.Roster, store cache.Store, opts RunnerOptions, log *zap.Logger) *Runner {
	if opts.MergedTTL <= 0 {
		opts.MergedTTL = DefaultMergedTTL
	}
	if opts.RawTTL <= 0 {
		opts.RawTTL = DefaultRawTTL
	}
	if opts.PlayerPace == 0 {
		opts.PlayerPace = DefaultPlayerPace
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		fetcher:    fetcher,
		roster:     ros,
		store:      store,
		mergedTTL:  opts.MergedTTL,
		rawTTL:     opts.RawTTL,
		playerPace: opts.PlayerPace,
		log:        log,
		onStatus:   opts.OnStatus,
	}
}

// Status returns the most recently published run status.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *Runner) publish(s Status) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
	if r.onStatus != nil {
		r.onStatus(s)
	}
}

// Load produces the merged table for the selected players and cutoff.
// Rows appear in selection order, then in fetch-returned order per
// player. The merged table is cached keyed by the exact selection and
// cutoff; per-player raw pages are cached separately with a shorter TTL.
func (r *Runner) Load(ctx context.Context, players []string, cutoff time.Time) ([]model.Record, error) {
	selected, err := r.roster.Select(players)
	if err != nil {
		return nil, err
	}

	key := mergedKey(selected, cutoff)
	if cached, ok := r.cacheGet(key); ok {
		var records []model.Record
		if err := json.Unmarshal(cached, &records); err == nil {
			return records, nil
		}
		r.log.Warn("discarding undecodable merged cache entry", zap.String("key", key))
	}

	total := len(selected)
	records := make([]model.Record, 0, total*DefaultPageSize)

	for i, name := range selected {
		r.publish(Status{State: StateFetching, Player: name, Index: i, Total: total,
			Fraction: float64(i) / float64(total)})

		id, _ := r.roster.ID(name)
		matches := r.fetchRaw(ctx, id, name, cutoff)

		r.publish(Status{State: StateNormalizing, Player: name, Index: i, Total: total,
			Fraction: (float64(i) + 0.5) / float64(total)})

		for _, m := range matches {
			if rec, ok := Normalize(m, id, name, r.roster); ok {
				records = append(records, rec)
			}
		}

		if i+1 < total && r.playerPace > 0 {
			time.Sleep(r.playerPace)
		}
	}

	r.publish(Status{State: StateDone, Index: total, Total: total, Fraction: 1})

	if len(records) == 0 {
		return nil, ErrNoData
	}

	if encoded, err := json.Marshal(records); err == nil {
		r.cacheSet(key, encoded, r.mergedTTL)
	}
	return records, nil
}

// fetchRaw returns the player's raw in-window matches, serving them from
// the per-player cache when possible.
func (r *Runner) fetchRaw(ctx context.Context, accountID int64, name string, cutoff time.Time) []stratz.Match {
	key := rawKey(accountID, cutoff)
	if cached, ok := r.cacheGet(key); ok {
		var matches []stratz.Match
		if err := json.Unmarshal(cached, &matches); err == nil {
			return matches
		}
		r.log.Warn("discarding undecodable raw cache entry", zap.String("key", key))
	}

	matches := r.fetcher.FetchSince(ctx, accountID, name, cutoff)
	if len(matches) > 0 {
		if encoded, err := json.Marshal(matches); err == nil {
			r.cacheSet(key, encoded, r.rawTTL)
		}
	}
	return matches
}

// Refresh invalidates the merged table and all raw pages. The next Load
// re-fetches everything.
func (r *Runner) Refresh() error {
	if err := r.store.DeletePrefix(mergedKeyPrefix); err != nil {
		return err
	}
	return r.store.DeletePrefix(rawKeyPrefix)
}

// QuickRefresh invalidates only the per-player raw pages, leaving the
// merged table to expire on its own.
func (r *Runner) QuickRefresh() error {
	return r.store.DeletePrefix(rawKeyPrefix)
}

// cacheGet treats store failures as misses; the cache is an optimization,
// never a correctness dependency.
func (r *Runner) cacheGet(key string) ([]byte, bool) {
	value, ok, err := r.store.Get(key)
	if err != nil {
		r.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return value, ok
}

func (r *Runner) cacheSet(key string, value []byte, ttl time.Duration) {
	if err := r.store.Set(key, value, ttl); err != nil {
		r.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func mergedKey(players []string, cutoff time.Time) string {
	return mergedKeyPrefix + strings.Join(players, ",") + "|" + strconv.FormatInt(cutoff.Unix(), 10)
}

func rawKey(accountID int64, cutoff time.Time) string {
	return fmt.Sprintf("%s%d|%d", rawKeyPrefix, accountID, cutoff.Unix())
}
