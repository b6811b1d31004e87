// Package pipeline implements the match ingestion pipeline: paginated
// fetching from the Stratz API, normalization of raw matches into flat
// records, and the multi-player aggregation run.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/brohirim/dotastats/internal/stratz"
)

// MatchSource is the page-level query the fetcher needs from the Stratz
// client.
type MatchSource interface {
	PlayerMatches(ctx context.Context, accountID int64, take, skip int) ([]stratz.Match, error)
}

// Default fetcher parameters. The Stratz API caps take at 100 per
// request; the ceiling bounds total matches per player per run.
const (
	DefaultPageSize    = 50
	DefaultPageCeiling = 5
	DefaultPagePace    = 500 * time.Millisecond
)

// Fetcher pages through one player's match history until a cutoff is
// passed, a short page is returned, or the page ceiling is reached.
type Fetcher struct {
	source      MatchSource
	pageSize    int
	pageCeiling int
	pace        time.Duration
	log         *zap.Logger
}

// FetcherOptions tune pagination. Zero values select the defaults; set
// Pace to a negative duration to disable pacing entirely (tests).
type FetcherOptions struct {
	PageSize    int
	PageCeiling int
	Pace        time.Duration
}

// NewFetcher builds a Fetcher over the given source.
func NewFetcher(source MatchSource, opts FetcherOptions, log *zap.Logger) *Fetcher {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.PageCeiling <= 0 {
		opts.PageCeiling = DefaultPageCeiling
	}
	if opts.Pace == 0 {
		opts.Pace = DefaultPagePace
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		source:      source,
		pageSize:    opts.PageSize,
		pageCeiling: opts.PageCeiling,
		pace:        opts.Pace,
		log:         log,
	}
}

// FetchSince returns the player's matches that started at or after
// cutoff, in the order the API returned them. A transport or API failure
// ends pagination and returns whatever accumulated so far; one player's
// failure never aborts the caller's run. There is no retry.
func (f *Fetcher) FetchSince(ctx context.Context, accountID int64, name string, cutoff time.Time) []stratz.Match {
	var out []stratz.Match

	for page := 0; page < f.pageCeiling; page++ {
		matches, err := f.source.PlayerMatches(ctx, accountID, f.pageSize, page*f.pageSize)
		if err != nil {
			f.log.Warn("match fetch failed",
				zap.String("player", name),
				zap.Int64("account_id", accountID),
				zap.Int("page", page),
				zap.Error(err))
			return out
		}
		if len(matches) == 0 {
			return out
		}

		oldest := matches[0].StartTime()
		for _, m := range matches {
			if t := m.StartTime(); t.Before(oldest) {
				oldest = t
			}
			if !m.StartTime().Before(cutoff) {
				out = append(out, m)
			}
		}

		// Pages are newest-first: once the oldest match in a page
		// predates the cutoff, every later page is entirely pre-cutoff.
		if oldest.Before(cutoff) {
			return out
		}
		if len(matches) < f.pageSize {
			return out
		}
		if page+1 < f.pageCeiling && f.pace > 0 {
			time.Sleep(f.pace)
		}
	}
	return out
}
