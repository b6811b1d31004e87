// Package aggregator computes derived statistics over the merged match
// table. All functions operate on copies and never mutate their input.
package aggregator

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/brohirim/dotastats/internal/model"
)

// Minimum sample sizes used by the reports.
const (
	MinRoleGames        = 3
	MinLaneGames        = 3
	MinPartnershipGames = 2
)

// Overview summarizes the whole table.
type Overview struct {
	Matches        int     `json:"matches"`
	WinRate        float64 `json:"win_rate"`
	AvgPerformance float64 `json:"avg_performance"`
	PartyRate      float64 `json:"party_rate"`
}

// Summarize computes the table-level overview. Rates are percentages.
func Summarize(records []model.Record) Overview {
	if len(records) == 0 {
		return Overview{}
	}
	var wins, party, perf int
	for _, r := range records {
		if r.IsVictory {
			wins++
		}
		if r.IsParty {
			party++
		}
		perf += r.PerformanceScore
	}
	n := float64(len(records))
	return Overview{
		Matches:        len(records),
		WinRate:        round1(float64(wins) / n * 100),
		AvgPerformance: round1(float64(perf) / n),
		PartyRate:      round1(float64(party) / n * 100),
	}
}

// PlayerSummary is one player's aggregate line.
type PlayerSummary struct {
	Player     string  `json:"player"`
	Matches    int     `json:"matches"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	AvgPerf    float64 `json:"avg_perf"`
	MinPerf    int     `json:"min_perf"`
	MaxPerf    int     `json:"max_perf"`
	AvgKDA     float64 `json:"avg_kda"`
	AvgKills   float64 `json:"avg_kills"`
	AvgDeaths  float64 `json:"avg_deaths"`
	AvgAssists float64 `json:"avg_assists"`
	PartyGames int     `json:"party_games"`
}

// PlayerSummaries aggregates per player, ordered by average performance
// descending.
func PlayerSummaries(records []model.Record) []PlayerSummary {
	acc := make(map[string]*PlayerSummary)
	var order []string
	sumKDA := make(map[string]float64)
	sumK := make(map[string]int)
	sumD := make(map[string]int)
	sumA := make(map[string]int)
	sumPerf := make(map[string]int)

	for _, r := range records {
		s, ok := acc[r.PlayerName]
		if !ok {
			s = &PlayerSummary{Player: r.PlayerName, MinPerf: r.PerformanceScore, MaxPerf: r.PerformanceScore}
			acc[r.PlayerName] = s
			order = append(order, r.PlayerName)
		}
		s.Matches++
		if r.IsVictory {
			s.Wins++
		}
		if r.IsParty {
			s.PartyGames++
		}
		if r.PerformanceScore < s.MinPerf {
			s.MinPerf = r.PerformanceScore
		}
		if r.PerformanceScore > s.MaxPerf {
			s.MaxPerf = r.PerformanceScore
		}
		sumKDA[r.PlayerName] += r.KDA
		sumK[r.PlayerName] += r.Kills
		sumD[r.PlayerName] += r.Deaths
		sumA[r.PlayerName] += r.Assists
		sumPerf[r.PlayerName] += r.PerformanceScore
	}

	out := make([]PlayerSummary, 0, len(order))
	for _, name := range order {
		s := acc[name]
		n := float64(s.Matches)
		s.WinRate = round1(float64(s.Wins) / n * 100)
		s.AvgPerf = round2(float64(sumPerf[name]) / n)
		s.AvgKDA = round2(sumKDA[name] / n)
		s.AvgKills = round2(float64(sumK[name]) / n)
		s.AvgDeaths = round2(float64(sumD[name]) / n)
		s.AvgAssists = round2(float64(sumA[name]) / n)
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgPerf > out[j].AvgPerf })
	return out
}

// PartySplit is one player's aggregate line for party or solo games.
type PartySplit struct {
	Player  string  `json:"player"`
	Party   bool    `json:"party"`
	Games   int     `json:"games"`
	AvgPerf float64 `json:"avg_perf"`
	WinRate float64 `json:"win_rate"`
}

// PartySplits aggregates per (player, party flag), players alphabetical,
// solo before party.
func PartySplits(records []model.Record) []PartySplit {
	type key struct {
		player string
		party  bool
	}
	games := make(map[key]int)
	wins := make(map[key]int)
	perf := make(map[key]int)
	for _, r := range records {
		k := key{r.PlayerName, r.IsParty}
		games[k]++
		if r.IsVictory {
			wins[k]++
		}
		perf[k] += r.PerformanceScore
	}

	out := make([]PartySplit, 0, len(games))
	for k, n := range games {
		out = append(out, PartySplit{
			Player:  k.player,
			Party:   k.party,
			Games:   n,
			AvgPerf: round2(float64(perf[k]) / float64(n)),
			WinRate: round1(float64(wins[k]) / float64(n) * 100),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return !out[i].Party && out[j].Party
	})
	return out
}

// GroupStat is one aggregate line for a (player, group) cell, where the
// group is a role, a lane, or a lane partnership.
type GroupStat struct {
	Player  string  `json:"player"`
	Group   string  `json:"group"`
	Lane    string  `json:"lane,omitempty"`
	Games   int     `json:"games"`
	AvgPerf float64 `json:"avg_perf"`
	WinRate float64 `json:"win_rate"`
	AvgKDA  float64 `json:"avg_kda"`
}

// RoleStats aggregates per (player, role), excluding unknown roles and
// cells below minGames. Ordered by player, then role.
func RoleStats(records []model.Record, minGames int) []GroupStat {
	return groupStats(records, minGames, func(r model.Record) (string, string, bool) {
		return r.Role, "", r.Role != "Unknown"
	})
}

// LaneStats aggregates per (player, lane), excluding unknown lanes and
// cells below minGames.
func LaneStats(records []model.Record, minGames int) []GroupStat {
	return groupStats(records, minGames, func(r model.Record) (string, string, bool) {
		return r.Lane, "", r.Lane != "Unknown"
	})
}

// LanePartnerships aggregates per (player, lane partner, lane) for
// records that have a lane partner, ordered by average performance
// descending. A record with several partners counts once per partner.
func LanePartnerships(records []model.Record, minGames int) []GroupStat {
	expanded := make([]model.Record, 0, len(records))
	for _, r := range records {
		if r.LanePartners == "" {
			continue
		}
		for _, partner := range strings.Split(r.LanePartners, ", ") {
			c := r
			c.LanePartners = partner
			expanded = append(expanded, c)
		}
	}
	out := groupStats(expanded, minGames, func(r model.Record) (string, string, bool) {
		return r.LanePartners, r.Lane, true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgPerf > out[j].AvgPerf })
	return out
}

// groupStats is the shared (player, group) aggregation. keyFn returns the
// group label, an optional lane annotation, and whether to keep the row.
func groupStats(records []model.Record, minGames int, keyFn func(model.Record) (string, string, bool)) []GroupStat {
	type key struct {
		player, group, lane string
	}
	games := make(map[key]int)
	wins := make(map[key]int)
	perf := make(map[key]int)
	kda := make(map[key]float64)

	for _, r := range records {
		group, lane, keep := keyFn(r)
		if !keep {
			continue
		}
		k := key{r.PlayerName, group, lane}
		games[k]++
		if r.IsVictory {
			wins[k]++
		}
		perf[k] += r.PerformanceScore
		kda[k] += r.KDA
	}

	out := make([]GroupStat, 0, len(games))
	for k, n := range games {
		if n < minGames {
			continue
		}
		out = append(out, GroupStat{
			Player:  k.player,
			Group:   k.group,
			Lane:    k.lane,
			Games:   n,
			AvgPerf: round2(float64(perf[k]) / float64(n)),
			WinRate: round1(float64(wins[k]) / float64(n) * 100),
			AvgKDA:  round2(kda[k] / float64(n)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Lane < out[j].Lane
	})
	return out
}

// BestRoles returns each player's highest-performing role cell, players
// alphabetical.
func BestRoles(stats []GroupStat) []GroupStat {
	best := make(map[string]GroupStat)
	for _, s := range stats {
		if cur, ok := best[s.Player]; !ok || s.AvgPerf > cur.AvgPerf {
			best[s.Player] = s
		}
	}
	out := make([]GroupStat, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	return out
}

// PartyCombo counts how many distinct matches a canonical party group
// played together.
type PartyCombo struct {
	Group string `json:"group"`
	Games int    `json:"games"`
}

// PartyCombos groups party records under a canonical key: the
// alphabetical join of all roster participants including the record
// owner. The same match seen from several owners' rows collapses into
// one group and counts once.
func PartyCombos(records []model.Record) []PartyCombo {
	seen := make(map[string]map[int64]struct{})
	for _, r := range records {
		if !r.IsParty || r.PartyWith == "" {
			continue
		}
		names := append(strings.Split(r.PartyWith, ", "), r.PlayerName)
		sort.Strings(names)
		group := strings.Join(names, ", ")
		if seen[group] == nil {
			seen[group] = make(map[int64]struct{})
		}
		seen[group][r.MatchID] = struct{}{}
	}

	out := make([]PartyCombo, 0, len(seen))
	for group, matches := range seen {
		out = append(out, PartyCombo{Group: group, Games: len(matches)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// Recent returns the newest n records by match date.
func Recent(records []model.Record, n int) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchDate.After(out[j].MatchDate) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Since returns a copy holding only records at or after t.
func Since(records []model.Record, t time.Time) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if !r.MatchDate.Before(t) {
			out = append(out, r)
		}
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
