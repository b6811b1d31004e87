// Package report renders the merged table and its derived statistics as
// terminal tables and CSV.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/brohirim/dotastats/internal/aggregator"
	"github.com/brohirim/dotastats/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintOverview prints the table-level overview line.
func PrintOverview(w io.Writer, ov aggregator.Overview) {
	fmt.Fprintf(w, "\nMatches: %d  |  Win rate: %.1f%%  |  Avg performance: %.1f  |  Party rate: %.1f%%\n\n",
		ov.Matches, ov.WinRate, ov.AvgPerformance, ov.PartyRate)
}

// PrintPlayerSummaries prints the per-player aggregate table.
func PrintPlayerSummaries(w io.Writer, summaries []aggregator.PlayerSummary) {
	table := newTable(w)
	table.Header("PLAYER", "MATCHES", "WINS", "WIN%", "AVG_PERF", "MIN", "MAX",
		"AVG_KDA", "AVG_K", "AVG_D", "AVG_A", "PARTY")

	for _, s := range summaries {
		table.Append(
			s.Player,
			strconv.Itoa(s.Matches),
			strconv.Itoa(s.Wins),
			fmt.Sprintf("%.1f%%", s.WinRate),
			fmt.Sprintf("%.1f", s.AvgPerf),
			strconv.Itoa(s.MinPerf),
			strconv.Itoa(s.MaxPerf),
			fmt.Sprintf("%.2f", s.AvgKDA),
			fmt.Sprintf("%.1f", s.AvgKills),
			fmt.Sprintf("%.1f", s.AvgDeaths),
			fmt.Sprintf("%.1f", s.AvgAssists),
			strconv.Itoa(s.PartyGames),
		)
	}
	table.Render()
}

// PrintPartySplits prints the party vs solo comparison.
func PrintPartySplits(w io.Writer, splits []aggregator.PartySplit) {
	table := newTable(w)
	table.Header("PLAYER", "TYPE", "GAMES", "AVG_PERF", "WIN%")

	for _, s := range splits {
		kind := "Solo"
		if s.Party {
			kind = "Party"
		}
		table.Append(
			s.Player,
			kind,
			strconv.Itoa(s.Games),
			fmt.Sprintf("%.1f", s.AvgPerf),
			fmt.Sprintf("%.1f%%", s.WinRate),
		)
	}
	table.Render()
}

// PrintPartyCombos prints canonical party groups and games together.
func PrintPartyCombos(w io.Writer, combos []aggregator.PartyCombo) {
	table := newTable(w)
	table.Header("GROUP", "GAMES TOGETHER")
	for _, c := range combos {
		table.Append(c.Group, strconv.Itoa(c.Games))
	}
	table.Render()
}

// PrintGroupStats prints (player, group) cells under the given group
// column header, e.g. "ROLE" or "LANE".
func PrintGroupStats(w io.Writer, header string, stats []aggregator.GroupStat) {
	table := newTable(w)
	table.Header("PLAYER", header, "GAMES", "AVG_PERF", "WIN%", "AVG_KDA")
	for _, s := range stats {
		table.Append(
			s.Player,
			s.Group,
			strconv.Itoa(s.Games),
			fmt.Sprintf("%.1f", s.AvgPerf),
			fmt.Sprintf("%.1f%%", s.WinRate),
			fmt.Sprintf("%.2f", s.AvgKDA),
		)
	}
	table.Render()
}

// PrintPartnerships prints laning partnerships with their lane.
func PrintPartnerships(w io.Writer, stats []aggregator.GroupStat) {
	table := newTable(w)
	table.Header("PLAYER", "PARTNER", "LANE", "GAMES", "AVG_PERF", "WIN%", "AVG_KDA")
	for _, s := range stats {
		table.Append(
			s.Player,
			s.Group,
			s.Lane,
			strconv.Itoa(s.Games),
			fmt.Sprintf("%.1f", s.AvgPerf),
			fmt.Sprintf("%.1f%%", s.WinRate),
			fmt.Sprintf("%.2f", s.AvgKDA),
		)
	}
	table.Render()
}

// PrintRecentMatches prints the newest records, one row per record.
func PrintRecentMatches(w io.Writer, records []model.Record) {
	table := newTable(w)
	table.Header("DATE", "PLAYER", "HERO", "ROLE", "LANE", "RESULT", "PERF",
		"K", "D", "A", "KDA", "PARTY", "LANE PARTNER")

	for _, r := range records {
		result := "Loss"
		if r.IsVictory {
			result = "Win"
		}
		party := ""
		if r.IsParty {
			party = "yes"
		}
		table.Append(
			r.MatchDate.Format("2006-01-02 15:04"),
			r.PlayerName,
			r.Hero,
			r.Role,
			r.Lane,
			result,
			strconv.Itoa(r.PerformanceScore),
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
			strconv.Itoa(r.Assists),
			fmt.Sprintf("%.2f", r.KDA),
			party,
			r.LanePartners,
		)
	}
	table.Render()
}
