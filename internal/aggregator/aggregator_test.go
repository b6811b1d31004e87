package aggregator

import (
	"testing"
	"time"

	"github.com/brohirim/dotastats/internal/model"
)

var day = 24 * time.Hour

func rec(player string, matchID int64, mods ...func(*model.Record)) model.Record {
	r := model.Record{
		PlayerName: player,
		MatchID:    matchID,
		MatchDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Role:       "Carry (Pos 1)",
		Lane:       "Safe Lane",
	}
	for _, mod := range mods {
		mod(&r)
	}
	return r
}

func won(r *model.Record)   { r.IsVictory = true }
func party(names string) func(*model.Record) {
	return func(r *model.Record) {
		r.IsParty = true
		r.PartyWith = names
	}
}
func perf(n int) func(*model.Record)     { return func(r *model.Record) { r.PerformanceScore = n } }
func at(t time.Time) func(*model.Record) { return func(r *model.Record) { r.MatchDate = t } }

func TestSummarize(t *testing.T) {
	records := []model.Record{
		rec("A", 1, won, perf(10), party("B")),
		rec("A", 2, perf(-10)),
		rec("B", 1, won, perf(20), party("A")),
		rec("B", 3, perf(0)),
	}
	ov := Summarize(records)
	if ov.Matches != 4 {
		t.Errorf("Matches = %d", ov.Matches)
	}
	if ov.WinRate != 50.0 {
		t.Errorf("WinRate = %v, want 50.0", ov.WinRate)
	}
	if ov.AvgPerformance != 5.0 {
		t.Errorf("AvgPerformance = %v, want 5.0", ov.AvgPerformance)
	}
	if ov.PartyRate != 50.0 {
		t.Errorf("PartyRate = %v, want 50.0", ov.PartyRate)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if ov := Summarize(nil); ov.Matches != 0 || ov.WinRate != 0 {
		t.Errorf("Summarize(nil) = %+v, want zeroes", ov)
	}
}

func TestPlayerSummariesOrderedByPerformance(t *testing.T) {
	records := []model.Record{
		rec("A", 1, perf(5)),
		rec("A", 2, perf(15), won),
		rec("B", 3, perf(30)),
	}
	got := PlayerSummaries(records)
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	if got[0].Player != "B" || got[1].Player != "A" {
		t.Errorf("order = %s,%s; want B,A (by avg performance desc)", got[0].Player, got[1].Player)
	}
	a := got[1]
	if a.Matches != 2 || a.Wins != 1 || a.WinRate != 50.0 {
		t.Errorf("A summary = %+v", a)
	}
	if a.AvgPerf != 10.0 || a.MinPerf != 5 || a.MaxPerf != 15 {
		t.Errorf("A perf = avg %v min %d max %d", a.AvgPerf, a.MinPerf, a.MaxPerf)
	}
}

func TestRoleStatsExcludesUnknownAndSmallCells(t *testing.T) {
	records := []model.Record{
		rec("A", 1), rec("A", 2), rec("A", 3),
		rec("A", 4, func(r *model.Record) { r.Role = "Unknown" }),
		rec("A", 5, func(r *model.Record) { r.Role = "Mid (Pos 2)" }),
	}
	got := RoleStats(records, 3)
	if len(got) != 1 {
		t.Fatalf("got %d cells, want 1 (Unknown excluded, small cell hidden)", len(got))
	}
	if got[0].Group != "Carry (Pos 1)" || got[0].Games != 3 {
		t.Errorf("cell = %+v", got[0])
	}
}

func TestLanePartnershipsExpandMultiplePartners(t *testing.T) {
	lanePartners := func(names string) func(*model.Record) {
		return func(r *model.Record) { r.LanePartners = names }
	}
	records := []model.Record{
		rec("A", 1, lanePartners("B, C"), perf(10)),
		rec("A", 2, lanePartners("B"), perf(20)),
	}
	got := LanePartnerships(records, 2)
	if len(got) != 1 {
		t.Fatalf("got %d partnerships, want 1 (A+B; A+C below minimum)", len(got))
	}
	p := got[0]
	if p.Player != "A" || p.Group != "B" || p.Games != 2 || p.AvgPerf != 15.0 {
		t.Errorf("partnership = %+v", p)
	}
}

func TestPartyCombosCanonicalizeAndDedupe(t *testing.T) {
	// The same match seen from A's row and B's row collapses into one
	// alphabetical group counted once.
	records := []model.Record{
		rec("B", 1, party("A")),
		rec("A", 1, party("B")),
		rec("A", 2, party("B")),
		rec("A", 3),
	}
	got := PartyCombos(records)
	if len(got) != 1 {
		t.Fatalf("got %d combos, want 1", len(got))
	}
	if got[0].Group != "A, B" {
		t.Errorf("group = %q, want alphabetical join including the owner", got[0].Group)
	}
	if got[0].Games != 2 {
		t.Errorf("games = %d, want 2 distinct matches", got[0].Games)
	}
}

func TestRecentOrdersNewestFirstWithoutMutating(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []model.Record{
		rec("A", 1, at(base)),
		rec("A", 2, at(base.Add(2*day))),
		rec("A", 3, at(base.Add(day))),
	}
	got := Recent(records, 2)
	if len(got) != 2 || got[0].MatchID != 2 || got[1].MatchID != 3 {
		t.Errorf("Recent = %v", got)
	}
	if records[0].MatchID != 1 {
		t.Error("Recent mutated its input")
	}
}

func TestSinceFiltersInclusively(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []model.Record{
		rec("A", 1, at(base.Add(-day))),
		rec("A", 2, at(base)),
		rec("A", 3, at(base.Add(day))),
	}
	got := Since(records, base)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2 (boundary inclusive)", len(got))
	}
	if len(records) != 3 {
		t.Error("Since mutated its input")
	}
}

func TestPartySplits(t *testing.T) {
	records := []model.Record{
		rec("A", 1, party("B"), won, perf(10)),
		rec("A", 2, perf(0)),
		rec("A", 3, perf(10), won),
	}
	got := PartySplits(records)
	if len(got) != 2 {
		t.Fatalf("got %d splits, want 2", len(got))
	}
	solo, grouped := got[0], got[1]
	if solo.Party || !grouped.Party {
		t.Fatalf("order = %+v, want solo before party", got)
	}
	if solo.Games != 2 || solo.WinRate != 50.0 {
		t.Errorf("solo = %+v", solo)
	}
	if grouped.Games != 1 || grouped.WinRate != 100.0 {
		t.Errorf("party = %+v", grouped)
	}
}

func TestBestRoles(t *testing.T) {
	stats := []GroupStat{
		{Player: "A", Group: "Carry (Pos 1)", AvgPerf: 5},
		{Player: "A", Group: "Mid (Pos 2)", AvgPerf: 12},
		{Player: "B", Group: "Offlane (Pos 3)", AvgPerf: 3},
	}
	got := BestRoles(stats)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Player != "A" || got[0].Group != "Mid (Pos 2)" {
		t.Errorf("best for A = %+v", got[0])
	}
}
