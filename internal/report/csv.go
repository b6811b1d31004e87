package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/brohirim/dotastats/internal/model"
)

// csvHeader lists the exported columns, one per Record field.
var csvHeader = []string{
	"player_name", "match_id", "match_date", "duration_min", "hero",
	"is_victory", "performance_score", "kills", "deaths", "assists",
	"kda", "level", "position", "role", "lane",
	"is_party", "party_with", "lane_partners",
}

// WriteCSV serializes the merged table: a header row of field names, then
// one row per record. Timestamps are RFC 3339; empty multi-value fields
// stay empty.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.PlayerName,
			strconv.FormatInt(r.MatchID, 10),
			r.MatchDate.Format(time.RFC3339),
			strconv.FormatFloat(r.DurationMin, 'f', -1, 64),
			r.Hero,
			strconv.FormatBool(r.IsVictory),
			strconv.Itoa(r.PerformanceScore),
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
			strconv.Itoa(r.Assists),
			strconv.FormatFloat(r.KDA, 'f', -1, 64),
			strconv.Itoa(r.Level),
			r.Position,
			r.Role,
			r.Lane,
			strconv.FormatBool(r.IsParty),
			r.PartyWith,
			r.LanePartners,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
