package pipeline

import (
	"strings"

	"github.com/brohirim/dotastats/internal/model"
	"github.com/brohirim/dotastats/internal/roster"
	"github.com/brohirim/dotastats/internal/stratz"
)

// Normalize converts one raw match into the owner's flat record. It
// returns false when the owner is not among the match participants.
func Normalize(m stratz.Match, ownerID int64, ownerName string, ros *roster.Roster) (model.Record, bool) {
	var owner *stratz.Participant
	for i := range m.Players {
		if m.Players[i].SteamAccountID == ownerID {
			owner = &m.Players[i]
			break
		}
	}
	if owner == nil {
		return model.Record{}, false
	}

	lane := model.ParseLane(owner.Lane)

	// Roster teammates: other roster members on the owner's side.
	var partyNames, laneNames []string
	for i := range m.Players {
		p := &m.Players[i]
		if p.SteamAccountID == ownerID || p.IsRadiant != owner.IsRadiant {
			continue
		}
		name, ok := ros.Name(p.SteamAccountID)
		if !ok {
			continue
		}
		partyNames = append(partyNames, name)
		if lane != model.LaneUnknown && model.ParseLane(p.Lane) == lane {
			laneNames = append(laneNames, name)
		}
	}

	hero := "Unknown"
	if owner.Hero != nil && owner.Hero.DisplayName != "" {
		hero = owner.Hero.DisplayName
	}

	position := model.ParsePosition(owner.Position)

	return model.Record{
		PlayerName:       ownerName,
		MatchID:          m.ID,
		MatchDate:        m.StartTime(),
		DurationMin:      model.DurationMinutes(m.DurationSeconds),
		Hero:             hero,
		IsVictory:        owner.IsVictory,
		PerformanceScore: owner.Imp,
		Kills:            owner.Kills,
		Deaths:           owner.Deaths,
		Assists:          owner.Assists,
		KDA:              model.KDA(owner.Kills, owner.Deaths, owner.Assists),
		Level:            owner.Level,
		Position:         position.String(),
		Role:             position.Role(),
		Lane:             lane.Label(),
		IsParty:          len(partyNames) > 0,
		PartyWith:        strings.Join(partyNames, ", "),
		LanePartners:     strings.Join(laneNames, ", "),
	}, true
}
