package postgres

import (
	"database/sql"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
)

// matchSelectColumns renders the date back as YYYY-MM-DD text.
var matchSelectColumns = []string{
	"id",
	"home_team_id",
	"away_team_id",
	"home_score",
	"away_score",
	"COALESCE(to_char(match_date, 'YYYY-MM-DD'), '') AS match_date",
	"kickoff_time",
	"venue",
	"group_key",
	"status",
}

var matchInsertColumns = []string{
	"id",
	"home_team_id",
	"away_team_id",
	"home_score",
	"away_score",
	"match_date",
	"kickoff_time",
	"venue",
	"group_key",
	"status",
}

type matchRow struct {
	ID         string        `db:"id"`
	HomeTeamID string        `db:"home_team_id"`
	AwayTeamID string        `db:"away_team_id"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	MatchDate  string        `db:"match_date"`
	KickoffAt  string        `db:"kickoff_time"`
	Venue      string        `db:"venue"`
	GroupKey   string        `db:"group_key"`
	Status     string        `db:"status"`
}

type goalRow struct {
	ID        string `db:"id"`
	MatchID   string `db:"match_id"`
	TeamID    string `db:"team_id"`
	PlayerID  string `db:"player_id"`
	Minute    int    `db:"minute"`
	SortOrder int    `db:"sort_order"`
}

type cardRow struct {
	ID        string `db:"id"`
	MatchID   string `db:"match_id"`
	TeamID    string `db:"team_id"`
	PlayerID  string `db:"player_id"`
	Minute    int    `db:"minute"`
	CardType  string `db:"card_type"`
	SortOrder int    `db:"sort_order"`
}

func newMatchRow(m match.Match) matchRow {
	return matchRow{
		ID:         m.ID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  nullableInt(m.HomeScore),
		AwayScore:  nullableInt(m.AwayScore),
		MatchDate:  m.Date,
		KickoffAt:  m.Time,
		Venue:      m.Venue,
		GroupKey:   m.Group,
		Status:     m.Status,
	}
}

// insertValues matches matchInsertColumns; an empty date is stored as NULL.
func (r matchRow) insertValues() []any {
	return []any{
		r.ID,
		r.HomeTeamID,
		r.AwayTeamID,
		r.HomeScore,
		r.AwayScore,
		nullableString(r.MatchDate),
		r.KickoffAt,
		r.Venue,
		r.GroupKey,
		r.Status,
	}
}

func (r matchRow) toDomain() match.Match {
	return match.Match{
		ID:         r.ID,
		HomeTeamID: r.HomeTeamID,
		AwayTeamID: r.AwayTeamID,
		HomeScore:  intPtr(r.HomeScore),
		AwayScore:  intPtr(r.AwayScore),
		Date:       r.MatchDate,
		Time:       r.KickoffAt,
		Venue:      r.Venue,
		Group:      r.GroupKey,
		Status:     r.Status,
		Goals:      []match.GoalEvent{},
		Cards:      []match.CardEvent{},
	}
}

func goalRows(m match.Match) []goalRow {
	out := make([]goalRow, 0, len(m.Goals))
	for i, g := range m.Goals {
		out = append(out, goalRow{ID: g.ID, MatchID: m.ID, TeamID: g.TeamID, PlayerID: g.PlayerID, Minute: g.Minute, SortOrder: i})
	}
	return out
}

func cardRows(m match.Match) []cardRow {
	out := make([]cardRow, 0, len(m.Cards))
	for i, c := range m.Cards {
		out = append(out, cardRow{ID: c.ID, MatchID: m.ID, TeamID: c.TeamID, PlayerID: c.PlayerID, Minute: c.Minute, CardType: c.Type, SortOrder: i})
	}
	return out
}

func (r goalRow) toDomain() match.GoalEvent {
	return match.GoalEvent{ID: r.ID, MatchID: r.MatchID, TeamID: r.TeamID, PlayerID: r.PlayerID, Minute: r.Minute}
}

func (r cardRow) toDomain() match.CardEvent {
	return match.CardEvent{ID: r.ID, MatchID: r.MatchID, TeamID: r.TeamID, PlayerID: r.PlayerID, Minute: r.Minute, Type: r.CardType}
}
