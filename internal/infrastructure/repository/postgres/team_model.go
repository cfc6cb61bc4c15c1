package postgres

import (
	"github.com/riskibarqy/football-tournament/internal/domain/team"
)

type teamRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	GroupKey     string `db:"group_key"`
	Played       int    `db:"played"`
	Won          int    `db:"won"`
	Drawn        int    `db:"drawn"`
	Lost         int    `db:"lost"`
	GoalsFor     int    `db:"goals_for"`
	GoalsAgainst int    `db:"goals_against"`
	Points       int    `db:"points"`
}

type playerRow struct {
	ID                string `db:"id"`
	TeamID            string `db:"team_id"`
	Name              string `db:"name"`
	Position          string `db:"position"`
	ShirtNumber       int    `db:"shirt_number"`
	Goals             int    `db:"goals"`
	YellowCards       int    `db:"yellow_cards"`
	RedCards          int    `db:"red_cards"`
	YellowCardsServed int    `db:"yellow_cards_served"`
	IsBanned          bool   `db:"is_banned"`
	SortOrder         int    `db:"sort_order"`
}

func newTeamRow(t team.Team) teamRow {
	return teamRow{
		ID:           t.ID,
		Name:         t.Name,
		GroupKey:     t.Group,
		Played:       t.Record.Played,
		Won:          t.Record.Won,
		Drawn:        t.Record.Drawn,
		Lost:         t.Record.Lost,
		GoalsFor:     t.Record.GoalsFor,
		GoalsAgainst: t.Record.GoalsAgainst,
		Points:       t.Record.Points,
	}
}

func (r teamRow) toDomain(players []team.Player) team.Team {
	if players == nil {
		players = []team.Player{}
	}
	return team.Team{
		ID:      r.ID,
		Name:    r.Name,
		Group:   r.GroupKey,
		Players: players,
		Record: team.Record{
			Played:       r.Played,
			Won:          r.Won,
			Drawn:        r.Drawn,
			Lost:         r.Lost,
			GoalsFor:     r.GoalsFor,
			GoalsAgainst: r.GoalsAgainst,
			Points:       r.Points,
		},
	}
}

func newPlayerRow(p team.Player, order int) playerRow {
	return playerRow{
		ID:                p.ID,
		TeamID:            p.TeamID,
		Name:              p.Name,
		Position:          p.Position,
		ShirtNumber:       p.Number,
		Goals:             p.Goals,
		YellowCards:       p.YellowCards,
		RedCards:          p.RedCards,
		YellowCardsServed: p.YellowCardsServed,
		IsBanned:          p.IsBanned,
		SortOrder:         order,
	}
}

func (r playerRow) toDomain() team.Player {
	return team.Player{
		ID:                r.ID,
		TeamID:            r.TeamID,
		Name:              r.Name,
		Position:          r.Position,
		Number:            r.ShirtNumber,
		Goals:             r.Goals,
		YellowCards:       r.YellowCards,
		RedCards:          r.RedCards,
		YellowCardsServed: r.YellowCardsServed,
		IsBanned:          r.IsBanned,
	}
}
