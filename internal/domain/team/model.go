package team

import (
	"fmt"
	"strings"
)

// Record is the aggregate a team accumulates from completed matches.
// It is only ever written by the standings recompute.
type Record struct {
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

func (r Record) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// Team is a club registered in one tournament group.
type Team struct {
	ID      string
	Name    string
	Group   string
	Players []Player
	Record  Record
}

// Player belongs to exactly one team. Goals, cards and ban state are derived
// from match events; YellowCardsServed is the administrative waiver applied by
// a ban reset.
type Player struct {
	ID                string
	TeamID            string
	Name              string
	Position          string
	Number            int
	Goals             int
	YellowCards       int
	RedCards          int
	YellowCardsServed int
	IsBanned          bool
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if !ValidGroup(t.Group) {
		return fmt.Errorf("team group %q must be a single letter", t.Group)
	}
	for _, p := range t.Players {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("player %s: %w", p.ID, err)
		}
		if p.TeamID != t.ID {
			return fmt.Errorf("player %s belongs to team %s, not %s", p.ID, p.TeamID, t.ID)
		}
	}

	return nil
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.TeamID) == "" {
		return fmt.Errorf("player team id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Number < 0 {
		return fmt.Errorf("player number must be >= 0")
	}

	return nil
}

// ValidGroup reports whether key is a single upper-case letter.
func ValidGroup(key string) bool {
	if len(key) != 1 {
		return false
	}
	return key[0] >= 'A' && key[0] <= 'Z'
}

// NormalizeGroup trims and upper-cases a group key.
func NormalizeGroup(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// FindPlayer returns the player with the given id and its index.
func (t Team) FindPlayer(playerID string) (Player, int, bool) {
	for i, p := range t.Players {
		if p.ID == playerID {
			return p, i, true
		}
	}
	return Player{}, -1, false
}

// Clone returns a copy that shares no slice memory with t.
func (t Team) Clone() Team {
	out := t
	if t.Players != nil {
		out.Players = append([]Player(nil), t.Players...)
	}
	return out
}

// CloneAll deep-copies a team slice.
func CloneAll(teams []Team) []Team {
	out := make([]Team, 0, len(teams))
	for _, t := range teams {
		out = append(out, t.Clone())
	}
	return out
}
