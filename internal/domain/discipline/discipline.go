package discipline

import (
	"sort"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
)

// Rules configures ban derivation.
type Rules struct {
	YellowCardBanThreshold int
}

func DefaultRules() Rules {
	return Rules{YellowCardBanThreshold: 2}
}

// Entry pairs a player with the name of its team for listings.
type Entry struct {
	Player   team.Player
	TeamName string
	Group    string
}

// Recompute recounts goals and cards for every player from all match events
// and derives the ban flag. Events whose team or player is unknown are
// ignored. The input is not modified.
func Recompute(teams []team.Team, matches []match.Match, rules Rules) []team.Team {
	if rules.YellowCardBanThreshold <= 0 {
		rules = DefaultRules()
	}

	out := team.CloneAll(teams)
	players := make(map[string]map[string]*team.Player, len(out))
	for i := range out {
		byID := make(map[string]*team.Player, len(out[i].Players))
		for j := range out[i].Players {
			p := &out[i].Players[j]
			p.Goals = 0
			p.YellowCards = 0
			p.RedCards = 0
			byID[p.ID] = p
		}
		players[out[i].ID] = byID
	}

	lookup := func(teamID, playerID string) *team.Player {
		byID, ok := players[teamID]
		if !ok {
			return nil
		}
		return byID[playerID]
	}

	for _, m := range matches {
		for _, g := range m.Goals {
			if p := lookup(g.TeamID, g.PlayerID); p != nil {
				p.Goals++
			}
		}
		for _, c := range m.Cards {
			p := lookup(c.TeamID, c.PlayerID)
			if p == nil {
				continue
			}
			switch c.Type {
			case match.CardYellow:
				p.YellowCards++
			case match.CardRed:
				p.RedCards++
			}
		}
	}

	for i := range out {
		for j := range out[i].Players {
			settle(&out[i].Players[j], rules)
		}
	}

	return out
}

// settle clamps the waiver to the yellow cards actually counted and derives
// the ban flag.
func settle(p *team.Player, rules Rules) {
	if p.YellowCardsServed > p.YellowCards {
		p.YellowCardsServed = p.YellowCards
	}
	if p.YellowCardsServed < 0 {
		p.YellowCardsServed = 0
	}
	p.IsBanned = IsBanned(*p, rules)
}

// IsBanned applies the ban rule: any red card, or un-waived yellow cards at
// or above the threshold.
func IsBanned(p team.Player, rules Rules) bool {
	if p.RedCards > 0 {
		return true
	}
	return p.YellowCards-p.YellowCardsServed >= rules.YellowCardBanThreshold
}

// ResetBan waives every yellow card counted so far. A red card ban stays.
func ResetBan(p team.Player, rules Rules) team.Player {
	p.YellowCardsServed = p.YellowCards
	p.IsBanned = IsBanned(p, rules)
	return p
}

// TopScorers lists players with at least one goal, most goals first.
// limit <= 0 returns everyone.
func TopScorers(teams []team.Team, limit int) []Entry {
	out := collect(teams, func(p team.Player) bool { return p.Goals > 0 })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Player.Goals != out[j].Player.Goals {
			return out[i].Player.Goals > out[j].Player.Goals
		}
		return out[i].Player.Name < out[j].Player.Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Carded lists players holding at least one card, reds first then most yellows.
func Carded(teams []team.Team) []Entry {
	out := collect(teams, func(p team.Player) bool { return p.YellowCards > 0 || p.RedCards > 0 })
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Player, out[j].Player
		if a.RedCards != b.RedCards {
			return a.RedCards > b.RedCards
		}
		if a.YellowCards != b.YellowCards {
			return a.YellowCards > b.YellowCards
		}
		return a.Name < b.Name
	})
	return out
}

func Banned(teams []team.Team) []Entry {
	out := collect(teams, func(p team.Player) bool { return p.IsBanned })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TeamName != out[j].TeamName {
			return out[i].TeamName < out[j].TeamName
		}
		return out[i].Player.Name < out[j].Player.Name
	})
	return out
}

func collect(teams []team.Team, keep func(team.Player) bool) []Entry {
	var out []Entry
	for _, t := range teams {
		for _, p := range t.Players {
			if keep(p) {
				out = append(out, Entry{Player: p, TeamName: t.Name, Group: t.Group})
			}
		}
	}
	return out
}
