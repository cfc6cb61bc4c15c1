package standings

import (
	"sort"
	"strings"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
)

const (
	PointsWin  = 3
	PointsDraw = 1
)

// Row is one ranked line of a group table.
type Row struct {
	Position int
	Team     team.Team
}

// Recompute zeroes every team record and replays all completed matches.
// Matches that reference a team outside teams are ignored. The input is not
// modified and output order follows input order.
func Recompute(teams []team.Team, matches []match.Match) []team.Team {
	out := team.CloneAll(teams)
	index := make(map[string]int, len(out))
	for i := range out {
		out[i].Record = team.Record{}
		index[out[i].ID] = i
	}

	for _, m := range matches {
		if !m.Completed() || m.HomeTeamID == m.AwayTeamID {
			continue
		}
		homeIdx, okHome := index[m.HomeTeamID]
		awayIdx, okAway := index[m.AwayTeamID]
		if !okHome || !okAway {
			continue
		}

		applyResult(&out[homeIdx].Record, *m.HomeScore, *m.AwayScore)
		applyResult(&out[awayIdx].Record, *m.AwayScore, *m.HomeScore)
	}

	return out
}

func applyResult(r *team.Record, scored, conceded int) {
	r.Played++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		r.Won++
		r.Points += PointsWin
	case scored == conceded:
		r.Drawn++
		r.Points += PointsDraw
	default:
		r.Lost++
	}
}

// Rank orders teams best first: points, goal difference, goals for,
// head-to-head, then name. Team records must already be recomputed.
func Rank(teams []team.Team, matches []match.Match) []team.Team {
	out := team.CloneAll(teams)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j], matches) < 0
	})
	return out
}

// Table ranks the teams of one group and numbers them from 1.
func Table(teams []team.Team, matches []match.Match, group string) []Row {
	group = team.NormalizeGroup(group)
	members := make([]team.Team, 0, len(teams))
	for _, t := range teams {
		if team.NormalizeGroup(t.Group) == group {
			members = append(members, t)
		}
	}

	ranked := Rank(members, matches)
	rows := make([]Row, 0, len(ranked))
	for i, t := range ranked {
		rows = append(rows, Row{Position: i + 1, Team: t})
	}
	return rows
}

// Compare returns a negative value when a ranks above b.
func Compare(a, b team.Team, matches []match.Match) int {
	if a.Record.Points != b.Record.Points {
		return b.Record.Points - a.Record.Points
	}
	if gdA, gdB := a.Record.GoalDifference(), b.Record.GoalDifference(); gdA != gdB {
		return gdB - gdA
	}
	if a.Record.GoalsFor != b.Record.GoalsFor {
		return b.Record.GoalsFor - a.Record.GoalsFor
	}
	if h2h := HeadToHead(a.ID, b.ID, matches); h2h != 0 {
		return h2h
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// HeadToHead compares two teams on completed direct matches only: points
// first, then goals. Zero means no preference, including when they never met.
func HeadToHead(teamA, teamB string, matches []match.Match) int {
	var pointsA, pointsB, goalsA, goalsB int
	for _, m := range matches {
		if !m.Completed() {
			continue
		}

		var scoredA, scoredB int
		switch {
		case m.HomeTeamID == teamA && m.AwayTeamID == teamB:
			scoredA, scoredB = *m.HomeScore, *m.AwayScore
		case m.HomeTeamID == teamB && m.AwayTeamID == teamA:
			scoredA, scoredB = *m.AwayScore, *m.HomeScore
		default:
			continue
		}

		goalsA += scoredA
		goalsB += scoredB
		switch {
		case scoredA > scoredB:
			pointsA += PointsWin
		case scoredA < scoredB:
			pointsB += PointsWin
		default:
			pointsA += PointsDraw
			pointsB += PointsDraw
		}
	}

	if pointsA != pointsB {
		return pointsB - pointsA
	}
	return goalsB - goalsA
}
