package standings

import (
	"reflect"
	"testing"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
)

func played(id, home, away string, homeScore, awayScore int) match.Match {
	m := match.Match{ID: id, HomeTeamID: home, AwayTeamID: away, Group: "A", Status: match.StatusScheduled}
	m.SetScore(homeScore, awayScore)
	return m
}

func pending(id, home, away string) match.Match {
	return match.Match{ID: id, HomeTeamID: home, AwayTeamID: away, Group: "A", Status: match.StatusScheduled}
}

func teamsNamed(names map[string]string) []team.Team {
	out := make([]team.Team, 0, len(names))
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		name, ok := names[id]
		if !ok {
			continue
		}
		out = append(out, team.Team{ID: id, Name: name, Group: "A"})
	}
	return out
}

func findTeam(t *testing.T, teams []team.Team, id string) team.Team {
	t.Helper()
	for _, item := range teams {
		if item.ID == id {
			return item
		}
	}
	t.Fatalf("team %s not found", id)
	return team.Team{}
}

func TestRecompute_WinDrawLossScenario(t *testing.T) {
	t.Parallel()

	teams := teamsNamed(map[string]string{"a": "A", "b": "B", "c": "C", "d": "D"})
	matches := []match.Match{
		played("m1", "a", "b", 2, 0),
		played("m2", "c", "a", 1, 1),
		played("m3", "a", "d", 0, 3),
		pending("m4", "b", "c"),
	}

	got := findTeam(t, Recompute(teams, matches), "a").Record
	want := team.Record{Played: 3, Won: 1, Drawn: 1, Lost: 1, GoalsFor: 3, GoalsAgainst: 4, Points: 4}
	if got != want {
		t.Fatalf("unexpected record: got %+v want %+v", got, want)
	}
}

func TestRecompute_EmptyMatchesZeroesAggregates(t *testing.T) {
	t.Parallel()

	teams := teamsNamed(map[string]string{"a": "A", "b": "B"})
	teams[0].Record = team.Record{Played: 9, Won: 9, Points: 27, GoalsFor: 20}

	for _, item := range Recompute(teams, nil) {
		if item.Record != (team.Record{}) {
			t.Fatalf("expected zero record for %s, got %+v", item.ID, item.Record)
		}
	}
	if teams[0].Record.Points != 27 {
		t.Fatalf("input team was mutated")
	}
}

func TestRecompute_IsIdempotentAndKeepsIdentities(t *testing.T) {
	t.Parallel()

	teams := teamsNamed(map[string]string{"a": "A", "b": "B", "c": "C", "d": "D"})
	matches := []match.Match{
		played("m1", "a", "b", 3, 2),
		played("m2", "c", "d", 0, 0),
		played("m3", "a", "c", 1, 4),
		played("m4", "b", "d", 2, 2),
	}

	first := Recompute(teams, matches)
	second := Recompute(first, matches)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recompute is not idempotent:\n%+v\n%+v", first, second)
	}

	for _, item := range second {
		r := item.Record
		if r.Points != 3*r.Won+r.Drawn {
			t.Fatalf("points identity broken for %s: %+v", item.ID, r)
		}
		if r.Played != r.Won+r.Drawn+r.Lost {
			t.Fatalf("played identity broken for %s: %+v", item.ID, r)
		}
	}
}

func TestRecompute_SkipsUnknownTeams(t *testing.T) {
	t.Parallel()

	teams := teamsNamed(map[string]string{"a": "A", "b": "B"})
	matches := []match.Match{
		played("m1", "a", "ghost", 5, 0),
		played("m2", "a", "b", 1, 0),
	}

	got := findTeam(t, Recompute(teams, matches), "a").Record
	if got.Played != 1 || got.GoalsFor != 1 || got.Points != 3 {
		t.Fatalf("expected only the known match to count, got %+v", got)
	}
}

func TestRank_GoalsForBeatsHeadToHead(t *testing.T) {
	t.Parallel()

	teams := teamsNamed(map[string]string{"a": "Alpha", "b": "Bravo", "c": "Charlie"})
	matches := []match.Match{
		played("m1", "b", "a", 2, 1),
		played("m2", "a", "c", 4, 2),
	}

	ranked := Rank(Recompute(teams, matches), matches)
	if ranked[0].ID != "a" || ranked[1].ID != "b" {
		t.Fatalf("expected a above b on goals for, got %s, %s", ranked[0].ID, ranked[1].ID)
	}
	if HeadToHead("a", "b", matches) <= 0 {
		t.Fatalf("expected head-to-head to favour b")
	}
}

func TestRank_HeadToHeadBreaksTie(t *testing.T) {
	t.Parallel()

	teams := teamsNamed(map[string]string{"a": "Zeta", "b": "Alpha", "c": "Gamma", "d": "Delta"})
	matches := []match.Match{
		played("m1", "a", "b", 1, 0),
		played("m2", "c", "a", 2, 1),
		played("m3", "b", "d", 2, 1),
	}

	recomputed := Recompute(teams, matches)
	a := findTeam(t, recomputed, "a").Record
	b := findTeam(t, recomputed, "b").Record
	if a.Points != b.Points || a.GoalDifference() != b.GoalDifference() || a.GoalsFor != b.GoalsFor {
		t.Fatalf("fixture does not tie a and b: %+v vs %+v", a, b)
	}

	if got := Compare(findTeam(t, recomputed, "a"), findTeam(t, recomputed, "b"), matches); got >= 0 {
		t.Fatalf("expected a ahead of b via head-to-head, compare=%d", got)
	}
}

func TestRank_NameIsFinalTiebreak(t *testing.T) {
	t.Parallel()

	teams := teamsNamed(map[string]string{"a": "Peru FC", "b": "Arumba FC", "c": "Lemka"})
	rows := Table(teams, nil, "a")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	want := []string{"Arumba FC", "Lemka", "Peru FC"}
	for i, row := range rows {
		if row.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, row.Position)
		}
		if row.Team.Name != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i+1, want[i], row.Team.Name)
		}
	}
}

func TestHeadToHead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		matches []match.Match
		want    int
	}{
		{name: "never met", matches: []match.Match{played("m1", "a", "c", 1, 0)}, want: 0},
		{name: "unplayed direct match", matches: []match.Match{pending("m1", "a", "b")}, want: 0},
		{name: "a won away", matches: []match.Match{played("m1", "b", "a", 0, 2)}, want: -1},
		{name: "draw", matches: []match.Match{played("m1", "a", "b", 2, 2)}, want: 0},
		{name: "b won", matches: []match.Match{played("m1", "a", "b", 0, 1)}, want: 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := HeadToHead("a", "b", tc.matches)
			if sign(got) != tc.want {
				t.Fatalf("expected sign %d, got %d", tc.want, got)
			}
		})
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
