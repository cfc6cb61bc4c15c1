package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
	"github.com/riskibarqy/football-tournament/internal/platform/logging"
	"github.com/riskibarqy/football-tournament/internal/platform/resilience"
	matchmock "github.com/riskibarqy/football-tournament/internal/mocks/domain/match"
	teammock "github.com/riskibarqy/football-tournament/internal/mocks/domain/team"
	idmock "github.com/riskibarqy/football-tournament/internal/mocks/platform/id"
	"github.com/stretchr/testify/mock"
)

func TestMatchService_ResultsDriveStandings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()
	service := NewMatchService(f.matches, f.teams, f.ids, f.tournament, logging.NewNop())
	table := NewStandingsService(f.tournament)

	scores := []struct {
		matchID    string
		home, away int
	}{
		{matchID: "m1", home: 2, away: 0},
		{matchID: "m2", home: 1, away: 1},
		{matchID: "m3", home: 3, away: 0},
	}
	for _, s := range scores {
		if _, err := service.RecordScore(ctx, s.matchID, RecordScoreInput{HomeScore: s.home, AwayScore: s.away}); err != nil {
			t.Fatalf("record %s: %v", s.matchID, err)
		}
	}

	want := team.Record{Played: 3, Won: 1, Drawn: 1, Lost: 1, GoalsFor: 3, GoalsAgainst: 4, Points: 4}
	if got := f.team(t, "a").Record; got != want {
		t.Fatalf("unexpected record for a: got=%+v want=%+v", got, want)
	}

	group, err := table.ListStandings(ctx, "a")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(group.Rows) != 4 || group.Rows[0].Team.ID != "a" || group.Rows[1].Team.ID != "d" {
		t.Fatalf("unexpected table order: %+v", group.Rows)
	}

	cleared, err := service.ClearScore(ctx, "m3")
	if err != nil {
		t.Fatalf("clear score: %v", err)
	}
	if cleared.Completed() || cleared.Status != match.StatusScheduled {
		t.Fatalf("expected m3 back to scheduled, got %+v", cleared)
	}
	if got := f.team(t, "a").Record.Points; got != 4 {
		t.Fatalf("expected 4 points after clearing a loss, got %d", got)
	}
	if got := f.team(t, "d").Record.Played; got != 0 {
		t.Fatalf("expected d to have no played matches, got %d", got)
	}

	all, err := table.ListAllGroups(ctx)
	if err != nil || len(all) != 1 || all[0].Group != "A" {
		t.Fatalf("unexpected group tables: %+v err=%v", all, err)
	}
}

func TestMatchService_CardsBanAndReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()
	service := NewMatchService(f.matches, f.teams, f.ids, f.tournament, logging.NewNop())
	discipline := NewDisciplineService(f.teams, f.tournament, logging.NewNop())

	for _, matchID := range []string{"m1", "m2"} {
		if _, err := service.AddCard(ctx, matchID, CardInput{TeamID: "a", PlayerID: "a1", Minute: 30, Type: " Yellow "}); err != nil {
			t.Fatalf("add card in %s: %v", matchID, err)
		}
	}

	banned, err := discipline.ListBannedPlayers(ctx)
	if err != nil {
		t.Fatalf("list banned: %v", err)
	}
	if len(banned) != 1 || banned[0].Player.ID != "a1" || banned[0].TeamName != "Team a" {
		t.Fatalf("expected a1 banned, got %+v", banned)
	}

	player, err := discipline.ResetBan(ctx, "a", "a1")
	if err != nil {
		t.Fatalf("reset ban: %v", err)
	}
	if player.IsBanned || player.YellowCardsServed != 2 {
		t.Fatalf("expected waiver of 2 yellows, got %+v", player)
	}

	// The waiver survives the replay triggered by the next mutation.
	if _, err := service.AddGoal(ctx, "m1", GoalInput{TeamID: "a", PlayerID: "a1", Minute: 80}); err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if p := f.team(t, "a").Players[0]; p.IsBanned || p.Goals != 1 {
		t.Fatalf("expected unbanned scorer, got %+v", p)
	}

	carded, err := discipline.ListCardedPlayers(ctx)
	if err != nil || len(carded) != 1 {
		t.Fatalf("expected one carded player, got %d err=%v", len(carded), err)
	}
	scorers, err := discipline.TopScorers(ctx, 0)
	if err != nil || len(scorers) != 1 || scorers[0].Player.Goals != 1 {
		t.Fatalf("unexpected top scorers: %+v err=%v", scorers, err)
	}
}

func TestMatchService_RemoveEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()
	service := NewMatchService(f.matches, f.teams, f.ids, f.tournament, logging.NewNop())

	withGoal, err := service.AddGoal(ctx, "m1", GoalInput{TeamID: "b", PlayerID: "b1", Minute: 12})
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	withCard, err := service.AddCard(ctx, "m1", CardInput{TeamID: "b", PlayerID: "b1", Minute: 13, Type: match.CardRed})
	if err != nil {
		t.Fatalf("add card: %v", err)
	}
	if !f.team(t, "b").Players[0].IsBanned {
		t.Fatalf("expected red card ban")
	}

	if _, err := service.RemoveGoal(ctx, "m1", withGoal.Goals[0].ID); err != nil {
		t.Fatalf("remove goal: %v", err)
	}
	if _, err := service.RemoveCard(ctx, "m1", withCard.Cards[0].ID); err != nil {
		t.Fatalf("remove card: %v", err)
	}
	if p := f.team(t, "b").Players[0]; p.Goals != 0 || p.IsBanned {
		t.Fatalf("expected tallies cleared, got %+v", p)
	}

	if _, err := service.RemoveGoal(ctx, "m1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_RejectsBadEvents(t *testing.T) {
	t.Parallel()

	f := newFixture()
	service := NewMatchService(f.matches, f.teams, f.ids, f.tournament, logging.NewNop())

	tests := []struct {
		name  string
		input CardInput
		want  error
	}{
		{name: "unknown card type", input: CardInput{TeamID: "a", PlayerID: "a1", Type: "green"}, want: ErrInvalidInput},
		{name: "team not in match", input: CardInput{TeamID: "c", PlayerID: "c1", Type: match.CardYellow}, want: ErrInvalidInput},
		{name: "player on other team", input: CardInput{TeamID: "a", PlayerID: "b1", Type: match.CardYellow}, want: ErrInvalidInput},
		{name: "minute out of range", input: CardInput{TeamID: "a", PlayerID: "a1", Minute: 200, Type: match.CardYellow}, want: ErrInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.AddCard(context.Background(), "m1", tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := service.RecordScore(context.Background(), "m1", RecordScoreInput{HomeScore: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected negative score rejected, got %v", err)
	}
	if _, err := service.ListMatches(context.Background(), ListMatchesInput{Status: "postponed"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown status rejected, got %v", err)
	}
}

func TestMatchService_ListMatchesNormalizesFilterUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	tournament := NewTournament(teamRepo, matchRepo, TournamentOptions{Logger: logging.NewNop()})
	service := NewMatchService(matchRepo, teamRepo, idmock.NewGenerator(t), tournament, logging.NewNop())

	matchRepo.
		On("List", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), match.Filter{Group: "B", Status: match.StatusCompleted}).
		Return([]match.Match{{ID: "m9"}}, nil).
		Once()

	got, err := service.ListMatches(ctx, ListMatchesInput{Group: " b ", Status: "COMPLETED"})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m9" {
		t.Fatalf("unexpected matches: %+v", got)
	}
}

func TestMatchService_GetMatch_BreakerOpenUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	tournament := NewTournament(teamRepo, matchRepo, TournamentOptions{Logger: logging.NewNop()})
	service := NewMatchService(matchRepo, teamRepo, idmock.NewGenerator(t), tournament, logging.NewNop())

	matchRepo.On("GetByID", mock.Anything, "m1").Return(match.Match{}, false, resilience.ErrCircuitOpen).Once()

	_, err := service.GetMatch(context.Background(), "m1")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
