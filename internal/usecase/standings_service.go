package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/standings"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
)

type GroupTable struct {
	Group string
	Rows  []standings.Row
}

// StandingsService ranks the persisted team records. The records are kept
// current by the recompute after every mutation; matches are only read for
// the head-to-head tie-break.
type StandingsService struct {
	tournament *Tournament
}

func NewStandingsService(tournament *Tournament) *StandingsService {
	return &StandingsService{tournament: tournament}
}

func (s *StandingsService) ListStandings(ctx context.Context, group string) (GroupTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListStandings", attrGroup.String(group))
	defer span.End()

	group = team.NormalizeGroup(group)
	if !team.ValidGroup(group) {
		return GroupTable{}, fmt.Errorf("%w: group %q must be a single letter", ErrInvalidInput, group)
	}

	teams, matches, err := s.tournament.snapshot(ctx)
	if err != nil {
		return GroupTable{}, err
	}

	rows := standings.Table(teams, matches, group)
	if len(rows) == 0 {
		return GroupTable{}, fmt.Errorf("%w: group=%s", ErrNotFound, group)
	}
	return GroupTable{Group: group, Rows: rows}, nil
}

func (s *StandingsService) ListAllGroups(ctx context.Context) ([]GroupTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListAllGroups")
	defer span.End()

	teams, matches, err := s.tournament.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return tables(teams, matches), nil
}

func tables(teams []team.Team, matches []match.Match) []GroupTable {
	groups := groupKeys(teams)
	out := make([]GroupTable, 0, len(groups))
	for _, group := range groups {
		out = append(out, GroupTable{Group: group, Rows: standings.Table(teams, matches, group)})
	}
	return out
}
