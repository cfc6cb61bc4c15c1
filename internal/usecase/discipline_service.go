package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/football-tournament/internal/domain/discipline"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
	"github.com/riskibarqy/football-tournament/internal/platform/logging"
)

const defaultTopScorersLimit = 10

type DisciplineService struct {
	teamRepo   team.Repository
	tournament *Tournament
	logger     *logging.Logger
}

func NewDisciplineService(teamRepo team.Repository, tournament *Tournament, logger *logging.Logger) *DisciplineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DisciplineService{
		teamRepo:   teamRepo,
		tournament: tournament,
		logger:     logger,
	}
}

// TopScorers lists scorers, most goals first. limit <= 0 uses the default.
func (s *DisciplineService) TopScorers(ctx context.Context, limit int) ([]discipline.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DisciplineService.TopScorers")
	defer span.End()

	if limit <= 0 {
		limit = defaultTopScorersLimit
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, repoErr("list teams", err)
	}
	return discipline.TopScorers(teams, limit), nil
}

func (s *DisciplineService) ListCardedPlayers(ctx context.Context) ([]discipline.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DisciplineService.ListCardedPlayers")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, repoErr("list teams", err)
	}
	return discipline.Carded(teams), nil
}

func (s *DisciplineService) ListBannedPlayers(ctx context.Context) ([]discipline.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DisciplineService.ListBannedPlayers")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, repoErr("list teams", err)
	}
	return discipline.Banned(teams), nil
}

// ResetBan waives the player's yellow cards counted so far. A red card ban
// is not lifted.
func (s *DisciplineService) ResetBan(ctx context.Context, teamID, playerID string) (team.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DisciplineService.ResetBan", attrTeamID.String(teamID), attrPlayerID.String(playerID))
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	playerID = strings.TrimSpace(playerID)
	if teamID == "" || playerID == "" {
		return team.Player{}, fmt.Errorf("%w: team id and player id are required", ErrInvalidInput)
	}

	var out team.Player
	err := s.tournament.mutate(ctx, "reset ban", func(ctx context.Context) error {
		item, exists, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return repoErr("get team", err)
		}
		if !exists {
			return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
		p, idx, ok := item.FindPlayer(playerID)
		if !ok {
			return fmt.Errorf("%w: player=%s team=%s", ErrNotFound, playerID, teamID)
		}

		item.Players[idx] = discipline.ResetBan(p, s.tournament.Rules())
		if err := s.teamRepo.Upsert(ctx, item); err != nil {
			return repoErr("reset ban", err)
		}
		out = item.Players[idx]
		return nil
	})
	if err != nil {
		return team.Player{}, err
	}

	s.logger.InfoContext(ctx, "player ban reset",
		"team_id", teamID,
		"player_id", playerID,
		"still_banned", out.IsBanned,
	)
	return out, nil
}

// Recompute forces a full replay of standings and discipline.
func (s *DisciplineService) Recompute(ctx context.Context) error {
	_, err := s.tournament.Recompute(ctx)
	return err
}
