package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/football-tournament/internal/domain/team"
	"github.com/riskibarqy/football-tournament/internal/platform/id"
	"github.com/riskibarqy/football-tournament/internal/platform/logging"
)

type CreateTeamInput struct {
	Name  string
	Group string
}

type AddPlayerInput struct {
	Name     string
	Position string
	Number   int
}

type TeamService struct {
	teamRepo   team.Repository
	ids        id.Generator
	tournament *Tournament
	logger     *logging.Logger
}

func NewTeamService(teamRepo team.Repository, ids id.Generator, tournament *Tournament, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamService{
		teamRepo:   teamRepo,
		ids:        ids,
		tournament: tournament,
		logger:     logger,
	}
}

func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateTeam", attrGroup.String(input.Group))
	defer span.End()

	name := strings.TrimSpace(input.Name)
	group := team.NormalizeGroup(input.Group)
	if name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if !team.ValidGroup(group) {
		return team.Team{}, fmt.Errorf("%w: group %q must be a single letter", ErrInvalidInput, input.Group)
	}

	var created team.Team
	err := s.tournament.mutate(ctx, "create team", func(ctx context.Context) error {
		existing, err := s.teamRepo.ListByGroup(ctx, group)
		if err != nil {
			return repoErr("list teams by group", err)
		}
		for _, item := range existing {
			if strings.EqualFold(item.Name, name) {
				return fmt.Errorf("%w: team %q already exists in group %s", ErrConflict, name, group)
			}
		}

		teamID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate team id: %w", err)
		}
		created = team.Team{ID: teamID, Name: name, Group: group, Players: []team.Player{}}
		if err := created.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.teamRepo.Upsert(ctx, created); err != nil {
			return repoErr("create team", err)
		}
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "team created", "team_id", created.ID, "group", created.Group)
	return created, nil
}

// ListTeams returns every team, or one group when group is set.
func (s *TeamService) ListTeams(ctx context.Context, group string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams", attrGroup.String(group))
	defer span.End()

	group = team.NormalizeGroup(group)
	if group == "" {
		items, err := s.teamRepo.List(ctx)
		if err != nil {
			return nil, repoErr("list teams", err)
		}
		return items, nil
	}
	if !team.ValidGroup(group) {
		return nil, fmt.Errorf("%w: group %q must be a single letter", ErrInvalidInput, group)
	}

	items, err := s.teamRepo.ListByGroup(ctx, group)
	if err != nil {
		return nil, repoErr("list teams by group", err)
	}
	return items, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam", attrTeamID.String(teamID))
	defer span.End()

	return s.loadTeam(ctx, teamID)
}

// DeleteTeam removes the team and its roster. Matches that still reference
// it are ignored by the next recompute.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.DeleteTeam", attrTeamID.String(teamID))
	defer span.End()

	return s.tournament.mutate(ctx, "delete team", func(ctx context.Context) error {
		item, err := s.loadTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if err := s.teamRepo.Delete(ctx, item.ID); err != nil {
			return repoErr("delete team", err)
		}
		s.logger.InfoContext(ctx, "team deleted", "team_id", item.ID)
		return nil
	})
}

func (s *TeamService) AddPlayer(ctx context.Context, teamID string, input AddPlayerInput) (team.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.AddPlayer", attrTeamID.String(teamID))
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return team.Player{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	if input.Number < 0 {
		return team.Player{}, fmt.Errorf("%w: shirt number must be >= 0", ErrInvalidInput)
	}

	var added team.Player
	err := s.tournament.mutate(ctx, "add player", func(ctx context.Context) error {
		item, err := s.loadTeam(ctx, teamID)
		if err != nil {
			return err
		}

		playerID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate player id: %w", err)
		}
		added = team.Player{
			ID:       playerID,
			TeamID:   item.ID,
			Name:     name,
			Position: strings.TrimSpace(input.Position),
			Number:   input.Number,
		}
		if err := added.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		item.Players = append(item.Players, added)
		if err := s.teamRepo.Upsert(ctx, item); err != nil {
			return repoErr("add player", err)
		}
		return nil
	})
	if err != nil {
		return team.Player{}, err
	}

	s.logger.InfoContext(ctx, "player added", "team_id", added.TeamID, "player_id", added.ID)
	return added, nil
}

// RemovePlayer drops the player from the roster. Goals and cards already
// recorded for them stop counting from the next recompute.
func (s *TeamService) RemovePlayer(ctx context.Context, teamID, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RemovePlayer", attrTeamID.String(teamID), attrPlayerID.String(playerID))
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	return s.tournament.mutate(ctx, "remove player", func(ctx context.Context) error {
		item, err := s.loadTeam(ctx, teamID)
		if err != nil {
			return err
		}
		_, idx, ok := item.FindPlayer(playerID)
		if !ok {
			return fmt.Errorf("%w: player=%s team=%s", ErrNotFound, playerID, item.ID)
		}

		item.Players = append(item.Players[:idx], item.Players[idx+1:]...)
		if err := s.teamRepo.Upsert(ctx, item); err != nil {
			return repoErr("remove player", err)
		}
		return nil
	})
}

// ListGroups returns the distinct group keys in order.
func (s *TeamService) ListGroups(ctx context.Context) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListGroups")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, repoErr("list teams", err)
	}
	return groupKeys(items), nil
}

func (s *TeamService) loadTeam(ctx context.Context, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, repoErr("get team", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return item, nil
}

func groupKeys(teams []team.Team) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range teams {
		if _, ok := seen[t.Group]; ok {
			continue
		}
		seen[t.Group] = struct{}{}
		out = append(out, t.Group)
	}
	sort.Strings(out)
	return out
}
