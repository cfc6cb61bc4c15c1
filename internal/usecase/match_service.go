package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
	"github.com/riskibarqy/football-tournament/internal/platform/id"
	"github.com/riskibarqy/football-tournament/internal/platform/logging"
)

// maxEventMinute leaves room for stoppage time and extra time.
const maxEventMinute = 130

type ListMatchesInput struct {
	Group  string
	Status string
	TeamID string
}

type RecordScoreInput struct {
	HomeScore int
	AwayScore int
}

type GoalInput struct {
	TeamID   string
	PlayerID string
	Minute   int
}

type CardInput struct {
	TeamID   string
	PlayerID string
	Minute   int
	Type     string
}

type MatchService struct {
	matchRepo  match.Repository
	teamRepo   team.Repository
	ids        id.Generator
	tournament *Tournament
	logger     *logging.Logger
}

func NewMatchService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	ids id.Generator,
	tournament *Tournament,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		ids:        ids,
		tournament: tournament,
		logger:     logger,
	}
}

func (s *MatchService) ListMatches(ctx context.Context, input ListMatchesInput) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches", attrGroup.String(input.Group), attrTeamID.String(input.TeamID))
	defer span.End()

	filter := match.Filter{
		Group:  team.NormalizeGroup(input.Group),
		Status: strings.ToLower(strings.TrimSpace(input.Status)),
		TeamID: strings.TrimSpace(input.TeamID),
	}
	if filter.Group != "" && !team.ValidGroup(filter.Group) {
		return nil, fmt.Errorf("%w: group %q must be a single letter", ErrInvalidInput, input.Group)
	}
	switch filter.Status {
	case "", match.StatusScheduled, match.StatusCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, input.Status)
	}

	items, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, repoErr("list matches", err)
	}
	return items, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch", attrMatchID.String(matchID))
	defer span.End()

	return s.loadMatch(ctx, matchID)
}

// RecordScore sets the final score and marks the match completed.
func (s *MatchService) RecordScore(ctx context.Context, matchID string, input RecordScoreInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecordScore", attrMatchID.String(matchID))
	defer span.End()

	if input.HomeScore < 0 || input.AwayScore < 0 {
		return match.Match{}, fmt.Errorf("%w: scores must be >= 0", ErrInvalidInput)
	}

	out, err := s.update(ctx, "record score", matchID, func(m *match.Match) error {
		m.SetScore(input.HomeScore, input.AwayScore)
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match score recorded",
		"match_id", out.ID,
		"home_score", input.HomeScore,
		"away_score", input.AwayScore,
	)
	return out, nil
}

// ClearScore reverts the match to scheduled. Its goal and card events stay.
func (s *MatchService) ClearScore(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ClearScore", attrMatchID.String(matchID))
	defer span.End()

	return s.update(ctx, "clear score", matchID, func(m *match.Match) error {
		m.ClearScore()
		return nil
	})
}

func (s *MatchService) AddGoal(ctx context.Context, matchID string, input GoalInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.AddGoal", attrMatchID.String(matchID))
	defer span.End()

	return s.update(ctx, "add goal", matchID, func(m *match.Match) error {
		teamID, playerID, err := s.resolveParticipant(ctx, *m, input.TeamID, input.PlayerID, input.Minute)
		if err != nil {
			return err
		}
		eventID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate goal id: %w", err)
		}
		m.Goals = append(m.Goals, match.GoalEvent{
			ID:       eventID,
			MatchID:  m.ID,
			TeamID:   teamID,
			PlayerID: playerID,
			Minute:   input.Minute,
		})
		return nil
	})
}

func (s *MatchService) RemoveGoal(ctx context.Context, matchID, goalID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RemoveGoal", attrMatchID.String(matchID))
	defer span.End()

	goalID = strings.TrimSpace(goalID)
	return s.update(ctx, "remove goal", matchID, func(m *match.Match) error {
		for i, g := range m.Goals {
			if g.ID == goalID {
				m.Goals = append(m.Goals[:i], m.Goals[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: goal=%s match=%s", ErrNotFound, goalID, m.ID)
	})
}

func (s *MatchService) AddCard(ctx context.Context, matchID string, input CardInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.AddCard", attrMatchID.String(matchID))
	defer span.End()

	cardType := match.NormalizeCardType(input.Type)
	if !match.IsCardType(cardType) {
		return match.Match{}, fmt.Errorf("%w: card type %q must be yellow or red", ErrInvalidInput, input.Type)
	}

	return s.update(ctx, "add card", matchID, func(m *match.Match) error {
		teamID, playerID, err := s.resolveParticipant(ctx, *m, input.TeamID, input.PlayerID, input.Minute)
		if err != nil {
			return err
		}
		eventID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate card id: %w", err)
		}
		m.Cards = append(m.Cards, match.CardEvent{
			ID:       eventID,
			MatchID:  m.ID,
			TeamID:   teamID,
			PlayerID: playerID,
			Minute:   input.Minute,
			Type:     cardType,
		})
		return nil
	})
}

func (s *MatchService) RemoveCard(ctx context.Context, matchID, cardID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RemoveCard", attrMatchID.String(matchID))
	defer span.End()

	cardID = strings.TrimSpace(cardID)
	return s.update(ctx, "remove card", matchID, func(m *match.Match) error {
		for i, c := range m.Cards {
			if c.ID == cardID {
				m.Cards = append(m.Cards[:i], m.Cards[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: card=%s match=%s", ErrNotFound, cardID, m.ID)
	})
}

// update loads the match, applies change, stores it and replays the
// tournament, all under the tournament lock.
func (s *MatchService) update(ctx context.Context, op, matchID string, change func(m *match.Match) error) (match.Match, error) {
	var out match.Match
	err := s.tournament.mutate(ctx, op, func(ctx context.Context) error {
		item, err := s.loadMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if err := change(&item); err != nil {
			return err
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.matchRepo.Upsert(ctx, item); err != nil {
			return repoErr(op, err)
		}
		out = item
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}
	return out, nil
}

// resolveParticipant checks that the team plays in m and the player is on
// its roster.
func (s *MatchService) resolveParticipant(ctx context.Context, m match.Match, teamID, playerID string, minute int) (string, string, error) {
	teamID = strings.TrimSpace(teamID)
	playerID = strings.TrimSpace(playerID)
	if teamID == "" || playerID == "" {
		return "", "", fmt.Errorf("%w: team id and player id are required", ErrInvalidInput)
	}
	if minute < 0 || minute > maxEventMinute {
		return "", "", fmt.Errorf("%w: minute must be between 0 and %d", ErrInvalidInput, maxEventMinute)
	}
	if !m.Involves(teamID) {
		return "", "", fmt.Errorf("%w: team %s does not play in match %s", ErrInvalidInput, teamID, m.ID)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return "", "", repoErr("get team", err)
	}
	if !exists {
		return "", "", fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if _, _, ok := item.FindPlayer(playerID); !ok {
		return "", "", fmt.Errorf("%w: player %s is not on team %s", ErrInvalidInput, playerID, teamID)
	}
	return teamID, playerID, nil
}

func (s *MatchService) loadMatch(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, repoErr("get match", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}
