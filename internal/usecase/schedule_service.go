package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/schedule"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
	"github.com/riskibarqy/football-tournament/internal/platform/id"
	"github.com/riskibarqy/football-tournament/internal/platform/logging"
)

type ScheduleConfig struct {
	Venue       string
	MinRestDays int
	// Seed fixes the pairing shuffle when SeedSet is true.
	Seed    int64
	SeedSet bool
	Now     func() time.Time
}

type GenerateScheduleInput struct {
	StartDate string
	// Force discards completed matches instead of refusing.
	Force bool
}

type ScheduleResult struct {
	Matches       []match.Match
	Total         int
	Scheduled     int
	Shortfall     int
	Passes        int
	SkippedGroups []string
}

type ScheduleService struct {
	teamRepo   team.Repository
	matchRepo  match.Repository
	ids        id.Generator
	tournament *Tournament
	logger     *logging.Logger
	cfg        ScheduleConfig
	rand       *rand.Rand
}

func NewScheduleService(
	teamRepo team.Repository,
	matchRepo match.Repository,
	ids id.Generator,
	tournament *Tournament,
	cfg ScheduleConfig,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &ScheduleService{
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		ids:        ids,
		tournament: tournament,
		logger:     logger,
		cfg:        cfg,
		rand:       rand.New(rand.NewSource(cfg.Now().UnixNano())),
	}
}

// generationRand starts every run from the configured seed, so regenerating
// for the same teams and start date yields the same fixtures. Without a seed
// all runs share one time-seeded source; mutate serialises its use.
func (s *ScheduleService) generationRand() *rand.Rand {
	if s.cfg.SeedSet {
		return rand.New(rand.NewSource(s.cfg.Seed))
	}
	return s.rand
}

// GenerateSchedule replaces every stored match with a fresh round-robin.
// It refuses with ErrConflict while completed matches exist unless Force is set.
func (s *ScheduleService) GenerateSchedule(ctx context.Context, input GenerateScheduleInput) (ScheduleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GenerateSchedule")
	defer span.End()

	var out ScheduleResult
	err := s.tournament.mutate(ctx, "generate schedule", func(ctx context.Context) error {
		teams, existing, err := s.tournament.snapshot(ctx)
		if err != nil {
			return err
		}

		completed := 0
		for _, m := range existing {
			if m.Completed() {
				completed++
			}
		}
		if completed > 0 && !input.Force {
			return fmt.Errorf("%w: %d completed matches would be discarded", ErrConflict, completed)
		}

		scheduler := schedule.New(schedule.Options{
			Venue:       s.cfg.Venue,
			MinRestDays: s.cfg.MinRestDays,
			Rand:        s.generationRand(),
			Now:         s.cfg.Now,
			IDs:         s.ids,
		})
		result, err := scheduler.Generate(input.StartDate, teams)
		if err != nil {
			if errors.Is(err, schedule.ErrInvalidInput) {
				s.logger.WarnContext(ctx, "schedule input rejected", "error", err)
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return fmt.Errorf("generate schedule: %w", err)
		}

		if err := s.matchRepo.ReplaceAll(ctx, result.Matches); err != nil {
			return repoErr("replace matches", err)
		}

		if len(result.SkippedGroups) > 0 {
			s.logger.InfoContext(ctx, "groups skipped for having fewer than two teams", "groups", result.SkippedGroups)
		}
		if result.Shortfall() > 0 {
			s.logger.WarnContext(ctx, "schedule incomplete, pass budget exhausted",
				"scheduled", result.Scheduled(),
				"total", result.Total,
				"passes", result.Passes,
			)
		}
		if completed > 0 {
			s.logger.WarnContext(ctx, "completed matches discarded by forced reschedule", "count", completed)
		}

		out = ScheduleResult{
			Matches:       result.Matches,
			Total:         result.Total,
			Scheduled:     result.Scheduled(),
			Shortfall:     result.Shortfall(),
			Passes:        result.Passes,
			SkippedGroups: result.SkippedGroups,
		}
		return nil
	})
	if err != nil {
		return ScheduleResult{}, err
	}

	s.logger.InfoContext(ctx, "schedule generated", "matches", out.Scheduled, "total", out.Total)
	return out, nil
}

// ClearSchedule deletes every match, played or not.
func (s *ScheduleService) ClearSchedule(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ClearSchedule")
	defer span.End()

	return s.tournament.mutate(ctx, "clear schedule", func(ctx context.Context) error {
		if err := s.matchRepo.ReplaceAll(ctx, []match.Match{}); err != nil {
			return repoErr("clear matches", err)
		}
		s.logger.InfoContext(ctx, "schedule cleared")
		return nil
	})
}
