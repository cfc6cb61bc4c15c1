package usecase

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/football-tournament/internal/domain/discipline"
	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/standings"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
	"github.com/riskibarqy/football-tournament/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/trace"
)

const defaultRecomputeWorkers = 4

// Tournament serialises every administrative mutation and owns the full
// replay of standings and discipline after each one.
type Tournament struct {
	teamRepo  team.Repository
	matchRepo match.Repository
	rules     discipline.Rules
	workers   int
	logger    *logging.Logger

	mu sync.Mutex
}

type TournamentOptions struct {
	Rules   discipline.Rules
	Workers int
	Logger  *logging.Logger
}

func NewTournament(teamRepo team.Repository, matchRepo match.Repository, opts TournamentOptions) *Tournament {
	if opts.Rules.YellowCardBanThreshold <= 0 {
		opts.Rules = discipline.DefaultRules()
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultRecomputeWorkers
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	return &Tournament{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		rules:     opts.Rules,
		workers:   opts.Workers,
		logger:    opts.Logger,
	}
}

func (t *Tournament) Rules() discipline.Rules {
	return t.rules
}

// mutate runs fn under the tournament lock and replays the tournament after
// it succeeds.
func (t *Tournament) mutate(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attrOp.String(op))
	defer func() { markSpanFailure(span, err) }()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}
	if _, err := t.recomputeLocked(ctx); err != nil {
		return fmt.Errorf("recompute after %s: %w", op, err)
	}
	return nil
}

// Recompute replays every completed match and card into team records and
// player tallies, then persists the teams that changed.
func (t *Tournament) Recompute(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Tournament.Recompute")
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()
	teams, err := t.recomputeLocked(ctx)
	markSpanFailure(span, err)
	return teams, err
}

func (t *Tournament) recomputeLocked(ctx context.Context) ([]team.Team, error) {
	teams, matches, err := t.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if dangling := danglingReferences(teams, matches); dangling > 0 {
		t.logger.DebugContext(ctx, "recompute skipped events with unknown references", "count", dangling)
	}

	updated := standings.Recompute(teams, matches)
	updated = discipline.Recompute(updated, matches, t.rules)

	changed := make([]team.Team, 0, len(updated))
	for i := range updated {
		if !reflect.DeepEqual(updated[i], teams[i]) {
			changed = append(changed, updated[i])
		}
	}
	if err := t.persistTeams(ctx, changed); err != nil {
		return nil, err
	}

	t.logger.DebugContext(ctx, "tournament recomputed",
		"teams", len(updated),
		"matches", len(matches),
		"changed", len(changed),
	)
	return updated, nil
}

// snapshot reads teams and matches concurrently.
func (t *Tournament) snapshot(ctx context.Context) ([]team.Team, []match.Match, error) {
	var (
		teams   []team.Team
		matches []match.Match
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := t.teamRepo.List(ctx)
		if err != nil {
			return repoErr("list teams", err)
		}
		teams = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := t.matchRepo.List(ctx, match.Filter{})
		if err != nil {
			return repoErr("list matches", err)
		}
		matches = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}
	return teams, matches, nil
}

// persistTeams fans the upserts out over a bounded worker pool and returns the
// first failure.
func (t *Tournament) persistTeams(ctx context.Context, items []team.Team) error {
	if len(items) == 0 {
		return nil
	}

	workers, err := ants.NewPool(min(t.workers, len(items)))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, item := range items {
		item := item
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			if err := t.teamRepo.Upsert(ctx, item); err != nil {
				errOnce.Do(func() {
					firstErr = repoErr("upsert team "+item.ID, err)
				})
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit team upsert to worker pool: %w", err)
		}
	}
	wg.Wait()
	return firstErr
}

// danglingReferences counts matches and events the replay will ignore because
// a team or player id does not resolve.
func danglingReferences(teams []team.Team, matches []match.Match) int {
	players := make(map[string]map[string]struct{}, len(teams))
	for _, t := range teams {
		ids := make(map[string]struct{}, len(t.Players))
		for _, p := range t.Players {
			ids[p.ID] = struct{}{}
		}
		players[t.ID] = ids
	}
	known := func(teamID, playerID string) bool {
		ids, ok := players[teamID]
		if !ok {
			return false
		}
		_, ok = ids[playerID]
		return ok
	}

	count := 0
	for _, m := range matches {
		_, home := players[m.HomeTeamID]
		_, away := players[m.AwayTeamID]
		if m.Completed() && (!home || !away) {
			count++
		}
		for _, g := range m.Goals {
			if !known(g.TeamID, g.PlayerID) {
				count++
			}
		}
		for _, c := range m.Cards {
			if !known(c.TeamID, c.PlayerID) {
				count++
			}
		}
	}
	return count
}
