package cache

import (
	"context"
	"strings"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
	basecache "github.com/riskibarqy/football-tournament/internal/platform/cache"
)

const (
	teamPrefix  = "team:"
	matchPrefix = "match:"
)

// TeamRepository is a read-through cache over a team.Repository. Every write
// drops all cached team entries since group listings overlap single lookups.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return r.loadList(ctx, teamPrefix+"list", func(ctx context.Context) ([]team.Team, error) {
		return r.next.List(ctx)
	})
}

func (r *TeamRepository) ListByGroup(ctx context.Context, group string) ([]team.Team, error) {
	group = team.NormalizeGroup(group)
	return r.loadList(ctx, teamPrefix+"group:"+group, func(ctx context.Context) ([]team.Team, error) {
		return r.next.ListByGroup(ctx, group)
	})
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	key := teamPrefix + "id:" + strings.TrimSpace(id)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value.Clone(), cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.Upsert(ctx, item)
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.Delete(ctx, id)
}

func (r *TeamRepository) loadList(ctx context.Context, key string, load func(context.Context) ([]team.Team, error)) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return team.CloneAll(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return team.CloneAll(items), nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

// MatchRepository caches match reads keyed by filter.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, matchPrefix+"list:"+filterKey(filter), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return match.CloneAll(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return match.CloneAll(items), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	key := matchPrefix + "id:" + strings.TrimSpace(id)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value.Clone(), cached.exists, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	defer r.cache.DeletePrefix(ctx, matchPrefix)
	return r.next.Upsert(ctx, item)
}

func (r *MatchRepository) ReplaceAll(ctx context.Context, items []match.Match) error {
	defer r.cache.DeletePrefix(ctx, matchPrefix)
	return r.next.ReplaceAll(ctx, items)
}

func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	defer r.cache.DeletePrefix(ctx, matchPrefix)
	return r.next.Delete(ctx, id)
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

func filterKey(f match.Filter) string {
	return strings.ToUpper(strings.TrimSpace(f.Group)) + "|" +
		strings.ToLower(strings.TrimSpace(f.Status)) + "|" +
		strings.TrimSpace(f.TeamID)
}
