package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(items []match.Match) *MatchRepository {
	repo := &MatchRepository{matches: make(map[string]match.Match, len(items))}
	for _, item := range items {
		if id := strings.TrimSpace(item.ID); id != "" {
			repo.matches[id] = item.Clone()
		}
	}
	return repo
}

// List returns matches ordered by date, kickoff time and id.
func (r *MatchRepository) List(_ context.Context, filter match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		if filter.Matches(item) {
			out = append(out, item.Clone())
		}
	}
	r.mu.RUnlock()

	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[strings.TrimSpace(matchID)]
	if !ok {
		return match.Match{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		return nil
	}

	r.mu.Lock()
	r.matches[id] = item.Clone()
	r.mu.Unlock()
	return nil
}

func (r *MatchRepository) ReplaceAll(_ context.Context, items []match.Match) error {
	next := make(map[string]match.Match, len(items))
	for _, item := range items {
		if id := strings.TrimSpace(item.ID); id != "" {
			next[id] = item.Clone()
		}
	}

	r.mu.Lock()
	r.matches = next
	r.mu.Unlock()
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) error {
	r.mu.Lock()
	delete(r.matches, strings.TrimSpace(matchID))
	r.mu.Unlock()
	return nil
}

func sortMatches(items []match.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
}
