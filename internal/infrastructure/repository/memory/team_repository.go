package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/football-tournament/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
	order []string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	repo := &TeamRepository{teams: make(map[string]team.Team, len(teams))}
	for _, item := range teams {
		repo.put(item)
	}
	return repo
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.teams[id].Clone())
	}
	return out, nil
}

func (r *TeamRepository) ListByGroup(_ context.Context, group string) ([]team.Team, error) {
	group = team.NormalizeGroup(group)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, id := range r.order {
		item := r.teams[id]
		if item.Group == group {
			out = append(out, item.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[strings.TrimSpace(teamID)]
	if !ok {
		return team.Team{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(item)
	return nil
}

func (r *TeamRepository) Delete(_ context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	teamID = strings.TrimSpace(teamID)
	if _, ok := r.teams[teamID]; !ok {
		return nil
	}
	delete(r.teams, teamID)
	for i, id := range r.order {
		if id == teamID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// put keeps insertion order so List is stable across calls.
func (r *TeamRepository) put(item team.Team) {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		return
	}
	if _, exists := r.teams[id]; !exists {
		r.order = append(r.order, id)
	}
	r.teams[id] = item.Clone()
}
