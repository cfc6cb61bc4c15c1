package match

import "context"

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	Group  string
	Status string
	TeamID string
}

// Repository exposes match persistence. Goal and card events travel with
// their match.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	Upsert(ctx context.Context, item Match) error
	ReplaceAll(ctx context.Context, items []Match) error
	Delete(ctx context.Context, matchID string) error
}

// Matches reports whether m passes f.
func (f Filter) Matches(m Match) bool {
	if f.Group != "" && m.Group != f.Group {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.TeamID != "" && !m.Involves(f.TeamID) {
		return false
	}
	return true
}
