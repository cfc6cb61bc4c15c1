package team

import "context"

// Repository describes team persistence needs from use cases.
// Players are stored with their owning team.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	ListByGroup(ctx context.Context, group string) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	Upsert(ctx context.Context, item Team) error
	Delete(ctx context.Context, teamID string) error
}
