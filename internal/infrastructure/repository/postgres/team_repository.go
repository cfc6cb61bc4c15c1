package postgres

import (
	"context"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
	"github.com/riskibarqy/football-tournament/internal/platform/resilience"
	qb "github.com/riskibarqy/football-tournament/internal/platform/querybuilder"
)

type TeamRepository struct {
	store
}

func NewTeamRepository(db *sqlx.DB, breaker *resilience.CircuitBreaker) *TeamRepository {
	return &TeamRepository{store: store{db: db, breaker: breaker}}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return r.list(ctx, nil, "group_key", "name", "id")
}

func (r *TeamRepository) ListByGroup(ctx context.Context, group string) ([]team.Team, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("group_key", team.NormalizeGroup(group))}, "name", "id")
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	items, err := r.list(ctx, []qb.Condition{qb.Eq("id", strings.TrimSpace(id))}, "id")
	if err != nil {
		return team.Team{}, false, err
	}
	if len(items) == 0 {
		return team.Team{}, false, nil
	}
	return items[0], true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	return r.inTx(ctx, "upsert team", func(tx *sqlx.Tx) error {
		return upsertTeamTx(ctx, tx, item)
	})
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.DeleteFrom("teams").Where(qb.Eq("id", strings.TrimSpace(id))).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}

	return r.guard(func() error {
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "delete team id=%s", id)
		}
		return nil
	})
}

func (r *TeamRepository) list(ctx context.Context, where []qb.Condition, orderBy ...string) ([]team.Team, error) {
	teamCols, err := qb.Columns(teamRow{})
	if err != nil {
		return nil, err
	}
	playerCols, err := qb.Columns(playerRow{})
	if err != nil {
		return nil, err
	}

	query, args, err := qb.Select(teamCols...).From("teams").Where(where...).OrderBy(orderBy...).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var (
		teamRows   []teamRow
		playerRows []playerRow
	)
	err = r.guard(func() error {
		if err := r.db.SelectContext(ctx, &teamRows, query, args...); err != nil {
			return crerr.Wrap(err, "select teams")
		}
		if len(teamRows) == 0 {
			return nil
		}

		ids := make([]string, 0, len(teamRows))
		for _, row := range teamRows {
			ids = append(ids, row.ID)
		}
		playerQuery, playerArgs, err := qb.Select(playerCols...).From("players").
			Where(qb.In("team_id", qb.Strings(ids))).
			OrderBy("team_id", "sort_order", "id").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build select players query: %w", err)
		}
		if err := r.db.SelectContext(ctx, &playerRows, playerQuery, playerArgs...); err != nil {
			return crerr.Wrap(err, "select players")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	byTeam := make(map[string][]team.Player, len(teamRows))
	for _, row := range playerRows {
		byTeam[row.TeamID] = append(byTeam[row.TeamID], row.toDomain())
	}

	out := make([]team.Team, 0, len(teamRows))
	for _, row := range teamRows {
		out = append(out, row.toDomain(byTeam[row.ID]))
	}
	return out, nil
}

// upsertTeamTx writes the team row and replaces its roster.
func upsertTeamTx(ctx context.Context, tx *sqlx.Tx, item team.Team) error {
	insert, err := qb.InsertModels("teams", []teamRow{newTeamRow(item)})
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	query, args, err := insert.OnConflict("id").DoUpdate().ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "upsert team id=%s", item.ID)
	}

	keep := make([]string, 0, len(item.Players))
	rows := make([]playerRow, 0, len(item.Players))
	for i, p := range item.Players {
		keep = append(keep, p.ID)
		rows = append(rows, newPlayerRow(p, i))
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("players").
		Where(qb.Eq("team_id", item.ID), qb.NotIn("id", qb.Strings(keep))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build prune players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return crerr.Wrapf(err, "prune players team_id=%s", item.ID)
	}

	for _, part := range chunk(rows, maxRowsPerInsert) {
		insert, err := qb.InsertModels("players", part)
		if err != nil {
			return fmt.Errorf("build upsert players query: %w", err)
		}
		query, args, err := insert.OnConflict("id").DoUpdate().ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert players query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "upsert players team_id=%s", item.ID)
		}
	}
	return nil
}
