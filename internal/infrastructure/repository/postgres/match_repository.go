package postgres

import (
	"context"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/platform/resilience"
	qb "github.com/riskibarqy/football-tournament/internal/platform/querybuilder"
)

type MatchRepository struct {
	store
}

func NewMatchRepository(db *sqlx.DB, breaker *resilience.CircuitBreaker) *MatchRepository {
	return &MatchRepository{store: store{db: db, breaker: breaker}}
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	var where []qb.Condition
	if group := strings.TrimSpace(filter.Group); group != "" {
		where = append(where, qb.Eq("group_key", strings.ToUpper(group)))
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		where = append(where, qb.Eq("status", strings.ToLower(status)))
	}
	if teamID := strings.TrimSpace(filter.TeamID); teamID != "" {
		where = append(where, qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID))
	}
	return r.list(ctx, where)
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	items, err := r.list(ctx, []qb.Condition{qb.Eq("id", strings.TrimSpace(id))})
	if err != nil {
		return match.Match{}, false, err
	}
	if len(items) == 0 {
		return match.Match{}, false, nil
	}
	return items[0], true, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	return r.inTx(ctx, "upsert match", func(tx *sqlx.Tx) error {
		if err := upsertMatchRowsTx(ctx, tx, []match.Match{item}); err != nil {
			return err
		}
		for _, table := range []string{"match_goals", "match_cards"} {
			query, args, err := qb.DeleteFrom(table).Where(qb.Eq("match_id", item.ID)).ToSQL()
			if err != nil {
				return fmt.Errorf("build clear %s query: %w", table, err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return crerr.Wrapf(err, "clear %s match_id=%s", table, item.ID)
			}
		}
		return insertEventsTx(ctx, tx, []match.Match{item})
	})
}

// ReplaceAll drops every stored match and writes items in its place.
func (r *MatchRepository) ReplaceAll(ctx context.Context, items []match.Match) error {
	return r.inTx(ctx, "replace matches", func(tx *sqlx.Tx) error {
		query, args, err := qb.DeleteFrom("matches").All().ToSQL()
		if err != nil {
			return fmt.Errorf("build clear matches query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrap(err, "clear matches")
		}
		if len(items) == 0 {
			return nil
		}
		if err := upsertMatchRowsTx(ctx, tx, items); err != nil {
			return err
		}
		return insertEventsTx(ctx, tx, items)
	})
}

func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("id", strings.TrimSpace(id))).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}

	return r.guard(func() error {
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "delete match id=%s", id)
		}
		return nil
	})
}

func (r *MatchRepository) list(ctx context.Context, where []qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(where...).
		OrderBy("match_date NULLS FIRST", "kickoff_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}
	goalCols, err := qb.Columns(goalRow{})
	if err != nil {
		return nil, err
	}
	cardCols, err := qb.Columns(cardRow{})
	if err != nil {
		return nil, err
	}

	var (
		rows  []matchRow
		goals []goalRow
		cards []cardRow
	)
	err = r.guard(func() error {
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return crerr.Wrap(err, "select matches")
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		goalQuery, goalArgs, err := qb.Select(goalCols...).From("match_goals").
			Where(qb.In("match_id", qb.Strings(ids))).
			OrderBy("match_id", "sort_order").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build select goals query: %w", err)
		}
		if err := r.db.SelectContext(ctx, &goals, goalQuery, goalArgs...); err != nil {
			return crerr.Wrap(err, "select match goals")
		}

		cardQuery, cardArgs, err := qb.Select(cardCols...).From("match_cards").
			Where(qb.In("match_id", qb.Strings(ids))).
			OrderBy("match_id", "sort_order").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build select cards query: %w", err)
		}
		if err := r.db.SelectContext(ctx, &cards, cardQuery, cardArgs...); err != nil {
			return crerr.Wrap(err, "select match cards")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(rows))
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		index[row.ID] = i
		out = append(out, row.toDomain())
	}
	for _, g := range goals {
		if i, ok := index[g.MatchID]; ok {
			out[i].Goals = append(out[i].Goals, g.toDomain())
		}
	}
	for _, c := range cards {
		if i, ok := index[c.MatchID]; ok {
			out[i].Cards = append(out[i].Cards, c.toDomain())
		}
	}
	return out, nil
}

func upsertMatchRowsTx(ctx context.Context, tx *sqlx.Tx, items []match.Match) error {
	for _, part := range chunk(items, maxRowsPerInsert) {
		insert := qb.InsertInto("matches").Columns(matchInsertColumns...)
		for _, item := range part {
			insert.Values(newMatchRow(item).insertValues()...)
		}
		query, args, err := insert.OnConflict("id").DoUpdate().ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert matches query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "upsert %d matches", len(part))
		}
	}
	return nil
}

func insertEventsTx(ctx context.Context, tx *sqlx.Tx, items []match.Match) error {
	var (
		goals []goalRow
		cards []cardRow
	)
	for _, item := range items {
		goals = append(goals, goalRows(item)...)
		cards = append(cards, cardRows(item)...)
	}

	for _, part := range chunk(goals, maxRowsPerInsert) {
		if err := insertModelsTx(ctx, tx, "match_goals", part); err != nil {
			return err
		}
	}
	for _, part := range chunk(cards, maxRowsPerInsert) {
		if err := insertModelsTx(ctx, tx, "match_cards", part); err != nil {
			return err
		}
	}
	return nil
}

func insertModelsTx[T any](ctx context.Context, tx *sqlx.Tx, table string, rows []T) error {
	insert, err := qb.InsertModels(table, rows)
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", table, err)
	}
	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert %d rows into %s", len(rows), table)
	}
	return nil
}
