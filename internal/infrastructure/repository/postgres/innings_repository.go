package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
	qb "github.com/riskibarqy/cricket-league/internal/platform/querybuilder"
)

type InningsRepository struct {
	db *sqlx.DB
}

func NewInningsRepository(db *sqlx.DB) *InningsRepository {
	return &InningsRepository{db: db}
}

func (r *InningsRepository) ListByMatch(ctx context.Context, matchID string) ([]innings.Innings, error) {
	query, args, err := qb.Select("*").From("innings").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list innings query: %w", err)
	}

	var rows []inningsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list innings: %w", err)
	}

	out := make([]innings.Innings, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *InningsRepository) Get(ctx context.Context, matchID string, number int) (innings.Innings, bool, error) {
	query, args, err := qb.Select("*").From("innings").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("number", number),
		).
		ToSQL()
	if err != nil {
		return innings.Innings{}, false, fmt.Errorf("build get innings query: %w", err)
	}

	var row inningsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return innings.Innings{}, false, nil
		}
		return innings.Innings{}, false, fmt.Errorf("get innings: %w", err)
	}
	return row.toDomain(), true, nil
}

type BallEventRepository struct {
	db *sqlx.DB
}

func NewBallEventRepository(db *sqlx.DB) *BallEventRepository {
	return &BallEventRepository{db: db}
}

func (r *BallEventRepository) ListByMatch(ctx context.Context, matchID string) ([]ballevent.Event, error) {
	return r.list(ctx, "list ball events", qb.Eq("match_id", matchID))
}

func (r *BallEventRepository) ListByInnings(ctx context.Context, matchID string, inning int) ([]ballevent.Event, error) {
	return r.list(ctx, "list ball events by innings", qb.Eq("match_id", matchID), qb.Eq("inning", inning))
}

func (r *BallEventRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]ballevent.Event, error) {
	query, args, err := qb.Select("*").From("ball_events").
		Where(conds...).
		OrderBy("sequence").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []ballEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]ballevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
