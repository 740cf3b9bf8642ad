package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
	qb "github.com/riskibarqy/cricket-league/internal/platform/querybuilder"
)

type PlayerStatRepository struct {
	db *sqlx.DB
}

func NewPlayerStatRepository(db *sqlx.DB) *PlayerStatRepository {
	return &PlayerStatRepository{db: db}
}

func (r *PlayerStatRepository) GetByPlayerID(ctx context.Context, playerID string) (playerstat.Stat, bool, error) {
	query, args, err := qb.Select("*").From("player_stats").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return playerstat.Stat{}, false, fmt.Errorf("build get player stat query: %w", err)
	}

	var row playerStatTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerstat.Stat{}, false, nil
		}
		return playerstat.Stat{}, false, fmt.Errorf("get player stat: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerStatRepository) ListByPlayerIDs(ctx context.Context, playerIDs []string) ([]playerstat.Stat, error) {
	query, args, err := qb.Select("*").From("player_stats").
		Where(qb.In("player_id", playerIDs)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats query: %w", err)
	}

	var rows []playerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	out := make([]playerstat.Stat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerStatRepository) ListAppearances(ctx context.Context, matchID string, playerIDs []string) ([]playerstat.Appearance, error) {
	query, args, err := qb.Select("*").From("player_match_appearances").
		Where(
			qb.Eq("match_id", matchID),
			qb.In("player_id", playerIDs),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list appearances query: %w", err)
	}

	var rows []appearanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list appearances: %w", err)
	}

	out := make([]playerstat.Appearance, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
