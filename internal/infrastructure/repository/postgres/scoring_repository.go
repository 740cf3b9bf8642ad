package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
	"github.com/riskibarqy/cricket-league/internal/domain/scoring"
	qb "github.com/riskibarqy/cricket-league/internal/platform/querybuilder"
)

// ScoringRepository persists everything one delivery touches inside a
// single transaction.
type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) AppendBall(ctx context.Context, w scoring.BallWrite) error {
	return withTx(ctx, r.db, "append ball", func(tx *sqlx.Tx) error {
		query, args, err := qb.InsertModel("ball_events", newBallEventTableModel(w.Event), "")
		if err != nil {
			return fmt.Errorf("build insert ball event query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("ball event sequence %d already stored for match %s: %w", w.Event.Sequence, w.Event.MatchID, err)
			}
			return fmt.Errorf("insert ball event: %w", err)
		}

		if err := upsertInnings(ctx, tx, []innings.Innings{w.Innings}); err != nil {
			return err
		}
		if err := upsertStats(ctx, tx, w.Stats, w.Appearances); err != nil {
			return err
		}
		return saveMatchResult(ctx, tx, w.Match)
	})
}

func (r *ScoringRepository) SaveRebuild(ctx context.Context, rb scoring.Rebuild) error {
	return withTx(ctx, r.db, "save rebuild", func(tx *sqlx.Tx) error {
		if err := upsertInnings(ctx, tx, rb.Innings); err != nil {
			return err
		}
		return saveMatchResult(ctx, tx, rb.Match)
	})
}

func upsertInnings(ctx context.Context, tx *sqlx.Tx, items []innings.Innings) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]inningsTableModel, 0, len(items))
	for _, in := range items {
		rows = append(rows, newInningsTableModel(in))
	}

	query, args, err := qb.UpsertModels("innings", rows, "match_id", "number")
	if err != nil {
		return fmt.Errorf("build upsert innings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert innings: %w", err)
	}
	return nil
}

func upsertStats(ctx context.Context, tx *sqlx.Tx, stats []playerstat.Stat, apps []playerstat.Appearance) error {
	if len(stats) > 0 {
		rows := make([]playerStatTableModel, 0, len(stats))
		for _, s := range stats {
			rows = append(rows, newPlayerStatTableModel(s))
		}
		query, args, err := qb.UpsertModels("player_stats", rows, "player_id")
		if err != nil {
			return fmt.Errorf("build upsert player stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player stats: %w", err)
		}
	}

	if len(apps) > 0 {
		rows := make([]appearanceTableModel, 0, len(apps))
		for _, a := range apps {
			rows = append(rows, newAppearanceTableModel(a))
		}
		query, args, err := qb.UpsertModels("player_match_appearances", rows, "match_id", "player_id")
		if err != nil {
			return fmt.Errorf("build upsert appearances query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert appearances: %w", err)
		}
	}
	return nil
}
