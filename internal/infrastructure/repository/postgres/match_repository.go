package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	qb "github.com/riskibarqy/cricket-league/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	m, err := row.toDomain()
	if err != nil {
		return match.Match{}, false, err
	}
	return m, true, nil
}

func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("sequence", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by tournament query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by tournament: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	return insertMatches(ctx, r.db, []match.Match{m})
}

// UpdateStatus is a compare-and-set on the current status.
func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID string, from, to match.Status) error {
	query, args, err := qb.Update("matches").
		Set("status", string(to)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", matchID),
			qb.Eq("status", string(from)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update match status rows affected: %w", err)
	}
	if affected == 0 {
		return match.ErrStaleStatus
	}
	return nil
}

func insertMatches(ctx context.Context, exec sqlx.ExecerContext, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]matchTableModel, 0, len(items))
	for _, m := range items {
		row, err := newMatchTableModel(m)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	query, args, err := qb.InsertModels("matches", rows, "")
	if err != nil {
		return fmt.Errorf("build insert matches query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}
	return nil
}

// saveMatchResult writes the compiled scorecard and the status it implies.
func saveMatchResult(ctx context.Context, tx *sqlx.Tx, m match.Match) error {
	card, err := encodeScorecard(m.Scorecard)
	if err != nil {
		return err
	}
	query, args, err := qb.Update("matches").
		Set("status", string(m.Status)).
		Set("winner_team_id", nullString(m.WinnerTeamID)).
		Set("scorecard", card).
		Set("updated_at", m.UpdatedAt.UTC()).
		Where(qb.Eq("id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build save match result query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save match result: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("save match result: match %s not found", m.ID)
	}
	return nil
}
