package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
	qb "github.com/riskibarqy/cricket-league/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(qb.Eq("id", tournamentID)).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TournamentRepository) Create(ctx context.Context, t tournament.Tournament) error {
	query, args, err := qb.InsertModel("tournaments", newTournamentTableModel(t), "")
	if err != nil {
		return fmt.Errorf("build insert tournament query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tournament: %w", err)
	}
	return nil
}

func (r *TournamentRepository) ListRegistrations(ctx context.Context, tournamentID string) ([]tournament.Registration, error) {
	query, args, err := qb.Select("*").From("tournament_registrations").
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("seed", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list registrations query: %w", err)
	}

	var rows []registrationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	out := make([]tournament.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournament.Registration{
			TournamentID: row.TournamentID,
			TeamID:       row.TeamID,
			Seed:         row.Seed,
			RegisteredAt: row.RegisteredAt.UTC(),
		})
	}
	return out, nil
}

func (r *TournamentRepository) Register(ctx context.Context, reg tournament.Registration) error {
	query, args, err := qb.InsertModel("tournament_registrations", registrationTableModel{
		TournamentID: reg.TournamentID,
		TeamID:       reg.TeamID,
		Seed:         reg.Seed,
		RegisteredAt: reg.RegisteredAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert registration query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("team %s already registered for %s: %w", reg.TeamID, reg.TournamentID, err)
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// Start flips the tournament to ONGOING and inserts every fixture in one
// transaction. A tournament that already left registration is not touched.
func (r *TournamentRepository) Start(ctx context.Context, tournamentID string, fixtures []match.Match, startedAt time.Time) error {
	return withTx(ctx, r.db, "start tournament", func(tx *sqlx.Tx) error {
		query, args, err := qb.Update("tournaments").
			Set("status", string(tournament.StatusOngoing)).
			Set("started_at", startedAt.UTC()).
			Set("updated_at", startedAt.UTC()).
			Where(
				qb.Eq("id", tournamentID),
				qb.Eq("status", string(tournament.StatusRegistrationOpen)),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build start tournament query: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("start tournament: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("start tournament rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("start tournament %s: %w", tournamentID, tournament.ErrNotOpen)
		}

		return insertMatches(ctx, tx, fixtures)
	})
}
