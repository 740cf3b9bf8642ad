package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-league/internal/domain/player"
	"github.com/riskibarqy/cricket-league/internal/domain/team"
	qb "github.com/riskibarqy/cricket-league/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) ListByIDs(ctx context.Context, teamIDs []string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.In("id", teamIDs)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.In("id", playerIDs)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// SeedRoster upserts the reference teams and players. Running it twice is a
// no-op apart from refreshed names and roles.
func SeedRoster(ctx context.Context, db *sqlx.DB, teams []team.Team, players []player.Player) error {
	if len(teams) == 0 {
		return nil
	}
	return withTx(ctx, db, "seed roster", func(tx *sqlx.Tx) error {
		teamRows := make([]teamInsertModel, 0, len(teams))
		for _, t := range teams {
			teamRows = append(teamRows, teamInsertModel{ID: t.ID, Name: t.Name, Short: t.Short})
		}
		query, args, err := qb.UpsertModels("teams", teamRows, "id")
		if err != nil {
			return fmt.Errorf("build seed teams query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed teams: %w", err)
		}

		if len(players) == 0 {
			return nil
		}
		playerRows := make([]playerInsertModel, 0, len(players))
		for _, p := range players {
			playerRows = append(playerRows, playerInsertModel{ID: p.ID, TeamID: p.TeamID, Name: p.Name, Role: string(p.Role)})
		}
		query, args, err = qb.UpsertModels("players", playerRows, "id")
		if err != nil {
			return fmt.Errorf("build seed players query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed players: %w", err)
		}
		return nil
	})
}
