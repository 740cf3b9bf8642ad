package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
)

type tournamentTableModel struct {
	ID         string       `db:"id"`
	Name       string       `db:"name"`
	Format     string       `db:"format"`
	OversLimit int          `db:"overs_limit"`
	MinTeams   int          `db:"min_teams"`
	MaxTeams   int          `db:"max_teams"`
	Status     string       `db:"status"`
	StartedAt  sql.NullTime `db:"started_at"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

func newTournamentTableModel(t tournament.Tournament) tournamentTableModel {
	return tournamentTableModel{
		ID:         t.ID,
		Name:       t.Name,
		Format:     string(t.Format),
		OversLimit: t.OversLimit,
		MinTeams:   t.MinTeams,
		MaxTeams:   t.MaxTeams,
		Status:     string(t.Status),
		StartedAt:  nullTime(t.StartedAt),
		CreatedAt:  t.CreatedAt.UTC(),
		UpdatedAt:  t.UpdatedAt.UTC(),
	}
}

func (m tournamentTableModel) toDomain() tournament.Tournament {
	return tournament.Tournament{
		ID:         m.ID,
		Name:       m.Name,
		Format:     tournament.Format(m.Format),
		OversLimit: m.OversLimit,
		MinTeams:   m.MinTeams,
		MaxTeams:   m.MaxTeams,
		Status:     tournament.Status(m.Status),
		StartedAt:  nullTimeToPtr(m.StartedAt),
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type registrationTableModel struct {
	TournamentID string    `db:"tournament_id"`
	TeamID       string    `db:"team_id"`
	Seed         int       `db:"seed"`
	RegisteredAt time.Time `db:"registered_at"`
}
