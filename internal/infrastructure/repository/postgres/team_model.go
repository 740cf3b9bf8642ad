package postgres

import (
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/player"
	"github.com/riskibarqy/cricket-league/internal/domain/team"
)

type teamTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Short     string    `db:"short"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Short string `db:"short"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{ID: m.ID, Name: m.Name, Short: m.Short}
}

type playerTableModel struct {
	ID        string    `db:"id"`
	TeamID    string    `db:"team_id"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type playerInsertModel struct {
	ID     string `db:"id"`
	TeamID string `db:"team_id"`
	Name   string `db:"name"`
	Role   string `db:"role"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{ID: m.ID, TeamID: m.TeamID, Name: m.Name, Role: player.Role(m.Role)}
}
