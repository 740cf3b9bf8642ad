package player

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Role is the player's primary discipline.
type Role string

const (
	RoleBatsman      Role = "BATSMAN"
	RoleBowler       Role = "BOWLER"
	RoleAllRounder   Role = "ALL_ROUNDER"
	RoleWicketKeeper Role = "WICKET_KEEPER"
)

var AllRoles = map[Role]struct{}{
	RoleBatsman:      {},
	RoleBowler:       {},
	RoleAllRounder:   {},
	RoleWicketKeeper: {},
}

// Player belongs to exactly one team roster.
type Player struct {
	ID     string `yaml:"id"`
	TeamID string `yaml:"team_id"`
	Name   string `yaml:"name"`
	Role   Role   `yaml:"role"`
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return crerr.New("player id is required")
	}
	if strings.TrimSpace(p.TeamID) == "" {
		return crerr.New("player team id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return crerr.New("player name is required")
	}
	if _, ok := AllRoles[p.Role]; !ok {
		return crerr.Newf("invalid player role: %s", p.Role)
	}

	return nil
}
