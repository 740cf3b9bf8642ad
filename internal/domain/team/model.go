package team

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Team is a cricket side that can enter matches and tournaments.
type Team struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Short string `yaml:"short"`
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return crerr.New("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return crerr.New("team name is required")
	}

	return nil
}
