package memory

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/riskibarqy/cricket-league/internal/domain/player"
	"github.com/riskibarqy/cricket-league/internal/domain/team"
	"gopkg.in/yaml.v3"
)

//go:embed roster.yaml
var defaultRosterYAML []byte

// Roster is the reference data the in-memory backend starts with.
type Roster struct {
	Teams   []team.Team     `yaml:"teams"`
	Players []player.Player `yaml:"players"`
}

// DefaultRoster returns the bundled four-team roster.
func DefaultRoster() (Roster, error) {
	return ParseRoster(defaultRosterYAML)
}

// LoadRoster reads a roster file, falling back to the bundled one when path
// is empty.
func LoadRoster(path string) (Roster, error) {
	if path == "" {
		return DefaultRoster()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("read roster %s: %w", path, err)
	}
	return ParseRoster(raw)
}

func ParseRoster(raw []byte) (Roster, error) {
	var roster Roster
	if err := yaml.Unmarshal(raw, &roster); err != nil {
		return Roster{}, fmt.Errorf("decode roster: %w", err)
	}
	if err := roster.Validate(); err != nil {
		return Roster{}, err
	}
	return roster, nil
}

// Validate checks ids are unique and every player points at a known team.
func (r Roster) Validate() error {
	teams := make(map[string]struct{}, len(r.Teams))
	for _, t := range r.Teams {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("roster team %q: %w", t.ID, err)
		}
		if _, dup := teams[t.ID]; dup {
			return fmt.Errorf("roster team %q listed twice", t.ID)
		}
		teams[t.ID] = struct{}{}
	}

	players := make(map[string]struct{}, len(r.Players))
	for _, p := range r.Players {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("roster player %q: %w", p.ID, err)
		}
		if _, ok := teams[p.TeamID]; !ok {
			return fmt.Errorf("roster player %q references unknown team %q", p.ID, p.TeamID)
		}
		if _, dup := players[p.ID]; dup {
			return fmt.Errorf("roster player %q listed twice", p.ID)
		}
		players[p.ID] = struct{}{}
	}
	return nil
}
