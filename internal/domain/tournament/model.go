package tournament

import (
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

type Format string

const (
	FormatKnockout     Format = "KNOCKOUT"
	FormatLeague       Format = "LEAGUE"
	FormatDoubleLeague Format = "DOUBLE_LEAGUE"
)

type Status string

const (
	StatusRegistrationOpen Status = "REGISTRATION_OPEN"
	StatusOngoing          Status = "ONGOING"
	StatusCompleted        Status = "COMPLETED"
	StatusCancelled        Status = "CANCELLED"
)

// MinimumTeams is the smallest field any format can be drawn with.
const MinimumTeams = 2

var (
	ErrUnsupportedFormat = crerr.New("unsupported tournament format")
	ErrNotOpen           = crerr.New("tournament registration is closed")
	ErrFull              = crerr.New("tournament is full")
	ErrNotEnoughTeams    = crerr.New("not enough teams registered")
)

func ParseFormat(raw string) (Format, error) {
	format := Format(strings.ToUpper(strings.TrimSpace(raw)))
	switch format {
	case FormatKnockout, FormatLeague, FormatDoubleLeague:
		return format, nil
	default:
		return "", crerr.Wrapf(ErrUnsupportedFormat, "format %q", raw)
	}
}

// HasStandings reports whether the format produces a points table.
func (f Format) HasStandings() bool {
	return f == FormatLeague || f == FormatDoubleLeague
}

// Tournament groups teams into a generated fixture list.
type Tournament struct {
	ID         string
	Name       string
	Format     Format
	OversLimit int
	MinTeams   int
	MaxTeams   int
	Status     Status
	StartedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t Tournament) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return crerr.New("tournament id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return crerr.New("tournament name is required")
	}
	if _, err := ParseFormat(string(t.Format)); err != nil {
		return err
	}
	if t.OversLimit <= 0 {
		return crerr.Newf("overs limit must be positive, got %d", t.OversLimit)
	}
	if t.MinTeams < MinimumTeams {
		return crerr.Newf("min teams must be at least %d, got %d", MinimumTeams, t.MinTeams)
	}
	if t.MaxTeams < t.MinTeams {
		return crerr.Newf("max teams %d is below min teams %d", t.MaxTeams, t.MinTeams)
	}
	return nil
}

func (t Tournament) IsOpen() bool {
	return t.Status == StatusRegistrationOpen
}

// CanRegister checks whether one more team may join.
func (t Tournament) CanRegister(registered int) error {
	if !t.IsOpen() {
		return crerr.Wrapf(ErrNotOpen, "status=%s", t.Status)
	}
	if registered >= t.MaxTeams {
		return crerr.Wrapf(ErrFull, "max=%d", t.MaxTeams)
	}
	return nil
}

// CanStart checks whether the tournament may be drawn with this many teams.
func (t Tournament) CanStart(registered int) error {
	if !t.IsOpen() {
		return crerr.Wrapf(ErrNotOpen, "status=%s", t.Status)
	}
	if registered < t.MinTeams {
		return crerr.Wrapf(ErrNotEnoughTeams, "registered=%d min=%d", registered, t.MinTeams)
	}
	return nil
}

// Registration records a team entering a tournament. Seed is the 1-based
// registration order and decides fixture draws and standing ties.
type Registration struct {
	TournamentID string
	TeamID       string
	Seed         int
	RegisteredAt time.Time
}

// SeededTeamIDs returns the team ids ordered by seed. Rows without a seed
// fall back to registration time, then team id.
func SeededTeamIDs(regs []Registration) []string {
	ordered := append([]Registration(nil), regs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Seed != b.Seed {
			return a.Seed < b.Seed
		}
		if !a.RegisteredAt.Equal(b.RegisteredAt) {
			return a.RegisteredAt.Before(b.RegisteredAt)
		}
		return a.TeamID < b.TeamID
	})

	out := make([]string, 0, len(ordered))
	for _, reg := range ordered {
		out = append(out, reg.TeamID)
	}
	return out
}
