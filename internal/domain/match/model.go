package match

import (
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-league/internal/domain/scorecard"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusAccepted  Status = "ACCEPTED"
	StatusLive      Status = "LIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusAbandoned Status = "ABANDONED"
	StatusDisputed  Status = "DISPUTED"
)

var (
	ErrInvalidTransition = crerr.New("invalid match status transition")
	// ErrStaleStatus means the stored status no longer matches the expected one.
	ErrStaleStatus = crerr.New("match status changed concurrently")
)

var transitions = map[Status][]Status{
	StatusScheduled: {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusLive, StatusCancelled},
	StatusLive:      {StatusCompleted, StatusAbandoned},
	StatusCompleted: {StatusDisputed},
	StatusDisputed:  {StatusCompleted},
}

func ParseStatus(raw string) (Status, bool) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case StatusScheduled, StatusAccepted, StatusLive, StatusCompleted,
		StatusCancelled, StatusAbandoned, StatusDisputed:
		return status, true
	default:
		return "", false
	}
}

// CanTransition reports whether a match may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Match is a fixture between two teams, standalone or inside a tournament.
type Match struct {
	ID           string
	TournamentID string
	HomeTeamID   string
	AwayTeamID   string
	Venue        string
	OversLimit   int
	Status       Status
	Round        int
	Sequence     int
	EntryFee     int64
	WinnerTeamID string
	Scorecard    *scorecard.Scorecard
	ScheduledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return crerr.New("match id is required")
	}
	if strings.TrimSpace(m.HomeTeamID) == "" || strings.TrimSpace(m.AwayTeamID) == "" {
		return crerr.New("match requires two teams")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return crerr.New("a team cannot play itself")
	}
	if m.OversLimit < 0 {
		return crerr.Newf("overs limit must not be negative, got %d", m.OversLimit)
	}
	if m.EntryFee < 0 {
		return crerr.Newf("entry fee must not be negative, got %d", m.EntryFee)
	}
	if _, ok := ParseStatus(string(m.Status)); !ok {
		return crerr.Newf("unknown match status %q", m.Status)
	}
	return nil
}

// Sides returns the batting and bowling teams for an innings. The home side
// bats first.
func (m Match) Sides(inning int) (batting, bowling string) {
	if inning == 1 {
		return m.HomeTeamID, m.AwayTeamID
	}
	return m.AwayTeamID, m.HomeTeamID
}

func (m Match) HasTeam(teamID string) bool {
	return teamID == m.HomeTeamID || teamID == m.AwayTeamID
}

func (m Match) IsLive() bool {
	return m.Status == StatusLive
}

func (m Match) IsCompleted() bool {
	return m.Status == StatusCompleted
}
