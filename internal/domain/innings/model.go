package innings

import (
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
)

type State string

const (
	StateInProgress State = "IN_PROGRESS"
	StateComplete   State = "COMPLETE"
)

var (
	ErrInningsComplete = crerr.New("innings is complete")
	ErrOutOfSequence   = crerr.New("ball event out of sequence")
	ErrWrongInnings    = crerr.New("ball event belongs to another innings")
)

// Innings is the running state of one side's batting turn. Overs and balls
// are derived from LegalBalls so they can never drift from the event log.
type Innings struct {
	MatchID       string
	Number        int
	BattingTeamID string
	BowlingTeamID string
	State         State
	Runs          int
	Wickets       int
	Extras        int
	LegalBalls    int
	StrikerID     string
	NonStrikerID  string
	BowlerID      string
	LastSequence  int
	UpdatedAt     time.Time
}

// New opens an innings with fixed batting and bowling sides.
func New(matchID string, number int, battingTeamID, bowlingTeamID string) Innings {
	return Innings{
		MatchID:       matchID,
		Number:        number,
		BattingTeamID: battingTeamID,
		BowlingTeamID: bowlingTeamID,
		State:         StateInProgress,
	}
}

func (i Innings) Overs() int {
	return i.LegalBalls / ballevent.BallsPerOver
}

func (i Innings) Balls() int {
	return i.LegalBalls % ballevent.BallsPerOver
}

// OversNotation renders completed overs and balls as "O.B".
func (i Innings) OversNotation() string {
	return fmt.Sprintf("%d.%d", i.Overs(), i.Balls())
}

// NextPosition is the over/ball the next delivery must carry. Illegal
// deliveries do not advance it, so a re-bowled ball keeps its number.
func (i Innings) NextPosition() (over, ball int) {
	return i.Overs() + 1, i.Balls() + 1
}

// OnStrike returns the batsman expected to face next. After a wicket the
// striker slot is vacant and the non-striker is treated as on strike.
func (i Innings) OnStrike() string {
	if i.StrikerID != "" {
		return i.StrikerID
	}
	return i.NonStrikerID
}

func (i Innings) IsComplete() bool {
	return i.State == StateComplete
}

func (i Innings) AllOut() bool {
	return i.Wickets >= ballevent.MaxWickets
}

// Finished reports whether the innings has run its course: all out, overs
// exhausted, or target reached. A zero oversLimit or target disables that rule.
func (i Innings) Finished(oversLimit, target int) bool {
	if i.AllOut() {
		return true
	}
	if oversLimit > 0 && i.LegalBalls >= oversLimit*ballevent.BallsPerOver {
		return true
	}
	return target > 0 && i.Runs >= target
}

// Apply folds one normalized delivery into the innings.
func Apply(in Innings, ev ballevent.Event) (Innings, error) {
	if in.IsComplete() {
		return in, ErrInningsComplete
	}
	if ev.Inning != in.Number || ev.MatchID != in.MatchID {
		return in, crerr.Wrapf(ErrWrongInnings, "event=%s/%d innings=%s/%d", ev.MatchID, ev.Inning, in.MatchID, in.Number)
	}
	over, ball := in.NextPosition()
	if ev.Over != over || ev.Ball != ball {
		return in, crerr.Wrapf(ErrOutOfSequence, "expected %d.%d, got %d.%d", over, ball, ev.Over, ev.Ball)
	}
	if in.Wickets+ev.Wickets > ballevent.MaxWickets {
		return in, crerr.Wrap(ErrInningsComplete, "all out")
	}

	in.StrikerID, in.NonStrikerID = resolveCrease(in, ev)
	in.BowlerID = ev.BowlerID

	in.Runs += ev.CreditedRuns()
	in.Extras += ev.ExtraRuns()
	in.Wickets += ev.Wickets
	if ev.Code.IsLegal() {
		in.LegalBalls++
	}
	if ev.Sequence > in.LastSequence {
		in.LastSequence = ev.Sequence
	}

	switch {
	case ev.IsWicket():
		in.StrikerID = ""
	case ev.RunsRun()%2 == 1:
		in.StrikerID, in.NonStrikerID = in.NonStrikerID, in.StrikerID
	}

	return in, nil
}

// resolveCrease places the event's batsman on strike and works out who is
// at the other end when the scorer did not name the non-striker.
func resolveCrease(in Innings, ev ballevent.Event) (striker, nonStriker string) {
	striker = ev.BatsmanID
	if ev.NonStrikerID != "" {
		return striker, ev.NonStrikerID
	}

	switch striker {
	case in.StrikerID:
		return striker, in.NonStrikerID
	case in.NonStrikerID:
		return striker, in.StrikerID
	}

	// New batsman.
	if in.StrikerID == "" {
		return striker, in.NonStrikerID
	}
	if in.NonStrikerID == "" {
		return striker, in.StrikerID
	}
	return striker, in.NonStrikerID
}

// Replay rebuilds an innings from scratch by folding its events in order.
func Replay(base Innings, events []ballevent.Event) (Innings, error) {
	out := New(base.MatchID, base.Number, base.BattingTeamID, base.BowlingTeamID)
	for _, ev := range events {
		next, err := Apply(out, ev)
		if err != nil {
			return out, fmt.Errorf("replay sequence %d: %w", ev.Sequence, err)
		}
		out = next
	}
	out.State = base.State
	out.UpdatedAt = base.UpdatedAt
	return out, nil
}
