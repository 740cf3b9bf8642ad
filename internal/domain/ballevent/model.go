package ballevent

import (
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// Code is the outcome of one delivery as reported by the scorer.
type Code string

const (
	CodeDot    Code = "0"
	CodeOne    Code = "1"
	CodeTwo    Code = "2"
	CodeThree  Code = "3"
	CodeFour   Code = "4"
	CodeFive   Code = "5"
	CodeSix    Code = "6"
	CodeWicket Code = "W"
	CodeWide   Code = "WD"
	CodeNoBall Code = "NB"
	CodeLegBye Code = "LB"
	CodeBye    Code = "BY"
	// CodeCarry is a run scored off an overthrow or other carried ball.
	CodeCarry Code = "CB"
)

const (
	BallsPerOver = 6
	MaxWickets   = 10
)

var (
	ErrUnknownCode  = crerr.New("unknown ball outcome code")
	ErrInvalidEvent = crerr.New("invalid ball event")
)

var batRuns = map[Code]int{
	CodeDot:   0,
	CodeOne:   1,
	CodeTwo:   2,
	CodeThree: 3,
	CodeFour:  4,
	CodeFive:  5,
	CodeSix:   6,
}

// ParseCode accepts the scorer's shorthand in any case.
func ParseCode(raw string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := batRuns[code]; ok {
		return code, nil
	}
	switch code {
	case CodeWicket, CodeWide, CodeNoBall, CodeLegBye, CodeBye, CodeCarry:
		return code, nil
	}
	return "", crerr.Wrapf(ErrUnknownCode, "code %q", raw)
}

// IsLegal reports whether the delivery counts toward the over.
func (c Code) IsLegal() bool {
	return c != CodeWide && c != CodeNoBall
}

func (c Code) IsBatRuns() bool {
	_, ok := batRuns[c]
	return ok
}

func (c Code) IsExtra() bool {
	switch c {
	case CodeWide, CodeNoBall, CodeLegBye, CodeBye, CodeCarry:
		return true
	default:
		return false
	}
}

// Penalty is the run awarded for the illegal delivery itself.
func (c Code) Penalty() int {
	if c.IsLegal() {
		return 0
	}
	return 1
}

// Event is one recorded delivery. Events are append-only.
type Event struct {
	ID           string
	MatchID      string
	Inning       int
	Sequence     int
	Over         int
	Ball         int
	BatsmanID    string
	NonStrikerID string
	BowlerID     string
	Code         Code
	Runs         int
	Wickets      int
	Commentary   string
	CreatedAt    time.Time
}

// Normalize fills derived fields from the code and rejects contradictory input.
func (e Event) Normalize() (Event, error) {
	e.MatchID = strings.TrimSpace(e.MatchID)
	e.BatsmanID = strings.TrimSpace(e.BatsmanID)
	e.NonStrikerID = strings.TrimSpace(e.NonStrikerID)
	e.BowlerID = strings.TrimSpace(e.BowlerID)
	e.Commentary = strings.TrimSpace(e.Commentary)

	code, err := ParseCode(string(e.Code))
	if err != nil {
		return Event{}, err
	}
	e.Code = code

	if e.Runs < 0 {
		return Event{}, crerr.Wrap(ErrInvalidEvent, "runs must not be negative")
	}

	switch {
	case code.IsBatRuns():
		value := batRuns[code]
		if e.Runs != 0 && e.Runs != value {
			return Event{}, crerr.Wrapf(ErrInvalidEvent, "runs %d do not match code %s", e.Runs, code)
		}
		e.Runs = value
	case code == CodeWicket:
		if e.Runs != 0 {
			return Event{}, crerr.Wrap(ErrInvalidEvent, "wicket delivery cannot carry runs")
		}
	case code == CodeWide || code == CodeNoBall:
		if e.Runs < code.Penalty() {
			e.Runs = code.Penalty()
		}
	default:
		if e.Runs == 0 {
			return Event{}, crerr.Wrapf(ErrInvalidEvent, "%s requires at least one run", code)
		}
	}

	if code == CodeWicket {
		e.Wickets = 1
	} else if e.Wickets != 0 {
		return Event{}, crerr.Wrapf(ErrInvalidEvent, "%s cannot take a wicket", code)
	}

	return e, e.Validate()
}

func (e Event) Validate() error {
	if e.MatchID == "" {
		return crerr.Wrap(ErrInvalidEvent, "match id is required")
	}
	if e.Inning != 1 && e.Inning != 2 {
		return crerr.Wrapf(ErrInvalidEvent, "inning must be 1 or 2, got %d", e.Inning)
	}
	if e.Over < 1 {
		return crerr.Wrapf(ErrInvalidEvent, "over must be >= 1, got %d", e.Over)
	}
	if e.Ball < 1 || e.Ball > BallsPerOver {
		return crerr.Wrapf(ErrInvalidEvent, "ball must be between 1 and %d, got %d", BallsPerOver, e.Ball)
	}
	if e.BatsmanID == "" {
		return crerr.Wrap(ErrInvalidEvent, "batsman id is required")
	}
	if e.BowlerID == "" {
		return crerr.Wrap(ErrInvalidEvent, "bowler id is required")
	}
	if e.NonStrikerID != "" && e.NonStrikerID == e.BatsmanID {
		return crerr.Wrap(ErrInvalidEvent, "batsman and non-striker must differ")
	}
	if e.BowlerID == e.BatsmanID || e.BowlerID == e.NonStrikerID {
		return crerr.Wrap(ErrInvalidEvent, "bowler cannot be batting")
	}
	if e.Wickets < 0 || e.Wickets > 1 {
		return crerr.Wrapf(ErrInvalidEvent, "wickets must be 0 or 1, got %d", e.Wickets)
	}

	return nil
}

// CreditedRuns is what the delivery adds to the innings total.
func (e Event) CreditedRuns() int {
	return e.Runs
}

// BatRuns is what the delivery adds to the striker's personal score.
func (e Event) BatRuns() int {
	if e.Code.IsBatRuns() {
		return e.Runs
	}
	return 0
}

func (e Event) ExtraRuns() int {
	if e.Code.IsExtra() {
		return e.Runs
	}
	return 0
}

// RunsConceded is what the delivery charges to the bowler. Byes, leg byes
// and carried runs are not the bowler's fault.
func (e Event) RunsConceded() int {
	switch e.Code {
	case CodeWide, CodeNoBall:
		return e.Runs
	case CodeLegBye, CodeBye, CodeCarry:
		return 0
	default:
		return e.BatRuns()
	}
}

// RunsRun excludes the penalty run so only runs physically completed
// between the wickets decide strike rotation.
func (e Event) RunsRun() int {
	return e.Runs - e.Code.Penalty()
}

func (e Event) IsWicket() bool {
	return e.Wickets > 0
}

func (e Event) String() string {
	return fmt.Sprintf("%d.%d %s", e.Over-1, e.Ball, e.Code)
}
