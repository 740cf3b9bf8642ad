package scoring

import (
	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
)

// BallWrite is everything one delivery changes. It is persisted as a unit:
// either all of it lands or none of it does.
type BallWrite struct {
	Event       ballevent.Event
	Innings     innings.Innings
	Stats       []playerstat.Stat
	Appearances []playerstat.Appearance
	// Match carries the refreshed scorecard and, when the delivery ended the
	// match, the new status and winner.
	Match match.Match
}

// Rebuild replaces the derived state of a match after a replay. Player
// career stats are left alone.
type Rebuild struct {
	Match   match.Match
	Innings []innings.Innings
}
