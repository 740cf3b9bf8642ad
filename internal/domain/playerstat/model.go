package playerstat

import (
	"sort"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
)

const centuryRuns = 100

// Stat is a player's career totals. Counters only ever grow.
type Stat struct {
	PlayerID           string
	Matches            int
	Innings            int
	RunsScored         int
	BallsFaced         int
	BallsBowled        int
	RunsConceded       int
	WicketsTaken       int
	HighestScore       int
	Centuries          int
	BestBowlingWickets int
	BestBowlingRuns    int
	BestBowlingMatchID string
	// NextBestBowling* hold the best figures from any match other than
	// BestBowlingMatchID, so the live match can fall back below them.
	NextBestBowlingWickets int
	NextBestBowlingRuns    int
	NextBestBowlingMatchID string
	UpdatedAt              time.Time
}

// StrikeRate is runs per hundred balls faced.
func (s Stat) StrikeRate() float64 {
	if s.BallsFaced == 0 {
		return 0
	}
	return float64(s.RunsScored) * 100 / float64(s.BallsFaced)
}

func (s Stat) Economy() float64 {
	if s.BallsBowled == 0 {
		return 0
	}
	return float64(s.RunsConceded) * float64(ballevent.BallsPerOver) / float64(s.BallsBowled)
}

// Appearance is a player's figures within a single match. Its existence is
// what makes the match count idempotent.
type Appearance struct {
	MatchID      string
	PlayerID     string
	Batted       bool
	Runs         int
	BallsFaced   int
	BallsBowled  int
	RunsConceded int
	Wickets      int
}

// Ledger accumulates the effect of deliveries in one match on the players
// involved. Seed it with the current rows for those players.
type Ledger struct {
	matchID     string
	now         time.Time
	stats       map[string]Stat
	appearances map[string]Appearance
	dirty       map[string]struct{}
}

func NewLedger(matchID string, now time.Time, stats []Stat, appearances []Appearance) *Ledger {
	l := &Ledger{
		matchID:     matchID,
		now:         now,
		stats:       make(map[string]Stat, len(stats)),
		appearances: make(map[string]Appearance, len(appearances)),
		dirty:       make(map[string]struct{}),
	}
	for _, s := range stats {
		l.stats[s.PlayerID] = s
	}
	for _, a := range appearances {
		if a.MatchID == matchID {
			l.appearances[a.PlayerID] = a
		}
	}
	return l
}

// Apply credits one delivery to striker, non-striker and bowler.
func (l *Ledger) Apply(ev ballevent.Event) {
	if ev.BatsmanID != "" {
		stat, app := l.appear(ev.BatsmanID)
		markBatted(&stat, &app)

		if ev.Code.IsLegal() && !ev.IsWicket() {
			stat.BallsFaced++
			app.BallsFaced++
		}
		before := app.Runs
		stat.RunsScored += ev.BatRuns()
		app.Runs += ev.BatRuns()
		if app.Runs > stat.HighestScore {
			stat.HighestScore = app.Runs
		}
		if before < centuryRuns && app.Runs >= centuryRuns {
			stat.Centuries++
		}
		l.store(stat, app)
	}

	if ev.NonStrikerID != "" {
		stat, app := l.appear(ev.NonStrikerID)
		markBatted(&stat, &app)
		l.store(stat, app)
	}

	if ev.BowlerID != "" {
		stat, app := l.appear(ev.BowlerID)
		if ev.Code.IsLegal() {
			stat.BallsBowled++
			app.BallsBowled++
		}
		stat.RunsConceded += ev.RunsConceded()
		app.RunsConceded += ev.RunsConceded()
		if ev.IsWicket() {
			stat.WicketsTaken++
			app.Wickets++
		}
		updateBestBowling(&stat, app)
		l.store(stat, app)
	}
}

func (l *Ledger) appear(playerID string) (Stat, Appearance) {
	stat, ok := l.stats[playerID]
	if !ok {
		stat = Stat{PlayerID: playerID}
	}
	app, ok := l.appearances[playerID]
	if !ok {
		app = Appearance{MatchID: l.matchID, PlayerID: playerID}
		stat.Matches++
	}
	return stat, app
}

func (l *Ledger) store(stat Stat, app Appearance) {
	stat.UpdatedAt = l.now
	l.stats[stat.PlayerID] = stat
	l.appearances[app.PlayerID] = app
	l.dirty[stat.PlayerID] = struct{}{}
}

func markBatted(stat *Stat, app *Appearance) {
	if app.Batted {
		return
	}
	app.Batted = true
	stat.Innings++
}

// figures are a bowler's wickets and runs conceded in one match.
type figures struct {
	wickets int
	runs    int
	matchID string
}

// beats ranks most wickets first, then fewest runs. Wicketless figures
// never count and anything beats an empty slot.
func (f figures) beats(o figures) bool {
	if f.wickets == 0 {
		return false
	}
	if o.matchID == "" {
		return true
	}
	return f.wickets > o.wickets || (f.wickets == o.wickets && f.runs < o.runs)
}

func (s *Stat) bestBowling() figures {
	return figures{s.BestBowlingWickets, s.BestBowlingRuns, s.BestBowlingMatchID}
}

func (s *Stat) nextBestBowling() figures {
	return figures{s.NextBestBowlingWickets, s.NextBestBowlingRuns, s.NextBestBowlingMatchID}
}

func (s *Stat) setBowling(best, next figures) {
	s.BestBowlingWickets, s.BestBowlingRuns, s.BestBowlingMatchID = best.wickets, best.runs, best.matchID
	s.NextBestBowlingWickets, s.NextBestBowlingRuns, s.NextBestBowlingMatchID = next.wickets, next.runs, next.matchID
}

// updateBestBowling refreshes the best figures with the current match's
// spell. Only the current match's figures move, so when it holds the best
// slot the runner-up slot is the best of every other match.
func updateBestBowling(stat *Stat, app Appearance) {
	cur := figures{app.Wickets, app.RunsConceded, app.MatchID}
	best, next := stat.bestBowling(), stat.nextBestBowling()

	switch {
	case best.matchID == cur.matchID:
		if next.beats(cur) {
			stat.setBowling(next, cur)
		} else {
			stat.setBowling(cur, next)
		}
	case cur.beats(best):
		stat.setBowling(cur, best)
	case next.matchID == cur.matchID || cur.beats(next):
		stat.setBowling(best, cur)
	}
}

// Changes returns the touched rows ordered by player id.
func (l *Ledger) Changes() ([]Stat, []Appearance) {
	ids := make([]string, 0, len(l.dirty))
	for id := range l.dirty {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stats := make([]Stat, 0, len(ids))
	apps := make([]Appearance, 0, len(ids))
	for _, id := range ids {
		stats = append(stats, l.stats[id])
		apps = append(apps, l.appearances[id])
	}
	return stats, apps
}

// Participants lists the players a delivery touches.
func Participants(ev ballevent.Event) []string {
	out := make([]string, 0, 3)
	for _, id := range []string{ev.BatsmanID, ev.NonStrikerID, ev.BowlerID} {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
