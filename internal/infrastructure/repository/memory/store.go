package memory

import (
	"sync"

	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/player"
	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
	"github.com/riskibarqy/cricket-league/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-league/internal/domain/team"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
)

type inningsKey struct {
	matchID string
	number  int
}

type appearanceKey struct {
	matchID  string
	playerID string
}

// Store holds every table behind one lock so multi-table writes such as a
// ball delivery are atomic. Repositories are thin views over it.
type Store struct {
	mu sync.RWMutex

	teams         map[string]team.Team
	players       map[string]player.Player
	matches       map[string]match.Match
	innings       map[inningsKey]innings.Innings
	events        map[string][]ballevent.Event
	stats         map[string]playerstat.Stat
	appearances   map[appearanceKey]playerstat.Appearance
	tournaments   map[string]tournament.Tournament
	registrations map[string][]tournament.Registration
}

func NewStore(roster Roster) *Store {
	s := &Store{
		teams:         make(map[string]team.Team, len(roster.Teams)),
		players:       make(map[string]player.Player, len(roster.Players)),
		matches:       make(map[string]match.Match),
		innings:       make(map[inningsKey]innings.Innings),
		events:        make(map[string][]ballevent.Event),
		stats:         make(map[string]playerstat.Stat),
		appearances:   make(map[appearanceKey]playerstat.Appearance),
		tournaments:   make(map[string]tournament.Tournament),
		registrations: make(map[string][]tournament.Registration),
	}
	for _, t := range roster.Teams {
		s.teams[t.ID] = t
	}
	for _, p := range roster.Players {
		s.players[p.ID] = p
	}
	return s
}

// cloneMatch detaches the cached scorecard so callers cannot mutate stored state.
func cloneMatch(m match.Match) match.Match {
	if m.Scorecard != nil {
		card := *m.Scorecard
		card.Innings = append([]scorecard.InningsSummary(nil), card.Innings...)
		m.Scorecard = &card
	}
	return m
}
