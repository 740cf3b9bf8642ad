package fixture

import (
	"math/rand/v2"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
)

var ErrDuplicateTeam = crerr.New("team listed twice")

// Shuffler reorders a slice in place through the swap callback.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// RandShuffler draws from math/rand/v2. Use a fixed seed for reproducible draws.
// It is safe for concurrent use.
type RandShuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandShuffler(seed uint64) *RandShuffler {
	return &RandShuffler{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandShuffler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(n, swap)
}

// Request describes the field to draw.
type Request struct {
	TournamentID string
	Format       tournament.Format
	OversLimit   int
	TeamIDs      []string
}

// Generate builds the fixture stubs for a tournament. Stubs have no ID; the
// caller assigns one before persisting.
func Generate(req Request, shuffler Shuffler) ([]match.Match, error) {
	teams := make([]string, 0, len(req.TeamIDs))
	seen := make(map[string]struct{}, len(req.TeamIDs))
	for _, id := range req.TeamIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			return nil, crerr.Wrapf(ErrDuplicateTeam, "team=%s", id)
		}
		seen[id] = struct{}{}
		teams = append(teams, id)
	}
	if len(teams) < tournament.MinimumTeams {
		return nil, crerr.Wrapf(tournament.ErrNotEnoughTeams, "got %d", len(teams))
	}

	var pairs []pairing
	switch req.Format {
	case tournament.FormatKnockout:
		pairs = knockout(teams, shuffler)
	case tournament.FormatLeague:
		pairs = roundRobin(teams)
	case tournament.FormatDoubleLeague:
		pairs = doubleRoundRobin(teams)
	default:
		return nil, crerr.Wrapf(tournament.ErrUnsupportedFormat, "format %q", req.Format)
	}

	out := make([]match.Match, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, match.Match{
			TournamentID: req.TournamentID,
			HomeTeamID:   p.home,
			AwayTeamID:   p.away,
			OversLimit:   req.OversLimit,
			Status:       match.StatusScheduled,
			Round:        p.round,
			Sequence:     i + 1,
		})
	}
	return out, nil
}

type pairing struct {
	home  string
	away  string
	round int
}

// knockout shuffles the field and pairs neighbours into round one. An odd
// team out gets no fixture.
func knockout(teams []string, shuffler Shuffler) []pairing {
	order := append([]string(nil), teams...)
	if shuffler != nil {
		shuffler.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	out := make([]pairing, 0, len(order)/2)
	for i := 0; i+1 < len(order); i += 2 {
		out = append(out, pairing{home: order[i], away: order[i+1], round: 1})
	}
	return out
}

// roundRobin pairs every team with every later team; the earlier team hosts.
// Rounds are filled n-1 fixtures at a time in generation order.
func roundRobin(teams []string) []pairing {
	n := len(teams)
	out := make([]pairing, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, pairing{home: teams[i], away: teams[j]})
		}
	}
	assignRounds(out, n-1)
	return out
}

// doubleRoundRobin plays the single round robin then the return legs with
// home and away swapped, continuing the sequence.
func doubleRoundRobin(teams []string) []pairing {
	first := roundRobin(teams)
	out := make([]pairing, 0, len(first)*2)
	out = append(out, first...)
	for _, p := range first {
		out = append(out, pairing{home: p.away, away: p.home})
	}
	assignRounds(out, len(teams)-1)
	return out
}

func assignRounds(pairs []pairing, perRound int) {
	if perRound < 1 {
		perRound = 1
	}
	for i := range pairs {
		pairs[i].round = i/perRound + 1
	}
}
