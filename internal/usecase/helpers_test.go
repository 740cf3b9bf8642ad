package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-league/internal/platform/lock"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type sequenceIDGenerator struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("%s-%03d", g.prefix, g.next.Add(1)), nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	updates []ScoreUpdate
}

func (p *recordingPublisher) Publish(_ context.Context, update ScoreUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, update)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updates)
}

// testBackend wires every service over one in-memory store.
type testBackend struct {
	store     *memory.Store
	locks     *lock.Keyed
	publisher *recordingPublisher

	matches     *MatchService
	scoring     *ScoringService
	tournaments *TournamentService
	standings   *StandingService
	replay      *ReplayService
	playerStats *PlayerStatsService
}

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()

	roster, err := memory.DefaultRoster()
	if err != nil {
		t.Fatalf("default roster: %v", err)
	}
	store := memory.NewStore(roster)
	locks := lock.NewKeyed()
	logger := logging.NewNop()
	publisher := &recordingPublisher{}

	matchRepo := memory.NewMatchRepository(store)
	teamRepo := memory.NewTeamRepository(store)
	playerRepo := memory.NewPlayerRepository(store)
	inningsRepo := memory.NewInningsRepository(store)
	ballRepo := memory.NewBallEventRepository(store)
	statRepo := memory.NewPlayerStatRepository(store)
	tournamentRepo := memory.NewTournamentRepository(store)
	ledger := memory.NewScoringRepository(store)

	b := &testBackend{
		store:       store,
		locks:       locks,
		publisher:   publisher,
		matches:     NewMatchService(matchRepo, teamRepo, locks, &sequenceIDGenerator{prefix: "match"}, logger),
		scoring:     NewScoringService(matchRepo, inningsRepo, ballRepo, statRepo, playerRepo, ledger, locks, &sequenceIDGenerator{prefix: "ball"}, publisher, logger),
		tournaments: NewTournamentService(tournamentRepo, teamRepo, matchRepo, reverseShuffler{}, locks, &sequenceIDGenerator{prefix: "fixture"}, logger),
		standings:   NewStandingService(tournamentRepo, matchRepo),
		replay:      NewReplayService(matchRepo, tournamentRepo, inningsRepo, ballRepo, ledger, locks, 2, logger),
		playerStats: NewPlayerStatsService(playerRepo, statRepo),
	}
	b.matches.now = func() time.Time { return testNow }
	b.scoring.now = func() time.Time { return testNow }
	b.tournaments.now = func() time.Time { return testNow }
	b.replay.now = func() time.Time { return testNow }
	return b
}

type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}
