package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
	"github.com/riskibarqy/cricket-league/internal/domain/scoring"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	roster, err := DefaultRoster()
	if err != nil {
		t.Fatalf("default roster: %v", err)
	}
	return NewStore(roster)
}

func TestScoringRepository_AppendBallRejectsDuplicateSequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	matches := NewMatchRepository(store)
	repo := NewScoringRepository(store)

	m := match.Match{ID: "m1", HomeTeamID: "harbour-hawks", AwayTeamID: "valley-vipers", Status: match.StatusLive}
	if err := matches.Create(ctx, m); err != nil {
		t.Fatalf("create match: %v", err)
	}

	write := scoring.BallWrite{
		Event:   ballevent.Event{ID: "e1", MatchID: "m1", Inning: 1, Sequence: 1, Code: ballevent.CodeFour, Runs: 4},
		Innings: innings.Innings{MatchID: "m1", Number: 1, Runs: 4, LegalBalls: 1, LastSequence: 1},
		Stats:   []playerstat.Stat{{PlayerID: "harbour-hawks-01", RunsScored: 4}},
		Match:   m,
	}
	if err := repo.AppendBall(ctx, write); err != nil {
		t.Fatalf("append ball: %v", err)
	}

	write.Innings.Runs = 99
	if err := repo.AppendBall(ctx, write); err == nil {
		t.Fatalf("expected duplicate sequence to be rejected")
	}

	inn, ok, err := NewInningsRepository(store).Get(ctx, "m1", 1)
	if err != nil || !ok {
		t.Fatalf("get innings: ok=%v err=%v", ok, err)
	}
	if inn.Runs != 4 {
		t.Fatalf("rejected write leaked into innings: runs=%d", inn.Runs)
	}
	events, _ := NewBallEventRepository(store).ListByMatch(ctx, "m1")
	if len(events) != 1 {
		t.Fatalf("unexpected event count: %d", len(events))
	}
}

func TestTournamentRepository_StartIsAllOrNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	repo := NewTournamentRepository(store)
	matches := NewMatchRepository(store)

	tr := tournament.Tournament{ID: "t1", Name: "Cup", Format: tournament.FormatLeague, OversLimit: 20, MinTeams: 2, MaxTeams: 4, Status: tournament.StatusRegistrationOpen}
	if err := repo.Create(ctx, tr); err != nil {
		t.Fatalf("create tournament: %v", err)
	}
	if err := matches.Create(ctx, match.Match{ID: "taken", HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusScheduled}); err != nil {
		t.Fatalf("create match: %v", err)
	}

	fixtures := []match.Match{
		{ID: "f1", TournamentID: "t1", HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusScheduled, Sequence: 1},
		{ID: "taken", TournamentID: "t1", HomeTeamID: "b", AwayTeamID: "c", Status: match.StatusScheduled, Sequence: 2},
	}
	if err := repo.Start(ctx, "t1", fixtures, time.Unix(0, 0)); err == nil {
		t.Fatalf("expected id clash to fail start")
	}
	got, _, _ := repo.GetByID(ctx, "t1")
	if got.Status != tournament.StatusRegistrationOpen {
		t.Fatalf("failed start changed status to %s", got.Status)
	}
	if _, ok, _ := matches.GetByID(ctx, "f1"); ok {
		t.Fatalf("failed start persisted a fixture")
	}

	fixtures[1].ID = "f2"
	if err := repo.Start(ctx, "t1", fixtures, time.Unix(0, 0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	listed, _ := matches.ListByTournament(ctx, "t1")
	if len(listed) != 2 || listed[0].ID != "f1" {
		t.Fatalf("unexpected fixtures: %+v", listed)
	}
}

func TestMatchRepository_UpdateStatusCompareAndSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(newTestStore(t))
	if err := repo.Create(ctx, match.Match{ID: "m1", HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusScheduled}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdateStatus(ctx, "m1", match.StatusLive, match.StatusCompleted); err != match.ErrStaleStatus {
		t.Fatalf("expected ErrStaleStatus, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, "m1", match.StatusScheduled, match.StatusAccepted); err != nil {
		t.Fatalf("update status: %v", err)
	}
}
