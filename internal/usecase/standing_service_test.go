package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
	matchmock "github.com/riskibarqy/cricket-league/internal/mocks/domain/match"
	tournamentmock "github.com/riskibarqy/cricket-league/internal/mocks/domain/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func completedMatch(id, home, away string, homeRuns, awayRuns int) match.Match {
	m := match.Match{ID: id, TournamentID: "t1", HomeTeamID: home, AwayTeamID: away, Status: match.StatusCompleted}
	switch {
	case homeRuns > awayRuns:
		m.WinnerTeamID = home
	case awayRuns > homeRuns:
		m.WinnerTeamID = away
	}
	m.Scorecard = &scorecard.Scorecard{
		MatchID: id,
		Innings: []scorecard.InningsSummary{
			{Number: 1, BattingTeamID: home, BowlingTeamID: away, Runs: homeRuns},
			{Number: 2, BattingTeamID: away, BowlingTeamID: home, Runs: awayRuns},
		},
		Decided:      true,
		WinnerTeamID: m.WinnerTeamID,
	}
	return m
}

func TestStandingService_GetStandingsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournamentRepo := tournamentmock.NewRepository(t)
	matchRepo := matchmock.NewRepository(t)
	service := NewStandingService(tournamentRepo, matchRepo)

	tournamentRepo.
		On("GetByID", mock.Anything, "t1").
		Return(tournament.Tournament{ID: "t1", Format: tournament.FormatLeague, Status: tournament.StatusOngoing}, true, nil).
		Once()
	tournamentRepo.
		On("ListRegistrations", mock.Anything, "t1").
		Return([]tournament.Registration{
			{TeamID: "c", RegisteredAt: testNow.Add(2 * time.Minute)},
			{TeamID: "a", RegisteredAt: testNow},
			{TeamID: "b", RegisteredAt: testNow.Add(time.Minute)},
		}, nil).
		Once()
	matchRepo.
		On("ListByTournament", mock.Anything, "t1").
		Return([]match.Match{
			completedMatch("m1", "a", "b", 150, 120),
			completedMatch("m2", "b", "c", 140, 140),
			completedMatch("m3", "c", "a", 160, 100),
			{ID: "m4", TournamentID: "t1", HomeTeamID: "a", AwayTeamID: "c", Status: match.StatusLive},
		}, nil).
		Once()

	rows, err := service.GetStandings(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "c", rows[0].TeamID)
	assert.Equal(t, 3, rows[0].Points)
	assert.Equal(t, 60, rows[0].NetRunRate)
	assert.Equal(t, 1, rows[0].Position)

	assert.Equal(t, "a", rows[1].TeamID)
	assert.Equal(t, 2, rows[1].Points)
	assert.Equal(t, 2, rows[1].Played)
	assert.Equal(t, -30, rows[1].NetRunRate)

	assert.Equal(t, "b", rows[2].TeamID)
	assert.Equal(t, 1, rows[2].Points)
	assert.Equal(t, 1, rows[2].Tied)
	assert.Equal(t, 3, rows[2].Position)
}

func TestStandingService_GetStandings_KnockoutHasNoTableUsingMockery(t *testing.T) {
	t.Parallel()

	tournamentRepo := tournamentmock.NewRepository(t)
	service := NewStandingService(tournamentRepo, matchmock.NewRepository(t))

	tournamentRepo.
		On("GetByID", mock.Anything, "ko").
		Return(tournament.Tournament{ID: "ko", Format: tournament.FormatKnockout}, true, nil).
		Once()

	rows, err := service.GetStandings(context.Background(), "ko")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestStandingService_GetStandings_Errors(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	if _, err := b.standings.GetStandings(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := b.standings.GetStandings(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStandingService_GetStandings_FreshLeague(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newTestBackend(t)
	tr := createTournament(t, b, "DOUBLE_LEAGUE", 4)
	for i, teamID := range rosterTeams {
		b.tournaments.now = func() time.Time { return testNow.Add(time.Duration(i) * time.Second) }
		_, err := b.tournaments.RegisterTeam(ctx, tr.ID, teamID)
		require.NoError(t, err)
	}

	rows, err := b.standings.GetStandings(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, rows, len(rosterTeams))
	for i, row := range rows {
		assert.Equal(t, rosterTeams[i], row.TeamID, "registration order breaks ties")
		assert.Equal(t, i+1, row.Position)
		assert.Zero(t, row.Played)
	}
}
