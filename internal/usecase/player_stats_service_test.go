package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/cricket-league/internal/domain/player"
)

func TestPlayerStatsService_GetPlayerStat_ZeroRowForNewPlayer(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	got, err := b.playerStats.GetPlayerStat(context.Background(), " coastal-kings-01 ")
	if err != nil {
		t.Fatalf("get player stat: %v", err)
	}
	if got.Player.TeamID != "coastal-kings" {
		t.Fatalf("unexpected team: %s", got.Player.TeamID)
	}
	if got.Stat.PlayerID != "coastal-kings-01" || got.Stat.Matches != 0 {
		t.Fatalf("expected zero stat row, got %+v", got.Stat)
	}
}

func TestPlayerStatsService_GetPlayerStat_Errors(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	if _, err := b.playerStats.GetPlayerStat(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := b.playerStats.GetPlayerStat(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerStatsService_GetPlayerStat_MatchCountedOnce(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	m := createLiveMatch(t, b, 1)
	recordAll(t, b, firstInnings(m.ID))

	got, err := b.playerStats.GetPlayerStat(context.Background(), "valley-vipers-11")
	if err != nil {
		t.Fatalf("get player stat: %v", err)
	}
	if _, ok := player.AllRoles[got.Player.Role]; !ok {
		t.Fatalf("unexpected player role %q", got.Player.Role)
	}
	if got.Stat.Matches != 1 {
		t.Fatalf("bowler of a whole over should count one match, got %d", got.Stat.Matches)
	}
	if economy := got.Stat.Economy(); economy != 12 {
		t.Fatalf("unexpected economy: %v", economy)
	}
}
