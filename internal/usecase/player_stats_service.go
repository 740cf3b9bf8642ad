package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/cricket-league/internal/domain/player"
	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
)

type PlayerStatsService struct {
	playerRepo player.Repository
	statRepo   playerstat.Repository
}

func NewPlayerStatsService(playerRepo player.Repository, statRepo playerstat.Repository) *PlayerStatsService {
	return &PlayerStatsService{playerRepo: playerRepo, statRepo: statRepo}
}

// PlayerProfile pairs a player with their career stats.
type PlayerProfile struct {
	Player player.Player
	Stat   playerstat.Stat
}

// GetPlayerStat returns career totals. A known player who has not played
// yet gets a zero row.
func (s *PlayerStatsService) GetPlayerStat(ctx context.Context, playerID string) (PlayerProfile, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PlayerProfile{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerProfile{}, unavailable("get player", err)
	}
	if !exists {
		return PlayerProfile{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	stat, exists, err := s.statRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return PlayerProfile{}, unavailable("get player stat", err)
	}
	if !exists {
		stat = playerstat.Stat{PlayerID: playerID}
	}

	return PlayerProfile{Player: p, Stat: stat}, nil
}
