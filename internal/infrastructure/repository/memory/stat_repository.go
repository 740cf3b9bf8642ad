package memory

import (
	"context"

	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
)

type PlayerStatRepository struct {
	store *Store
}

func NewPlayerStatRepository(store *Store) *PlayerStatRepository {
	return &PlayerStatRepository{store: store}
}

func (r *PlayerStatRepository) GetByPlayerID(_ context.Context, playerID string) (playerstat.Stat, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.stats[playerID]
	return item, ok, nil
}

func (r *PlayerStatRepository) ListByPlayerIDs(_ context.Context, playerIDs []string) ([]playerstat.Stat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]playerstat.Stat, 0, len(playerIDs))
	for _, id := range playerIDs {
		if item, ok := r.store.stats[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PlayerStatRepository) ListAppearances(_ context.Context, matchID string, playerIDs []string) ([]playerstat.Appearance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]playerstat.Appearance, 0, len(playerIDs))
	for _, id := range playerIDs {
		if item, ok := r.store.appearances[appearanceKey{matchID: matchID, playerID: id}]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}
