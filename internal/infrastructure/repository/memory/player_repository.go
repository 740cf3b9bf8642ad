package memory

import (
	"context"

	"github.com/riskibarqy/cricket-league/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.players[playerID]
	return item, ok, nil
}

func (r *PlayerRepository) ListByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if item, ok := r.store.players[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}
