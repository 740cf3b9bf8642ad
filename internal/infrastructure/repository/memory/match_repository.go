package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/cricket-league/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.matches[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

func (r *MatchRepository) ListByTournament(_ context.Context, tournamentID string) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.store.matches {
		if item.TournamentID == tournamentID {
			out = append(out, cloneMatch(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.matches[m.ID]; exists {
		return fmt.Errorf("match %s already exists", m.ID)
	}
	r.store.matches[m.ID] = cloneMatch(m)
	return nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, matchID string, from, to match.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.matches[matchID]
	if !ok || item.Status != from {
		return match.ErrStaleStatus
	}
	item.Status = to
	r.store.matches[matchID] = item
	return nil
}
