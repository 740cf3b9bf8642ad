package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
)

// InningsRepository serves both innings rows and the ball log.
type InningsRepository struct {
	store *Store
}

func NewInningsRepository(store *Store) *InningsRepository {
	return &InningsRepository{store: store}
}

func (r *InningsRepository) ListByMatch(_ context.Context, matchID string) ([]innings.Innings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]innings.Innings, 0, 2)
	for key, item := range r.store.innings {
		if key.matchID == matchID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *InningsRepository) Get(_ context.Context, matchID string, number int) (innings.Innings, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.innings[inningsKey{matchID: matchID, number: number}]
	return item, ok, nil
}

type BallEventRepository struct {
	store *Store
}

func NewBallEventRepository(store *Store) *BallEventRepository {
	return &BallEventRepository{store: store}
}

func (r *BallEventRepository) ListByMatch(_ context.Context, matchID string) ([]ballevent.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]ballevent.Event(nil), r.store.events[matchID]...), nil
}

func (r *BallEventRepository) ListByInnings(_ context.Context, matchID string, inning int) ([]ballevent.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]ballevent.Event, 0)
	for _, ev := range r.store.events[matchID] {
		if ev.Inning == inning {
			out = append(out, ev)
		}
	}
	return out, nil
}
