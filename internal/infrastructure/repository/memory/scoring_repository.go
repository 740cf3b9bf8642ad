package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/cricket-league/internal/domain/scoring"
)

// ScoringRepository applies scoring writes to the shared store in one
// critical section.
type ScoringRepository struct {
	store *Store
}

func NewScoringRepository(store *Store) *ScoringRepository {
	return &ScoringRepository{store: store}
}

func (r *ScoringRepository) AppendBall(_ context.Context, w scoring.BallWrite) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.matches[w.Match.ID]; !ok {
		return fmt.Errorf("match %s not found", w.Match.ID)
	}
	for _, ev := range r.store.events[w.Event.MatchID] {
		if ev.Sequence == w.Event.Sequence {
			return fmt.Errorf("sequence %d already recorded for match %s", ev.Sequence, ev.MatchID)
		}
	}

	r.store.events[w.Event.MatchID] = append(r.store.events[w.Event.MatchID], w.Event)
	r.store.innings[inningsKey{matchID: w.Innings.MatchID, number: w.Innings.Number}] = w.Innings
	for _, s := range w.Stats {
		r.store.stats[s.PlayerID] = s
	}
	for _, a := range w.Appearances {
		r.store.appearances[appearanceKey{matchID: a.MatchID, playerID: a.PlayerID}] = a
	}
	r.store.matches[w.Match.ID] = cloneMatch(w.Match)
	return nil
}

func (r *ScoringRepository) SaveRebuild(_ context.Context, rb scoring.Rebuild) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.matches[rb.Match.ID]; !ok {
		return fmt.Errorf("match %s not found", rb.Match.ID)
	}
	for _, inn := range rb.Innings {
		r.store.innings[inningsKey{matchID: inn.MatchID, number: inn.Number}] = inn
	}
	r.store.matches[rb.Match.ID] = cloneMatch(rb.Match)
	return nil
}
