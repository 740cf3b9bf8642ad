package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
)

type TournamentRepository struct {
	store *Store
}

func NewTournamentRepository(store *Store) *TournamentRepository {
	return &TournamentRepository{store: store}
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.tournaments[tournamentID]
	return item, ok, nil
}

func (r *TournamentRepository) Create(_ context.Context, t tournament.Tournament) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.tournaments[t.ID]; exists {
		return fmt.Errorf("tournament %s already exists", t.ID)
	}
	r.store.tournaments[t.ID] = t
	return nil
}

func (r *TournamentRepository) ListRegistrations(_ context.Context, tournamentID string) ([]tournament.Registration, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]tournament.Registration(nil), r.store.registrations[tournamentID]...), nil
}

func (r *TournamentRepository) Register(_ context.Context, reg tournament.Registration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.registrations[reg.TournamentID] {
		if existing.TeamID == reg.TeamID {
			return fmt.Errorf("team %s already registered in %s", reg.TeamID, reg.TournamentID)
		}
	}
	r.store.registrations[reg.TournamentID] = append(r.store.registrations[reg.TournamentID], reg)
	return nil
}

func (r *TournamentRepository) Start(_ context.Context, tournamentID string, fixtures []match.Match, startedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.tournaments[tournamentID]
	if !ok {
		return fmt.Errorf("tournament %s not found", tournamentID)
	}
	if t.Status != tournament.StatusRegistrationOpen {
		return fmt.Errorf("tournament %s is %s", tournamentID, t.Status)
	}
	for _, m := range fixtures {
		if _, exists := r.store.matches[m.ID]; exists {
			return fmt.Errorf("match %s already exists", m.ID)
		}
	}

	for _, m := range fixtures {
		r.store.matches[m.ID] = cloneMatch(m)
	}
	t.Status = tournament.StatusOngoing
	t.StartedAt = &startedAt
	t.UpdatedAt = startedAt
	r.store.tournaments[tournamentID] = t
	return nil
}
