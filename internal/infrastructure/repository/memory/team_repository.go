package memory

import (
	"context"

	"github.com/riskibarqy/cricket-league/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams[teamID]
	return item, ok, nil
}

func (r *TeamRepository) ListByIDs(_ context.Context, teamIDs []string) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0, len(teamIDs))
	for _, id := range teamIDs {
		if item, ok := r.store.teams[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}
