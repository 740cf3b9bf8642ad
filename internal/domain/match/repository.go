package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Match, error)
	Create(ctx context.Context, m Match) error
	UpdateStatus(ctx context.Context, matchID string, from, to Status) error
}
