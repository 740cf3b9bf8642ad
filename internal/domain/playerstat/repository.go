package playerstat

import "context"

// Repository describes player stat reads.
type Repository interface {
	GetByPlayerID(ctx context.Context, playerID string) (Stat, bool, error)
	ListByPlayerIDs(ctx context.Context, playerIDs []string) ([]Stat, error)
	ListAppearances(ctx context.Context, matchID string, playerIDs []string) ([]Appearance, error)
}
