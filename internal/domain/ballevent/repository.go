package ballevent

import "context"

// Repository describes ball event reads. Writes go through the scoring
// ledger so events land together with their derived state.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
	ListByInnings(ctx context.Context, matchID string, inning int) ([]Event, error)
}
