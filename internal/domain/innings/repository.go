package innings

import "context"

// Repository exposes innings reads; one row per (match, number).
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Innings, error)
	Get(ctx context.Context, matchID string, number int) (Innings, bool, error)
}
