package tournament

import (
	"context"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/match"
)

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	Create(ctx context.Context, t Tournament) error
	ListRegistrations(ctx context.Context, tournamentID string) ([]Registration, error)
	Register(ctx context.Context, reg Registration) error
	// Start moves the tournament to ONGOING and stores its fixtures in one
	// atomic write.
	Start(ctx context.Context, tournamentID string, fixtures []match.Match, startedAt time.Time) error
}
