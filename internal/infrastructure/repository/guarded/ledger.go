// Package guarded wraps storage writes in a circuit breaker so a database
// outage fails fast instead of queueing scorers behind pool timeouts.
package guarded

import (
	"context"

	"github.com/riskibarqy/cricket-league/internal/domain/scoring"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/riskibarqy/cricket-league/internal/platform/resilience"
)

type LedgerRepository struct {
	next    scoring.Repository
	breaker *resilience.Breaker
	logger  *logging.Logger
}

func NewLedgerRepository(next scoring.Repository, breaker *resilience.Breaker, logger *logging.Logger) *LedgerRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &LedgerRepository{next: next, breaker: breaker, logger: logger.Named("ledger")}
}

func (r *LedgerRepository) AppendBall(ctx context.Context, write scoring.BallWrite) error {
	return r.do(ctx, "append_ball", write.Match.ID, func(ctx context.Context) error {
		return r.next.AppendBall(ctx, write)
	})
}

func (r *LedgerRepository) SaveRebuild(ctx context.Context, rebuild scoring.Rebuild) error {
	return r.do(ctx, "save_rebuild", rebuild.Match.ID, func(ctx context.Context) error {
		return r.next.SaveRebuild(ctx, rebuild)
	})
}

func (r *LedgerRepository) do(ctx context.Context, op, matchID string, fn func(context.Context) error) error {
	before := r.breaker.State()
	err := r.breaker.Do(ctx, fn)
	if after := r.breaker.State(); after != before {
		r.logger.WarnContext(ctx, "ledger breaker state changed", "op", op, "match_id", matchID, "from", string(before), "to", string(after))
	}
	return err
}
