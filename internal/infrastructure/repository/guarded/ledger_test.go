package guarded

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/scoring"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/riskibarqy/cricket-league/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyLedger struct {
	err      error
	appends  int
	rebuilds int
}

func (l *flakyLedger) AppendBall(context.Context, scoring.BallWrite) error {
	l.appends++
	return l.err
}

func (l *flakyLedger) SaveRebuild(context.Context, scoring.Rebuild) error {
	l.rebuilds++
	return l.err
}

func TestLedgerRepository_OpensAfterFailures(t *testing.T) {
	next := &flakyLedger{err: errors.New("connection refused")}
	breaker := resilience.NewBreaker(resilience.BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	repo := NewLedgerRepository(next, breaker, logging.NewNop())
	write := scoring.BallWrite{Match: match.Match{ID: "m-1"}}

	for i := 0; i < 2; i++ {
		err := repo.AppendBall(context.Background(), write)
		require.ErrorIs(t, err, next.err)
	}

	err := repo.AppendBall(context.Background(), write)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	err = repo.SaveRebuild(context.Background(), scoring.Rebuild{Match: match.Match{ID: "m-1"}})
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)

	assert.Equal(t, 2, next.appends)
	assert.Equal(t, 0, next.rebuilds)
	assert.Equal(t, resilience.StateOpen, breaker.State())
}

func TestLedgerRepository_PassesThroughWhenHealthy(t *testing.T) {
	next := &flakyLedger{}
	repo := NewLedgerRepository(next, resilience.NewBreaker(resilience.DefaultBreakerConfig()), nil)

	require.NoError(t, repo.AppendBall(context.Background(), scoring.BallWrite{}))
	require.NoError(t, repo.SaveRebuild(context.Background(), scoring.Rebuild{}))
	assert.Equal(t, 1, next.appends)
	assert.Equal(t, 1, next.rebuilds)
}
