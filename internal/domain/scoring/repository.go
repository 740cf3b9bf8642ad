package scoring

import "context"

// Repository persists scoring writes atomically.
type Repository interface {
	AppendBall(ctx context.Context, write BallWrite) error
	SaveRebuild(ctx context.Context, rebuild Rebuild) error
}
