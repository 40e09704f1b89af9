package transaction

import (
	"context"
	"errors"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/logger"
)

// RetryOnConflict runs fn, re-running it after a lost revision race. The
// attempt must recompute from fresh state each time; anything else stays a
// hard failure. Bounded so pathological contention surfaces as an error
// instead of spinning.
func RetryOnConflict(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= MaxConflictRetries; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, domain.ErrConcurrentModification) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.FromContext(ctx).Info(LogMsgConflictRetry, "attempt", attempt)
	}
	return err
}
