package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/MinionBot_Go/internal/concurrency"
	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/metrics"
	"github.com/osse101/MinionBot_Go/internal/repository"
	"github.com/osse101/MinionBot_Go/internal/transaction"
)

// Guard owns the per-user busy flag. The flag lives on the same row as the
// bank and shares its revision, so a guard acquisition and a concurrent
// bank write cannot both win. The lock manager serializes same-user
// attempts in-process; attempts from other processes lose on the revision
// instead.
type Guard struct {
	repo  repository.Economy
	locks *concurrency.LockManager
}

// NewGuard creates a new busy guard
func NewGuard(repo repository.Economy, locks *concurrency.LockManager) *Guard {
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	return &Guard{repo: repo, locks: locks}
}

// Acquire marks the user busy. A user that is already busy is rejected
// with ErrUserBusy; exactly one concurrent caller can win.
func (g *Guard) Acquire(ctx context.Context, userID string) error {
	return g.locks.WithLock(userID, func() error {
		err := transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
			economy, err := g.repo.GetUserEconomy(ctx, userID)
			if err != nil {
				return err
			}
			if economy.Busy {
				metrics.BusyRejections.Inc()
				return domain.ErrUserBusy
			}
			_, err = g.repo.SetBusy(ctx, userID, true, economy.Revision)
			return err
		})
		if err != nil {
			if errors.Is(err, domain.ErrUserBusy) {
				return err
			}
			return fmt.Errorf("%s: %w", ErrMsgAcquireGuardFailed, err)
		}
		logger.FromContext(ctx).Info(LogMsgBusyAcquired, "user_id", userID)
		return nil
	})
}

// Release clears the busy flag. Releasing a user that is not busy is a
// no-op so completion and cancellation paths can both call it safely.
func (g *Guard) Release(ctx context.Context, userID string) error {
	return g.locks.WithLock(userID, func() error {
		err := transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
			economy, err := g.repo.GetUserEconomy(ctx, userID)
			if err != nil {
				return err
			}
			if !economy.Busy {
				return nil
			}
			_, err = g.repo.SetBusy(ctx, userID, false, economy.Revision)
			return err
		})
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgReleaseGuardFailed, err)
		}
		logger.FromContext(ctx).Info(LogMsgBusyReleased, "user_id", userID)
		return nil
	})
}
