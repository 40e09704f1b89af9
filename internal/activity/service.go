package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/transaction"
	"github.com/osse101/MinionBot_Go/internal/worker"
)

// Activity is one in-flight minion trip.
type Activity struct {
	UserID      string
	Kind        string
	Cost        domain.Bank
	Loot        domain.Bank
	StartedAt   time.Time
	CompletesAt time.Time
}

// Service runs the activity lifecycle: charge the cost, hold the busy
// guard for the duration, then pay out the loot and release. Timers are
// in-memory; the persistent busy flag is the source of truth, so a
// restart cannot double-start a user, only strand a flag that Release
// clears.
type Service interface {
	Start(ctx context.Context, userID, kind string, duration time.Duration, cost, loot domain.Bank) (*Activity, error)
	Cancel(ctx context.Context, userID string) (*Activity, error)
	Status(ctx context.Context, userID string) (*Activity, error)
	Shutdown(ctx context.Context) error
}

type service struct {
	guard     *Guard
	engine    transaction.Service
	pool      *worker.Pool
	publisher event.Bus
	now       func() time.Time

	mu       sync.Mutex
	active   map[string]*Activity
	timers   map[string]*time.Timer
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewService creates a new activity service
func NewService(guard *Guard, engine transaction.Service, pool *worker.Pool, publisher event.Bus) Service {
	return &service{
		guard:     guard,
		engine:    engine,
		pool:      pool,
		publisher: publisher,
		now:       time.Now,
		active:    make(map[string]*Activity),
		timers:    make(map[string]*time.Timer),
		shutdown:  make(chan struct{}),
	}
}

// completionJob carries a due activity onto the worker pool.
type completionJob struct {
	svc    *service
	userID string
}

// Process balances the Add made by the timer callback that enqueued it.
func (j completionJob) Process(ctx context.Context) error {
	defer j.svc.wg.Done()
	return j.svc.complete(ctx, j.userID)
}

// Start charges the cost, marks the user busy and schedules completion.
// Any failure after the guard is taken releases it before returning.
func (s *service) Start(ctx context.Context, userID, kind string, duration time.Duration, cost, loot domain.Bank) (*Activity, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgStartCalled, "user_id", userID, "kind", kind, "duration", duration)

	// 1. Validate
	if kind == "" {
		return nil, fmt.Errorf("%w: activity kind must not be empty", domain.ErrInvalidInput)
	}
	if duration < MinActivityDuration || duration > MaxActivityDuration {
		return nil, fmt.Errorf("%w: duration %s outside [%s, %s]",
			domain.ErrInvalidInput, duration, MinActivityDuration, MaxActivityDuration)
	}

	// 2. Take the busy guard. From here on every exit path either keeps
	// the activity alive or releases the guard.
	if err := s.guard.Acquire(ctx, userID); err != nil {
		return nil, err
	}

	// 3. Charge the cost up front
	if !cost.IsEmpty() {
		err := transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
			_, terr := s.engine.ApplyTransaction(ctx, userID, cost, nil,
				transaction.Options{Reason: domain.TransactionReasonActivityCost})
			return terr
		})
		if err != nil {
			s.releaseQuietly(ctx, userID)
			return nil, fmt.Errorf("%s: %w", ErrMsgChargeCostFailed, err)
		}
	}

	// 4. Record and schedule completion
	started := s.now()
	act := &Activity{
		UserID:      userID,
		Kind:        kind,
		Cost:        cost.Clone(),
		Loot:        loot.Clone(),
		StartedAt:   started,
		CompletesAt: started.Add(duration),
	}

	s.mu.Lock()
	s.active[userID] = act
	s.timers[userID] = time.AfterFunc(duration, func() {
		// The in-flight count is registered here, under the same lock the
		// shutdown check holds, never from the pooled job itself. Shutdown
		// closes the channel under this lock, so Wait can only run after
		// this Add or after the callback has bailed out.
		s.mu.Lock()
		select {
		case <-s.shutdown:
			s.mu.Unlock()
			return
		default:
		}
		s.wg.Add(1)
		s.mu.Unlock()
		s.pool.Enqueue(completionJob{svc: s, userID: userID})
	})
	s.mu.Unlock()

	s.publish(ctx, event.NewActivityEvent(event.ActivityStarted, userID, kind, duration))
	log.Info(LogMsgActivityStarted, "user_id", userID, "kind", kind, "completes_at", act.CompletesAt)
	return act, nil
}

// complete pays out the loot and frees the user. Runs on the worker pool
// when the timer fires.
func (s *service) complete(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	act, ok := s.active[userID]
	if ok {
		delete(s.active, userID)
		delete(s.timers, userID)
	}
	s.mu.Unlock()
	if !ok {
		// Cancelled between timer fire and processing
		return nil
	}

	if !act.Loot.IsEmpty() {
		err := transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
			_, terr := s.engine.ApplyTransaction(ctx, userID, nil, act.Loot,
				transaction.Options{Reason: domain.TransactionReasonActivityLoot})
			return terr
		})
		if err != nil {
			// The user is still freed; the loot is the casualty, recorded
			// loudly for manual repair.
			log.Error(LogMsgLootApplyFailed, "user_id", userID, "kind", act.Kind,
				"loot", act.Loot.String(), "error", err)
		}
	}

	if err := s.guard.Release(ctx, userID); err != nil {
		log.Error(LogMsgGuardReleaseFailed, "user_id", userID, "error", err)
		return fmt.Errorf("%s: %w", LogMsgCompletionFailed, err)
	}

	s.publish(ctx, event.NewActivityEvent(event.ActivityCompleted, userID, act.Kind, 0))
	log.Info(LogMsgActivityCompleted, "user_id", userID, "kind", act.Kind)
	return nil
}

// Cancel aborts an in-flight activity, refunds its cost and frees the
// user. The loot is forfeited.
func (s *service) Cancel(ctx context.Context, userID string) (*Activity, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCancelCalled, "user_id", userID)

	s.mu.Lock()
	act, ok := s.active[userID]
	if ok {
		delete(s.active, userID)
		if timer, tok := s.timers[userID]; tok {
			timer.Stop()
			delete(s.timers, userID)
		}
	}
	s.mu.Unlock()
	if !ok {
		// A busy flag with no live record means a restart interrupted the
		// trip. Clear the flag so the user is not stuck, then report that
		// there was nothing to cancel.
		economy, gerr := s.guard.repo.GetUserEconomy(ctx, userID)
		if gerr == nil && economy.Busy {
			log.Warn(LogMsgRecoveredStuckUser, "user_id", userID)
			if rerr := s.guard.Release(ctx, userID); rerr != nil {
				return nil, rerr
			}
		}
		return nil, domain.ErrNoActiveActivity
	}

	if !act.Cost.IsEmpty() {
		err := transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
			_, terr := s.engine.ApplyTransaction(ctx, userID, nil, act.Cost,
				transaction.Options{Reason: domain.TransactionReasonActivityRefund})
			return terr
		})
		if err != nil {
			log.Error(LogMsgCostRefundFailed, "user_id", userID, "cost", act.Cost.String(), "error", err)
		}
	}

	if err := s.guard.Release(ctx, userID); err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewActivityEvent(event.ActivityCancelled, userID, act.Kind, 0))
	log.Info(LogMsgActivityCancelled, "user_id", userID, "kind", act.Kind)
	return act, nil
}

// Status returns the in-flight activity, ErrNoActiveActivity if idle.
func (s *service) Status(ctx context.Context, userID string) (*Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	act, ok := s.active[userID]
	if !ok {
		return nil, domain.ErrNoActiveActivity
	}
	copied := *act
	return &copied, nil
}

// Shutdown stops all timers and waits for in-flight completions. Busy
// flags of interrupted activities stay set in storage; they are released
// when the user cancels after restart.
func (s *service) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	close(s.shutdown)
	for userID, timer := range s.timers {
		timer.Stop()
		log.Warn(LogMsgActivityInterrupted, "user_id", userID)
	}
	s.timers = make(map[string]*time.Timer)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *service) releaseQuietly(ctx context.Context, userID string) {
	if err := s.guard.Release(ctx, userID); err != nil {
		logger.FromContext(ctx).Error(LogMsgGuardReleaseFailed, "user_id", userID, "error", err)
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish activity event", "error", err)
	}
}
