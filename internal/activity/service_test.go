package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MinionBot_Go/internal/concurrency"
	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/transaction"
	"github.com/osse101/MinionBot_Go/internal/user"
	"github.com/osse101/MinionBot_Go/internal/worker"
)

const (
	itemIDCoins   = 995
	itemIDIronOre = 440
)

func newTestService(t *testing.T, repo *user.FakeRepository) *service {
	t.Helper()
	pool := worker.NewPool(1, 10)
	pool.Start()
	t.Cleanup(pool.Stop)

	guard := NewGuard(repo, concurrency.NewLockManager())
	engine := transaction.NewService(repo, repo, nil, nil)
	return NewService(guard, engine, pool, event.NewMemoryBus()).(*service)
}

func TestStart_ChargesCostAndSetsBusy(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)
	seedIdleUser(repo, domain.Bank{itemIDCoins: 100})

	act, err := svc.Start(context.Background(), testUserID, "mining", time.Hour,
		domain.Bank{itemIDCoins: 30}, domain.Bank{itemIDIronOre: 5})

	require.NoError(t, err)
	assert.Equal(t, "mining", act.Kind)

	economy, err := repo.GetUserEconomy(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, economy.Busy)
	assert.Equal(t, domain.Bank{itemIDCoins: 70}, economy.Bank)

	status, err := svc.Status(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "mining", status.Kind)
}

func TestStart_SecondStartRejected(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)
	seedIdleUser(repo, domain.Bank{})

	_, err := svc.Start(context.Background(), testUserID, "mining", time.Hour, nil, nil)
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), testUserID, "fishing", time.Hour, nil, nil)
	assert.ErrorIs(t, err, domain.ErrUserBusy)
}

func TestStart_UnaffordableCostReleasesGuard(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)
	seedIdleUser(repo, domain.Bank{itemIDCoins: 10})

	_, err := svc.Start(context.Background(), testUserID, "mining", time.Hour,
		domain.Bank{itemIDCoins: 50}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	economy, gerr := repo.GetUserEconomy(context.Background(), testUserID)
	require.NoError(t, gerr)
	assert.False(t, economy.Busy, "failed start must not leave the user busy")
	assert.Equal(t, domain.Bank{itemIDCoins: 10}, economy.Bank)
}

func TestStart_Validation(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)
	seedIdleUser(repo, domain.Bank{})

	_, err := svc.Start(context.Background(), testUserID, "", time.Hour, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Start(context.Background(), testUserID, "mining", time.Millisecond, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Start(context.Background(), testUserID, "mining", 48*time.Hour, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComplete_AppliesLootAndFrees(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)
	seedIdleUser(repo, domain.Bank{itemIDCoins: 100})

	_, err := svc.Start(context.Background(), testUserID, "mining", time.Hour,
		domain.Bank{itemIDCoins: 30}, domain.Bank{itemIDIronOre: 5})
	require.NoError(t, err)

	require.NoError(t, svc.complete(context.Background(), testUserID))

	economy, err := repo.GetUserEconomy(context.Background(), testUserID)
	require.NoError(t, err)
	assert.False(t, economy.Busy)
	assert.Equal(t, domain.Bank{itemIDCoins: 70, itemIDIronOre: 5}, economy.Bank)

	_, err = svc.Status(context.Background(), testUserID)
	assert.ErrorIs(t, err, domain.ErrNoActiveActivity)
}

func TestComplete_TimerFiresThroughPool(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)
	seedIdleUser(repo, domain.Bank{})

	_, err := svc.Start(context.Background(), testUserID, "mining", MinActivityDuration,
		nil, domain.Bank{itemIDIronOre: 1})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		economy, gerr := repo.GetUserEconomy(context.Background(), testUserID)
		return gerr == nil && !economy.Busy && economy.Bank[itemIDIronOre] == 1
	}, 5*time.Second, 50*time.Millisecond, "completion should fire on its own")
}

func TestShutdown_RacingTimerFires(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)

	// Several timers come due while Shutdown runs. Each completion
	// registers itself under the service lock before it is enqueued, so
	// Shutdown's wait can never race a late registration.
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("racer-%d", i)
		repo.SeedEconomy(domain.NewUserEconomy(id))
		_, err := svc.Start(context.Background(), id, "mining", MinActivityDuration,
			nil, domain.Bank{itemIDIronOre: 1})
		require.NoError(t, err)
	}

	time.Sleep(MinActivityDuration)
	require.NoError(t, svc.Shutdown(context.Background()))
}

func TestCancel_RefundsCostAndFrees(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)
	seedIdleUser(repo, domain.Bank{itemIDCoins: 100})

	_, err := svc.Start(context.Background(), testUserID, "mining", time.Hour,
		domain.Bank{itemIDCoins: 30}, domain.Bank{itemIDIronOre: 5})
	require.NoError(t, err)

	act, err := svc.Cancel(context.Background(), testUserID)

	require.NoError(t, err)
	assert.Equal(t, "mining", act.Kind)

	economy, gerr := repo.GetUserEconomy(context.Background(), testUserID)
	require.NoError(t, gerr)
	assert.False(t, economy.Busy)
	assert.Equal(t, domain.Bank{itemIDCoins: 100}, economy.Bank, "cost refunded, loot forfeited")
}

func TestCancel_NothingActive(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)
	seedIdleUser(repo, domain.Bank{})

	_, err := svc.Cancel(context.Background(), testUserID)

	assert.ErrorIs(t, err, domain.ErrNoActiveActivity)
}

func TestCancel_RecoversStuckBusyFlag(t *testing.T) {
	repo := user.NewFakeRepository()
	svc := newTestService(t, repo)

	// Busy in storage with no live record, as after a restart
	economy := domain.NewUserEconomy(testUserID)
	economy.Busy = true
	repo.SeedEconomy(economy)

	_, err := svc.Cancel(context.Background(), testUserID)

	assert.ErrorIs(t, err, domain.ErrNoActiveActivity)

	stored, gerr := repo.GetUserEconomy(context.Background(), testUserID)
	require.NoError(t, gerr)
	assert.False(t, stored.Busy, "the stranded flag must be cleared")
}
