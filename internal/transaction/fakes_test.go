package transaction

import (
	"context"
	"sync"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// FakeEconomyRepository is a stateful in-memory repository.Economy with the
// same revision semantics as the postgres implementation.
type FakeEconomyRepository struct {
	mu        sync.Mutex
	economies map[string]*domain.UserEconomy

	// UpdateErr forces the next UpdateUserEconomy to fail with this error.
	// With UpdateErrAt set, the failure instead fires on that call number
	// (1-based) only.
	UpdateErr   error
	UpdateErrAt int
	// ConflictNext forces the next UpdateUserEconomy to lose the revision
	// race exactly once, as if another writer got in between.
	ConflictNext bool

	UpdateCalls int
}

func NewFakeEconomyRepository() *FakeEconomyRepository {
	return &FakeEconomyRepository{economies: make(map[string]*domain.UserEconomy)}
}

// Seed installs a user economy with the given bank at revision 0.
func (f *FakeEconomyRepository) Seed(userID string, bank domain.Bank) {
	f.mu.Lock()
	defer f.mu.Unlock()
	economy := domain.NewUserEconomy(userID)
	economy.Bank = bank.Clone()
	f.economies[userID] = economy
}

func (f *FakeEconomyRepository) snapshot(e *domain.UserEconomy) *domain.UserEconomy {
	copied := domain.NewUserEconomy(e.UserID)
	copied.Bank = e.Bank.Clone()
	for setup, gear := range e.Gear {
		copied.Gear[setup] = gear.Clone()
	}
	for skill, level := range e.Skills {
		copied.Skills[skill] = level
	}
	copied.Busy = e.Busy
	copied.Revision = e.Revision
	return copied
}

func (f *FakeEconomyRepository) GetUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	economy, ok := f.economies[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return f.snapshot(economy), nil
}

func (f *FakeEconomyRepository) CreateUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.economies[userID]; !ok {
		f.economies[userID] = domain.NewUserEconomy(userID)
	}
	return f.snapshot(f.economies[userID]), nil
}

func (f *FakeEconomyRepository) UpdateUserEconomy(ctx context.Context, userID string, expectedRevision int64, update repository.EconomyUpdate) (*domain.UserEconomy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++

	if f.UpdateErr != nil && (f.UpdateErrAt == 0 || f.UpdateErrAt == f.UpdateCalls) {
		err := f.UpdateErr
		f.UpdateErr = nil
		return nil, err
	}

	economy, ok := f.economies[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	if f.ConflictNext {
		f.ConflictNext = false
		economy.Revision++
		return nil, domain.ErrConcurrentModification
	}

	if economy.Revision != expectedRevision {
		return nil, domain.ErrConcurrentModification
	}

	if update.Bank != nil {
		economy.Bank = update.Bank.Clone()
	}
	for setup, gear := range update.Gear {
		economy.Gear[setup] = gear.Clone()
	}
	for skill, level := range update.Skills {
		economy.Skills[skill] = level
	}
	if update.Busy != nil {
		economy.Busy = *update.Busy
	}
	economy.Revision++

	return f.snapshot(economy), nil
}

func (f *FakeEconomyRepository) SetBusy(ctx context.Context, userID string, busy bool, expectedRevision int64) (*domain.UserEconomy, error) {
	return f.UpdateUserEconomy(ctx, userID, expectedRevision, repository.EconomyUpdate{Busy: &busy})
}

var _ repository.Economy = (*FakeEconomyRepository)(nil)

// FakeTransactionLog records appended transactions in memory.
type FakeTransactionLog struct {
	mu      sync.Mutex
	Records []domain.TransactionRecord

	AppendErr error
}

func NewFakeTransactionLog() *FakeTransactionLog {
	return &FakeTransactionLog{}
}

func (f *FakeTransactionLog) Append(ctx context.Context, record *domain.TransactionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AppendErr != nil {
		return f.AppendErr
	}
	record.ID = int64(len(f.Records) + 1)
	f.Records = append(f.Records, *record)
	return nil
}

func (f *FakeTransactionLog) ListRecent(ctx context.Context, userID string, limit int) ([]domain.TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TransactionRecord
	for i := len(f.Records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.Records[i].UserID == userID {
			out = append(out, f.Records[i])
		}
	}
	return out, nil
}

func (f *FakeTransactionLog) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	return 0, nil
}

var _ repository.TransactionLog = (*FakeTransactionLog)(nil)

// ReasonsFor lists the reasons recorded for a user, oldest first.
func (f *FakeTransactionLog) ReasonsFor(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var reasons []string
	for _, rec := range f.Records {
		if rec.UserID == userID {
			reasons = append(reasons, rec.Reason)
		}
	}
	return reasons
}
