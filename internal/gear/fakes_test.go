package gear

import (
	"context"
	"sync"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// fakeEconomyRepository is an in-memory repository.Economy mirroring the
// revision semantics of the postgres implementation.
type fakeEconomyRepository struct {
	mu        sync.Mutex
	economies map[string]*domain.UserEconomy
}

func newFakeEconomyRepository() *fakeEconomyRepository {
	return &fakeEconomyRepository{economies: make(map[string]*domain.UserEconomy)}
}

func (f *fakeEconomyRepository) seed(economy *domain.UserEconomy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.economies[economy.UserID] = economy
}

// mutate adjusts stored state out of band, standing in for a concurrent
// writer. The revision advances like any committed write.
func (f *fakeEconomyRepository) mutate(userID string, fn func(*domain.UserEconomy)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	economy := f.economies[userID]
	fn(economy)
	economy.Revision++
}

func snapshotEconomy(e *domain.UserEconomy) *domain.UserEconomy {
	copied := domain.NewUserEconomy(e.UserID)
	copied.Bank = e.Bank.Clone()
	for setup, worn := range e.Gear {
		copied.Gear[setup] = worn.Clone()
	}
	for skill, level := range e.Skills {
		copied.Skills[skill] = level
	}
	copied.Busy = e.Busy
	copied.Revision = e.Revision
	return copied
}

func (f *fakeEconomyRepository) GetUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	economy, ok := f.economies[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return snapshotEconomy(economy), nil
}

func (f *fakeEconomyRepository) CreateUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.economies[userID]; !ok {
		f.economies[userID] = domain.NewUserEconomy(userID)
	}
	return snapshotEconomy(f.economies[userID]), nil
}

func (f *fakeEconomyRepository) UpdateUserEconomy(ctx context.Context, userID string, expectedRevision int64, update repository.EconomyUpdate) (*domain.UserEconomy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	economy, ok := f.economies[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if economy.Revision != expectedRevision {
		return nil, domain.ErrConcurrentModification
	}
	if update.Bank != nil {
		economy.Bank = update.Bank.Clone()
	}
	for setup, worn := range update.Gear {
		economy.Gear[setup] = worn.Clone()
	}
	for skill, level := range update.Skills {
		economy.Skills[skill] = level
	}
	if update.Busy != nil {
		economy.Busy = *update.Busy
	}
	economy.Revision++
	return snapshotEconomy(economy), nil
}

func (f *fakeEconomyRepository) SetBusy(ctx context.Context, userID string, busy bool, expectedRevision int64) (*domain.UserEconomy, error) {
	return f.UpdateUserEconomy(ctx, userID, expectedRevision, repository.EconomyUpdate{Busy: &busy})
}

var _ repository.Economy = (*fakeEconomyRepository)(nil)

// fakePresetRepository stores presets keyed by user and name.
type fakePresetRepository struct {
	mu      sync.Mutex
	presets map[string]map[string]domain.GearPreset
}

func newFakePresetRepository() *fakePresetRepository {
	return &fakePresetRepository{presets: make(map[string]map[string]domain.GearPreset)}
}

func (f *fakePresetRepository) SavePreset(ctx context.Context, preset *domain.GearPreset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presets[preset.UserID] == nil {
		f.presets[preset.UserID] = make(map[string]domain.GearPreset)
	}
	f.presets[preset.UserID][preset.Name] = *preset
	return nil
}

func (f *fakePresetRepository) GetPreset(ctx context.Context, userID, name string) (*domain.GearPreset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	preset, ok := f.presets[userID][name]
	if !ok {
		return nil, domain.ErrPresetNotFound
	}
	return &preset, nil
}

func (f *fakePresetRepository) ListPresets(ctx context.Context, userID string) ([]domain.GearPreset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.GearPreset
	for _, preset := range f.presets[userID] {
		out = append(out, preset)
	}
	return out, nil
}

func (f *fakePresetRepository) DeletePreset(ctx context.Context, userID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.presets[userID], name)
	return nil
}

var _ repository.GearPreset = (*fakePresetRepository)(nil)

// declineConfirmer rejects every prompt.
type declineConfirmer struct{}

func (declineConfirmer) Confirm(ctx context.Context, prompt string) error {
	return domain.ErrConfirmationDeclined
}

// funcConfirmer runs fn when prompted, so tests can race state changes
// against an open confirmation.
type funcConfirmer struct {
	fn func()
}

func (c funcConfirmer) Confirm(ctx context.Context, prompt string) error {
	if c.fn != nil {
		c.fn()
	}
	return nil
}
