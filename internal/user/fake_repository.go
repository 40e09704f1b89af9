package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// FakeRepository is a stateful in-memory implementation of the user,
// economy, transaction log and preset repositories, with the same
// revision semantics as the postgres implementations. It enables
// integration-style unit tests across packages without a database.
//
// It must remain a non-test file so other packages' tests can import it.
type FakeRepository struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	economies map[string]*domain.UserEconomy
	records   []domain.TransactionRecord
	presets   map[string]map[string]domain.GearPreset
}

// NewFakeRepository creates an empty fake repository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		users:     make(map[string]*domain.User),
		economies: make(map[string]*domain.UserEconomy),
		presets:   make(map[string]map[string]domain.GearPreset),
	}
}

// SeedEconomy installs a user economy, replacing any existing one.
func (f *FakeRepository) SeedEconomy(economy *domain.UserEconomy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.economies[economy.UserID] = economy
}

// MutateEconomy adjusts stored state out of band, standing in for a
// concurrent writer. The revision advances like any committed write.
func (f *FakeRepository) MutateEconomy(userID string, fn func(*domain.UserEconomy)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	economy := f.economies[userID]
	fn(economy)
	economy.Revision++
}

func cloneEconomy(e *domain.UserEconomy) *domain.UserEconomy {
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

// User repository

func (f *FakeRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *FakeRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *FakeRepository) GetUserByPlatformID(ctx context.Context, platform, platformID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if platformIDOf(user, platform) == platformID && platformID != "" {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *FakeRepository) GetUserByPlatformUsername(ctx context.Context, platform, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if platformIDOf(user, platform) != "" && strings.EqualFold(user.Username, username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *FakeRepository) DeleteUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userID)
	delete(f.economies, userID)
	return nil
}

func platformIDOf(user *domain.User, platform string) string {
	switch platform {
	case domain.PlatformTwitch:
		return user.TwitchID
	case domain.PlatformYoutube:
		return user.YoutubeID
	case domain.PlatformDiscord:
		return user.DiscordID
	}
	return ""
}

// Economy repository

func (f *FakeRepository) GetUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	economy, ok := f.economies[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneEconomy(economy), nil
}

func (f *FakeRepository) CreateUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.economies[userID]; !ok {
		f.economies[userID] = domain.NewUserEconomy(userID)
	}
	return cloneEconomy(f.economies[userID]), nil
}

func (f *FakeRepository) UpdateUserEconomy(ctx context.Context, userID string, expectedRevision int64, update repository.EconomyUpdate) (*domain.UserEconomy, error) {
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
	return cloneEconomy(economy), nil
}

func (f *FakeRepository) SetBusy(ctx context.Context, userID string, busy bool, expectedRevision int64) (*domain.UserEconomy, error) {
	return f.UpdateUserEconomy(ctx, userID, expectedRevision, repository.EconomyUpdate{Busy: &busy})
}

// Transaction log

func (f *FakeRepository) Append(ctx context.Context, record *domain.TransactionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record.ID = int64(len(f.records) + 1)
	f.records = append(f.records, *record)
	return nil
}

func (f *FakeRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TransactionRecord
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].UserID == userID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *FakeRepository) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	var kept []domain.TransactionRecord
	var removed int64
	for _, record := range f.records {
		if record.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	f.records = kept
	return removed, nil
}

// Gear presets

func (f *FakeRepository) SavePreset(ctx context.Context, preset *domain.GearPreset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presets[preset.UserID] == nil {
		f.presets[preset.UserID] = make(map[string]domain.GearPreset)
	}
	f.presets[preset.UserID][preset.Name] = *preset
	return nil
}

func (f *FakeRepository) GetPreset(ctx context.Context, userID, name string) (*domain.GearPreset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	preset, ok := f.presets[userID][name]
	if !ok {
		return nil, domain.ErrPresetNotFound
	}
	return &preset, nil
}

func (f *FakeRepository) ListPresets(ctx context.Context, userID string) ([]domain.GearPreset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.GearPreset
	for _, preset := range f.presets[userID] {
		out = append(out, preset)
	}
	return out, nil
}

func (f *FakeRepository) DeletePreset(ctx context.Context, userID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.presets[userID], name)
	return nil
}

var (
	_ repository.User           = (*FakeRepository)(nil)
	_ repository.Economy        = (*FakeRepository)(nil)
	_ repository.TransactionLog = (*FakeRepository)(nil)
	_ repository.GearPreset     = (*FakeRepository)(nil)
)
