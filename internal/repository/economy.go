package repository

import (
	"context"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

// EconomyUpdate describes the fields of a user's economy row to change.
// Nil fields are left untouched. The update is applied as a single
// revision-checked write, so every non-nil field lands atomically or
// not at all.
type EconomyUpdate struct {
	Bank   *domain.Bank
	Gear   map[domain.GearSetupType]domain.Gear
	Skills map[domain.Skill]int
	Busy   *bool
}

// IsEmpty reports whether the update would change nothing.
func (u EconomyUpdate) IsEmpty() bool {
	return u.Bank == nil && u.Gear == nil && u.Skills == nil && u.Busy == nil
}

// Economy defines the interface for economy persistence
type Economy interface {
	// GetUserEconomy returns the user's bank, gear, skills, busy flag and
	// current revision. ErrUserNotFound if no row exists.
	GetUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error)

	// CreateUserEconomy inserts an empty economy row at revision 0.
	CreateUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error)

	// UpdateUserEconomy applies update if and only if the stored revision
	// still equals expectedRevision, bumping the revision in the same
	// statement. Returns the updated state, ErrConcurrentModification on a
	// revision mismatch, or ErrUserNotFound if the row does not exist.
	UpdateUserEconomy(ctx context.Context, userID string, expectedRevision int64, update EconomyUpdate) (*domain.UserEconomy, error)

	// SetBusy flips only the busy flag, revision-checked like any other write.
	SetBusy(ctx context.Context, userID string, busy bool, expectedRevision int64) (*domain.UserEconomy, error)
}
