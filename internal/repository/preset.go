package repository

import (
	"context"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

// GearPreset defines the interface for saved gear layout persistence
type GearPreset interface {
	// SavePreset inserts or replaces the named preset for a user.
	SavePreset(ctx context.Context, preset *domain.GearPreset) error

	// GetPreset returns a user's preset by name, ErrPresetNotFound if absent.
	GetPreset(ctx context.Context, userID, name string) (*domain.GearPreset, error)

	// ListPresets returns all of a user's presets ordered by name.
	ListPresets(ctx context.Context, userID string) ([]domain.GearPreset, error)

	DeletePreset(ctx context.Context, userID, name string) error
}
