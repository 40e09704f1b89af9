package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// GearPresetRepository implements gear preset persistence for PostgreSQL
type GearPresetRepository struct {
	db *pgxpool.Pool
}

// NewGearPresetRepository creates a new GearPresetRepository
func NewGearPresetRepository(db *pgxpool.Pool) *GearPresetRepository {
	return &GearPresetRepository{db: db}
}

var _ repository.GearPreset = (*GearPresetRepository)(nil)

// SavePreset inserts or replaces the named preset for a user
func (r *GearPresetRepository) SavePreset(ctx context.Context, preset *domain.GearPreset) error {
	gearJSON, err := json.Marshal(preset.Gear)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSavePreset, err)
	}

	query := `
		INSERT INTO gear_presets (user_id, name, gear, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, name) DO UPDATE
		SET gear = EXCLUDED.gear
	`
	if _, err := r.db.Exec(ctx, query, preset.UserID, preset.Name, gearJSON); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSavePreset, err)
	}
	return nil
}

// GetPreset returns a user's preset by name
func (r *GearPresetRepository) GetPreset(ctx context.Context, userID, name string) (*domain.GearPreset, error) {
	query := `
		SELECT user_id, name, gear, created_at
		FROM gear_presets
		WHERE user_id = $1 AND name = $2
	`
	preset, err := scanPreset(r.db.QueryRow(ctx, query, userID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPresetNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPreset, err)
	}
	return preset, nil
}

// ListPresets returns all of a user's presets ordered by name
func (r *GearPresetRepository) ListPresets(ctx context.Context, userID string) ([]domain.GearPreset, error) {
	query := `
		SELECT user_id, name, gear, created_at
		FROM gear_presets
		WHERE user_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPresets, err)
	}
	defer rows.Close()

	var presets []domain.GearPreset
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPresets, err)
		}
		presets = append(presets, *preset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPresets, err)
	}
	return presets, nil
}

// DeletePreset removes a preset by name
func (r *GearPresetRepository) DeletePreset(ctx context.Context, userID, name string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM gear_presets WHERE user_id = $1 AND name = $2", userID, name)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeletePreset, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPresetNotFound
	}
	return nil
}

func scanPreset(row pgx.Row) (*domain.GearPreset, error) {
	var preset domain.GearPreset
	var gearJSON []byte

	if err := row.Scan(&preset.UserID, &preset.Name, &gearJSON, &preset.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(gearJSON, &preset.Gear); err != nil {
		return nil, err
	}
	return &preset, nil
}
