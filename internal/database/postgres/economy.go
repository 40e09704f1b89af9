package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// EconomyRepository implements the economy repository for PostgreSQL.
// The whole of a user's economy (bank, gear, skills, busy flag) lives on a
// single row guarded by a revision column, so every write is one compare-
// and-swap UPDATE and concurrent writers can never interleave partial state.
type EconomyRepository struct {
	db *pgxpool.Pool
}

// NewEconomyRepository creates a new EconomyRepository
func NewEconomyRepository(db *pgxpool.Pool) *EconomyRepository {
	return &EconomyRepository{db: db}
}

var _ repository.Economy = (*EconomyRepository)(nil)

// GetUserEconomy retrieves the user's full economy state
func (r *EconomyRepository) GetUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error) {
	query := `
		SELECT bank, gear, skills, busy, revision
		FROM user_economy
		WHERE user_id = $1
	`
	row := r.db.QueryRow(ctx, query, userID)
	economy, err := scanEconomy(row, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEconomy, err)
	}
	return economy, nil
}

// CreateUserEconomy inserts an empty economy row at revision 0
func (r *EconomyRepository) CreateUserEconomy(ctx context.Context, userID string) (*domain.UserEconomy, error) {
	query := `
		INSERT INTO user_economy (user_id, bank, gear, skills, busy, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, 0, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID, EmptyBankJSON, EmptyGearJSON, EmptyBankJSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreateEconomy, err)
	}
	return r.GetUserEconomy(ctx, userID)
}

// UpdateUserEconomy applies the update if and only if the stored revision
// still matches, bumping the revision in the same statement. Gear setups
// are merged at the top level so an update touching one setup leaves the
// others intact. Gear is assigned before bank in the SET list so a bank
// change is never visible ahead of the gear change it pays for.
func (r *EconomyRepository) UpdateUserEconomy(ctx context.Context, userID string, expectedRevision int64, update repository.EconomyUpdate) (*domain.UserEconomy, error) {
	if update.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", ErrMsgEmptyEconomyUpdate, domain.ErrInvalidInput)
	}

	sets := []string{"revision = revision + 1", "updated_at = NOW()"}
	args := []interface{}{userID, expectedRevision}
	argNum := 3

	if update.Gear != nil {
		gearJSON, err := json.Marshal(update.Gear)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMarshalGear, err)
		}
		sets = append(sets, fmt.Sprintf("gear = gear || $%d", argNum))
		args = append(args, gearJSON)
		argNum++
	}

	if update.Skills != nil {
		skillsJSON, err := json.Marshal(update.Skills)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMarshalSkills, err)
		}
		sets = append(sets, fmt.Sprintf("skills = skills || $%d", argNum))
		args = append(args, skillsJSON)
		argNum++
	}

	if update.Bank != nil {
		bankJSON, err := json.Marshal(update.Bank)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMarshalBank, err)
		}
		sets = append(sets, fmt.Sprintf("bank = $%d", argNum))
		args = append(args, bankJSON)
		argNum++
	}

	if update.Busy != nil {
		sets = append(sets, fmt.Sprintf("busy = $%d", argNum))
		args = append(args, *update.Busy)
	}

	query := fmt.Sprintf(`
		UPDATE user_economy
		SET %s
		WHERE user_id = $1 AND revision = $2
		RETURNING bank, gear, skills, busy, revision
	`, strings.Join(sets, ", "))

	row := r.db.QueryRow(ctx, query, args...)
	economy, err := scanEconomy(row, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMissedUpdate(ctx, userID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateEconomy, err)
	}
	return economy, nil
}

// SetBusy flips only the busy flag
func (r *EconomyRepository) SetBusy(ctx context.Context, userID string, busy bool, expectedRevision int64) (*domain.UserEconomy, error) {
	return r.UpdateUserEconomy(ctx, userID, expectedRevision, repository.EconomyUpdate{Busy: &busy})
}

// classifyMissedUpdate decides whether a zero-row UPDATE was a missing user
// or a lost revision race.
func (r *EconomyRepository) classifyMissedUpdate(ctx context.Context, userID string) error {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM user_economy WHERE user_id = $1)", userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCheckEconomyRow, err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return domain.ErrConcurrentModification
}

// scanEconomy reads one economy row, rejecting corrupt JSONB loudly rather
// than repairing it.
func scanEconomy(row pgx.Row, userID string) (*domain.UserEconomy, error) {
	var (
		bankJSON   []byte
		gearJSON   []byte
		skillsJSON []byte
		busy       bool
		revision   int64
	)
	if err := row.Scan(&bankJSON, &gearJSON, &skillsJSON, &busy, &revision); err != nil {
		return nil, err
	}

	economy := domain.NewUserEconomy(userID)
	economy.Busy = busy
	economy.Revision = revision

	if err := json.Unmarshal(bankJSON, &economy.Bank); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalBank, err)
	}

	var gear map[domain.GearSetupType]domain.Gear
	if err := json.Unmarshal(gearJSON, &gear); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalGear, err)
	}
	for setup, loadout := range gear {
		if _, err := domain.ParseGearSetupType(string(setup)); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalGear, err)
		}
		economy.Gear[setup] = loadout
	}

	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &economy.Skills); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalSkills, err)
		}
	}

	return economy, nil
}
