package gear

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/transaction"
)

// SavePreset stores a named loadout. Only the layout is validated here;
// whether the user can afford the preset is checked when it is equipped,
// since bank contents will have changed by then anyway.
func (s *service) SavePreset(ctx context.Context, userID, name string, layout domain.Gear) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSavePresetCalled, "user_id", userID, "name", name)

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyPresetName)
	}
	if len(name) > MaxPresetNameLength {
		return fmt.Errorf("%w: preset name exceeds %d characters", domain.ErrInvalidInput, MaxPresetNameLength)
	}
	if err := layout.Validate(); err != nil {
		return err
	}
	for slot, occupant := range layout {
		if occupant == nil {
			continue
		}
		it := s.catalog.GetItem(occupant.Item)
		if it == nil {
			return fmt.Errorf("%w: %d", domain.ErrItemNotFound, occupant.Item)
		}
		if !it.Equipable() {
			return fmt.Errorf("%w: %s", domain.ErrNotEquipable, it.Name)
		}
		if *it.EquipSlot != slot {
			return fmt.Errorf("%w: %s does not fit slot %s", domain.ErrInvalidInput, it.Name, slot)
		}
		if occupant.Quantity > 1 && !it.Stackable {
			return fmt.Errorf("%w: cannot equip %d of %s", domain.ErrStackabilityViolation, occupant.Quantity, it.Name)
		}
	}

	preset := &domain.GearPreset{
		UserID:    userID,
		Name:      name,
		Gear:      layout.Clone(),
		CreatedAt: s.now(),
	}
	if err := s.presets.SavePreset(ctx, preset); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSavePresetFailed, err)
	}
	return nil
}

// EquipPreset replaces the setup's loadout with a saved preset in one
// write. Preset items are drawn from the bank and the currently worn
// gear together, so re-equipping a preset you already mostly wear does
// not require spare copies in the bank.
func (s *service) EquipPreset(ctx context.Context, userID string, setup domain.GearSetupType, presetName string) (*Outcome, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgEquipPresetCalled, "user_id", userID, "setup", setup, "preset", presetName)

	if err := s.checkNotBusy(ctx, userID); err != nil {
		return nil, err
	}

	preset, err := s.presets.GetPreset(ctx, userID, strings.TrimSpace(presetName))
	if err != nil {
		if errors.Is(err, domain.ErrPresetNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgGetPresetFailed, err)
	}

	if setup == domain.GearSetupWildy {
		prompt := fmt.Sprintf("Equip preset %q to your wildy setup? It can be lost on death.", preset.Name)
		if err := s.confirm(ctx, userID, prompt); err != nil {
			return nil, err
		}
	}

	var outcome *Outcome
	err = transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
		economy, aerr := s.readActive(ctx, userID)
		if aerr != nil {
			return aerr
		}

		for _, occupant := range preset.Gear {
			if occupant == nil {
				continue
			}
			it := s.catalog.GetItem(occupant.Item)
			if it == nil {
				return fmt.Errorf("%w: %d", domain.ErrItemNotFound, occupant.Item)
			}
			if !it.MeetsRequirements(economy.Skills) {
				return fmt.Errorf("%w: %s", domain.ErrRequirementsNotMet, it.Name)
			}
		}

		// Net out items the user already wears: only the difference moves
		// through the bank, and the Has check covers exactly the shortfall.
		current := economy.GearFor(setup)
		wanted := preset.Gear.AllItems()
		worn := current.AllItems()
		result, aerr := s.engine.ApplyTransaction(ctx, userID,
			bankDifference(wanted, worn), bankDifference(worn, wanted),
			transaction.Options{
				Reason:           domain.TransactionReasonGearPreset,
				SetGear:          map[domain.GearSetupType]domain.Gear{setup: preset.Gear.Clone()},
				ExpectedRevision: &economy.Revision,
			})
		if aerr != nil {
			return aerr
		}
		outcome = &Outcome{
			Setup:    setup,
			Gear:     preset.Gear.ToMapping(),
			Returned: bankDifference(worn, wanted),
			Bank:     result.NewBank,
			Revision: result.Revision,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewGearChangeEvent(event.GearPresetEquipped, userID, setup, "", 0, 0))
	log.Info(LogMsgPresetEquipped, "user_id", userID, "setup", setup, "preset", preset.Name)
	return outcome, nil
}

// ListPresets returns all of a user's saved presets.
func (s *service) ListPresets(ctx context.Context, userID string) ([]domain.GearPreset, error) {
	presets, err := s.presets.ListPresets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListPresetsFailed, err)
	}
	return presets, nil
}

// DeletePreset removes a saved preset by name.
func (s *service) DeletePreset(ctx context.Context, userID, name string) error {
	return s.presets.DeletePreset(ctx, userID, strings.TrimSpace(name))
}

// bankDifference returns the entries of a not covered by b.
func bankDifference(a, b domain.Bank) domain.Bank {
	diff := domain.NewBank()
	for itemID, quantity := range a {
		if extra := quantity - b[itemID]; extra > 0 {
			diff[itemID] = extra
		}
	}
	return diff
}
