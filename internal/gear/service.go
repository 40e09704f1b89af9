package gear

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/metrics"
	"github.com/osse101/MinionBot_Go/internal/repository"
	"github.com/osse101/MinionBot_Go/internal/transaction"
)

// Outcome describes the loadout and bank after a gear operation.
type Outcome struct {
	Setup    domain.GearSetupType
	Gear     map[domain.EquipmentSlot]domain.GearSlotItem
	Returned domain.Bank
	Bank     domain.Bank
	Revision int64
}

// Service manages worn gear. Every mutation lands through the transaction
// engine so the loadout and the bank change in one revision-checked write;
// a displaced item is always refunded to the bank, never destroyed.
type Service interface {
	Equip(ctx context.Context, userID string, setup domain.GearSetupType, itemName string, quantity int) (*Outcome, error)
	Unequip(ctx context.Context, userID string, setup domain.GearSetupType, itemName string) (*Outcome, error)
	UnequipAll(ctx context.Context, userID string, setup domain.GearSetupType) (*Outcome, error)
	Swap(ctx context.Context, userID string, first, second domain.GearSetupType) (*Outcome, error)
	View(ctx context.Context, userID string, setup domain.GearSetupType) (*Outcome, error)

	SavePreset(ctx context.Context, userID, name string, layout domain.Gear) error
	EquipPreset(ctx context.Context, userID string, setup domain.GearSetupType, presetName string) (*Outcome, error)
	ListPresets(ctx context.Context, userID string) ([]domain.GearPreset, error)
	DeletePreset(ctx context.Context, userID, name string) error
}

type service struct {
	catalog   item.Catalog
	repo      repository.Economy
	presets   repository.GearPreset
	engine    transaction.Service
	publisher event.Bus
	confirmer Confirmer
	now       func() time.Time
}

// NewService creates a new gear service
func NewService(catalog item.Catalog, repo repository.Economy, presets repository.GearPreset, engine transaction.Service, publisher event.Bus, confirmer Confirmer) Service {
	if confirmer == nil {
		confirmer = AutoConfirmer{}
	}
	return &service{
		catalog:   catalog,
		repo:      repo,
		presets:   presets,
		engine:    engine,
		publisher: publisher,
		confirmer: confirmer,
		now:       time.Now,
	}
}

// Equip moves the named item from the bank into its slot on the given
// setup. Displaced occupants return to the bank in the same write.
func (s *service) Equip(ctx context.Context, userID string, setup domain.GearSetupType, itemName string, quantity int) (*Outcome, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgEquipCalled, "user_id", userID, "setup", setup, "item", itemName, "quantity", quantity)

	// 1. A busy user is rejected before any other validation, even the
	// item lookup, so the busy error always wins.
	if err := s.checkNotBusy(ctx, userID); err != nil {
		return nil, err
	}

	// 2. Resolve and validate the item
	it, err := s.lookupItem(itemName)
	if err != nil {
		return nil, err
	}
	if !it.Equipable() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotEquipable, it.Name)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidInput)
	}
	if quantity > 1 && !it.Stackable {
		return nil, fmt.Errorf("%w: cannot equip %d of %s", domain.ErrStackabilityViolation, quantity, it.Name)
	}

	// 3. Wildy changes need an explicit go-ahead. Check the preconditions
	// first so a doomed request never prompts.
	if setup == domain.GearSetupWildy {
		if err := s.precheckEquip(ctx, userID, it, quantity); err != nil {
			return nil, err
		}
		prompt := fmt.Sprintf("Equip %s to your wildy setup? It can be lost on death.", it.Name)
		if err := s.confirm(ctx, userID, prompt); err != nil {
			return nil, err
		}
	}

	// 4. Commit, recomputing from fresh state after any lost race. The
	// post-confirmation attempt re-checks everything: a confirmation that
	// went stale while the prompt was open fails cleanly here.
	var outcome *Outcome
	err = transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
		var aerr error
		outcome, aerr = s.attemptEquip(ctx, userID, setup, it, quantity)
		return aerr
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewGearChangeEvent(event.GearEquipped, userID, setup, *it.EquipSlot, it.ID, quantity))
	log.Info(LogMsgEquipCompleted, "user_id", userID, "setup", setup, "item", it.Name, "revision", outcome.Revision)
	return outcome, nil
}

func (s *service) attemptEquip(ctx context.Context, userID string, setup domain.GearSetupType, it *domain.Item, quantity int) (*Outcome, error) {
	economy, err := s.readActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !it.MeetsRequirements(economy.Skills) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRequirementsNotMet, it.Name)
	}

	equipped, err := economy.GearFor(setup).Equip(it, quantity)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.ApplyTransaction(ctx, userID,
		domain.Bank{it.ID: quantity}, equipped.Refund,
		transaction.Options{
			Reason:           domain.TransactionReasonGearEquip,
			SetGear:          map[domain.GearSetupType]domain.Gear{setup: equipped.NewGear},
			ExpectedRevision: &economy.Revision,
		})
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Setup:    setup,
		Gear:     equipped.NewGear.ToMapping(),
		Returned: equipped.Refund,
		Bank:     result.NewBank,
		Revision: result.Revision,
	}, nil
}

// Unequip returns the named worn item to the bank.
func (s *service) Unequip(ctx context.Context, userID string, setup domain.GearSetupType, itemName string) (*Outcome, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgUnequipCalled, "user_id", userID, "setup", setup, "item", itemName)

	if err := s.checkNotBusy(ctx, userID); err != nil {
		return nil, err
	}

	it, err := s.lookupItem(itemName)
	if err != nil {
		return nil, err
	}

	var outcome *Outcome
	var slot domain.EquipmentSlot
	err = transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
		economy, aerr := s.readActive(ctx, userID)
		if aerr != nil {
			return aerr
		}
		worn := economy.GearFor(setup)
		var ok bool
		slot, ok = worn.SlotOf(it.ID)
		if !ok {
			return fmt.Errorf("%w: %s is not equipped", domain.ErrSlotEmpty, it.Name)
		}
		unequipped, aerr := worn.Unequip(slot)
		if aerr != nil {
			return aerr
		}
		result, aerr := s.engine.ApplyTransaction(ctx, userID, nil, unequipped.Returned,
			transaction.Options{
				Reason:           domain.TransactionReasonGearUnequip,
				SetGear:          map[domain.GearSetupType]domain.Gear{setup: unequipped.NewGear},
				ExpectedRevision: &economy.Revision,
			})
		if aerr != nil {
			return aerr
		}
		outcome = &Outcome{
			Setup:    setup,
			Gear:     unequipped.NewGear.ToMapping(),
			Returned: unequipped.Returned,
			Bank:     result.NewBank,
			Revision: result.Revision,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewGearChangeEvent(event.GearUnequipped, userID, setup, slot, it.ID, 0))
	log.Info(LogMsgUnequipCompleted, "user_id", userID, "setup", setup, "item", it.Name)
	return outcome, nil
}

// UnequipAll strips the setup and returns everything to the bank.
func (s *service) UnequipAll(ctx context.Context, userID string, setup domain.GearSetupType) (*Outcome, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgUnequipAllCalled, "user_id", userID, "setup", setup)

	var outcome *Outcome
	err := transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
		economy, aerr := s.readActive(ctx, userID)
		if aerr != nil {
			return aerr
		}
		worn := economy.GearFor(setup)
		if len(worn) == 0 {
			return fmt.Errorf("%w: %s", domain.ErrSlotEmpty, ErrMsgNothingEquipped)
		}
		cleared, returned := worn.UnequipAll()
		result, aerr := s.engine.ApplyTransaction(ctx, userID, nil, returned,
			transaction.Options{
				Reason:           domain.TransactionReasonGearUnequip,
				SetGear:          map[domain.GearSetupType]domain.Gear{setup: cleared},
				ExpectedRevision: &economy.Revision,
			})
		if aerr != nil {
			return aerr
		}
		outcome = &Outcome{
			Setup:    setup,
			Gear:     cleared.ToMapping(),
			Returned: returned,
			Bank:     result.NewBank,
			Revision: result.Revision,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewGearChangeEvent(event.GearUnequipped, userID, setup, "", 0, 0))
	log.Info(LogMsgUnequipCompleted, "user_id", userID, "setup", setup, "returned", outcome.Returned.TotalItems())
	return outcome, nil
}

// Swap exchanges the loadouts of two setups. The bank is untouched, but
// the write still goes through the engine so the revision advances and
// concurrent operations see it.
func (s *service) Swap(ctx context.Context, userID string, first, second domain.GearSetupType) (*Outcome, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSwapCalled, "user_id", userID, "first", first, "second", second)

	// Busy first, so a busy user is never prompted for a swap that is
	// going to fail anyway.
	if err := s.checkNotBusy(ctx, userID); err != nil {
		return nil, err
	}

	if first == second {
		return nil, fmt.Errorf("%w: cannot swap a setup with itself", domain.ErrInvalidInput)
	}

	if first == domain.GearSetupWildy || second == domain.GearSetupWildy {
		prompt := fmt.Sprintf("Swap your %s and %s setups? Wildy gear can be lost on death.", first, second)
		if err := s.confirm(ctx, userID, prompt); err != nil {
			return nil, err
		}
	}

	var outcome *Outcome
	err := transaction.RetryOnConflict(ctx, func(ctx context.Context) error {
		economy, aerr := s.readActive(ctx, userID)
		if aerr != nil {
			return aerr
		}
		firstGear := economy.GearFor(first).Clone()
		secondGear := economy.GearFor(second).Clone()
		result, aerr := s.engine.ApplyTransaction(ctx, userID, nil, nil,
			transaction.Options{
				Reason: domain.TransactionReasonGearSwap,
				SetGear: map[domain.GearSetupType]domain.Gear{
					first:  secondGear,
					second: firstGear,
				},
				ExpectedRevision: &economy.Revision,
			})
		if aerr != nil {
			return aerr
		}
		outcome = &Outcome{
			Setup:    first,
			Gear:     secondGear.ToMapping(),
			Bank:     result.NewBank,
			Revision: result.Revision,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewGearChangeEvent(event.GearSwapped, userID, first, "", 0, 0))
	log.Info(LogMsgSwapCompleted, "user_id", userID, "first", first, "second", second)
	return outcome, nil
}

// View returns the current loadout and bank without modifying anything.
func (s *service) View(ctx context.Context, userID string, setup domain.GearSetupType) (*Outcome, error) {
	logger.FromContext(ctx).Info(LogMsgViewCalled, "user_id", userID, "setup", setup)

	economy, err := s.repo.GetUserEconomy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetEconomyFailed, err)
	}
	return &Outcome{
		Setup:    setup,
		Gear:     economy.GearFor(setup).ToMapping(),
		Bank:     economy.Bank.Clone(),
		Revision: economy.Revision,
	}, nil
}

// precheckEquip verifies the cheap preconditions against current state so
// a request that cannot succeed is rejected before the user is prompted.
func (s *service) precheckEquip(ctx context.Context, userID string, it *domain.Item, quantity int) error {
	economy, err := s.readActive(ctx, userID)
	if err != nil {
		return err
	}
	if !it.MeetsRequirements(economy.Skills) {
		return fmt.Errorf("%w: %s", domain.ErrRequirementsNotMet, it.Name)
	}
	want := domain.Bank{it.ID: quantity}
	if !economy.Bank.Has(want) {
		return fmt.Errorf("%w: missing %s", domain.ErrInsufficientFunds, economy.Bank.Missing(want))
	}
	return nil
}

// checkNotBusy fronts every gear mutation. The busy flag is re-read
// inside the commit loop too; this early read only fixes which error a
// busy user sees, before any item or preset lookup can fail first.
func (s *service) checkNotBusy(ctx context.Context, userID string) error {
	_, err := s.readActive(ctx, userID)
	return err
}

// readActive loads the economy and rejects busy users. Gear cannot change
// while the minion is out on an activity.
func (s *service) readActive(ctx context.Context, userID string) (*domain.UserEconomy, error) {
	economy, err := s.repo.GetUserEconomy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetEconomyFailed, err)
	}
	if economy.Busy {
		metrics.BusyRejections.Inc()
		return nil, domain.ErrUserBusy
	}
	return economy, nil
}

func (s *service) confirm(ctx context.Context, userID, prompt string) error {
	logger.FromContext(ctx).Info(LogMsgConfirmRequested, "user_id", userID, "prompt", prompt)
	if err := s.confirmer.Confirm(ctx, prompt); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfirmationDeclined, err)
	}
	return nil
}

func (s *service) lookupItem(name string) (*domain.Item, error) {
	it := s.catalog.GetItemByName(strings.ToLower(strings.TrimSpace(name)))
	if it == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, name)
	}
	return it, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish gear event", "error", err)
	}
}
