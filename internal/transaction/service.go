package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/metrics"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// LootFilter prunes unwanted items from a loot Bank before it is credited.
type LootFilter func(loot domain.Bank) domain.Bank

// Options tune how a transaction is recorded and committed. They never
// affect atomicity: the bank (and any gear delta) still land in one
// revision-checked write.
type Options struct {
	// Reason tags the audit record and events (e.g. "gear.equip").
	Reason string

	// FilterLoot, when set, is applied to itemsToAdd before the Has check.
	FilterLoot LootFilter

	// CollectionLog marks the additions for collection-log recording.
	CollectionLog bool

	// DontAddToTempCL suppresses temporary collection-log recording even
	// when CollectionLog is set.
	DontAddToTempCL bool

	// SetGear, when non-nil, commits gear loadout changes in the same
	// atomic write as the bank change.
	SetGear map[domain.GearSetupType]domain.Gear

	// ExpectedRevision pins the write to a revision the caller observed
	// earlier. When the state has moved on since that read, the whole
	// transaction fails with ErrConcurrentModification instead of
	// committing against state the caller never saw.
	ExpectedRevision *int64
}

// Result describes a committed transaction.
type Result struct {
	ItemsAdded   domain.Bank
	ItemsRemoved domain.Bank
	NewBank      domain.Bank
	Revision     int64
}

// TransferResult describes a completed cross-user transfer.
type TransferResult struct {
	Items        domain.Bank
	FromRevision int64
	ToRevision   int64
}

// Service is the single choke point through which every bank mutation in
// the system flows.
type Service interface {
	ApplyTransaction(ctx context.Context, userID string, itemsToRemove, itemsToAdd domain.Bank, opts Options) (*Result, error)
	TransferItems(ctx context.Context, fromUserID, toUserID string, items domain.Bank) (*TransferResult, error)
}

type service struct {
	repo      repository.Economy
	txLog     repository.TransactionLog
	catalog   item.Catalog
	publisher event.Bus
	now       func() time.Time
}

// NewService creates a new transaction service
func NewService(repo repository.Economy, txLog repository.TransactionLog, catalog item.Catalog, publisher event.Bus) Service {
	return &service{
		repo:      repo,
		txLog:     txLog,
		catalog:   catalog,
		publisher: publisher,
		now:       time.Now,
	}
}

// ApplyTransaction removes then adds items against a fresh read of the
// user's bank, committing through one revision-checked write. On any error
// the stored state is untouched. The engine never retries conflicts itself;
// callers that can safely recompute wrap calls in RetryOnConflict.
func (s *service) ApplyTransaction(ctx context.Context, userID string, itemsToRemove, itemsToAdd domain.Bank, opts Options) (*Result, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgApplyTransactionCalled, "user_id", userID, "reason", opts.Reason,
		"remove", itemsToRemove.TotalItems(), "add", itemsToAdd.TotalItems())

	// 1. Validate requested quantities
	if err := validateItems(itemsToRemove); err != nil {
		return nil, err
	}
	if err := validateItems(itemsToAdd); err != nil {
		return nil, err
	}

	// 2. Read current state fresh
	economy, err := s.repo.GetUserEconomy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetEconomyFailed, err)
	}
	if opts.ExpectedRevision != nil && *opts.ExpectedRevision != economy.Revision {
		metrics.TransactionConflicts.Inc()
		return nil, domain.ErrConcurrentModification
	}

	// 3. Apply the loot filter before anything is checked or credited
	toAdd := itemsToAdd
	if opts.FilterLoot != nil {
		toAdd = opts.FilterLoot(itemsToAdd.Clone())
		if err := validateItems(toAdd); err != nil {
			return nil, err
		}
	}

	// 4. Check funds, naming every missing item
	if !economy.Bank.Has(itemsToRemove) {
		missing := economy.Bank.Missing(itemsToRemove)
		return nil, fmt.Errorf("%w: missing %s", domain.ErrInsufficientFunds, missing)
	}

	// 5. Compute the new bank. Remove before add so a transaction can spend
	// and receive the same item.
	newBank := economy.Bank.Clone()
	if err := newBank.RemoveBank(itemsToRemove); err != nil {
		return nil, err
	}
	if err := newBank.AddBank(toAdd); err != nil {
		return nil, err
	}

	// 6. Commit with the revision observed in step 2
	updated, err := s.repo.UpdateUserEconomy(ctx, userID, economy.Revision, repository.EconomyUpdate{
		Bank: &newBank,
		Gear: opts.SetGear,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			metrics.TransactionConflicts.Inc()
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdateEconomyFailed, err)
	}

	// 7. Record and announce after the state change is durable
	s.record(ctx, userID, toAdd, itemsToRemove, opts)

	log.Info(LogMsgTransactionApplied, "user_id", userID, "reason", opts.Reason, "revision", updated.Revision)
	return &Result{
		ItemsAdded:   toAdd.Clone(),
		ItemsRemoved: itemsToRemove.Clone(),
		NewBank:      updated.Bank.Clone(),
		Revision:     updated.Revision,
	}, nil
}

// record appends the audit entry and publishes the applied event. The bank
// write has already committed; failures here are logged, not returned.
func (s *service) record(ctx context.Context, userID string, added, removed domain.Bank, opts Options) {
	log := logger.FromContext(ctx)

	if s.txLog != nil {
		rec := &domain.TransactionRecord{
			UserID:       userID,
			ItemsAdded:   added.Clone(),
			ItemsRemoved: removed.Clone(),
			Reason:       opts.Reason,
			CreatedAt:    s.now(),
		}
		if err := s.txLog.Append(ctx, rec); err != nil {
			log.Warn(LogMsgAuditAppendFailed, "user_id", userID, "reason", opts.Reason, "error", err)
		}
	}

	if s.publisher != nil {
		evt := event.NewTransactionAppliedEvent(userID, added, removed, opts.Reason)
		if opts.CollectionLog {
			evt.Metadata = map[string]interface{}{
				"collection_log":  true,
				"temp_collection": !opts.DontAddToTempCL,
			}
		}
		if err := s.publisher.Publish(ctx, evt); err != nil {
			log.Warn("Failed to publish transaction event", "error", err)
		}
	}
}

// validateItems rejects non-positive and oversized quantities before any
// state is read.
func validateItems(items domain.Bank) error {
	for itemID, quantity := range items {
		if quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity %d", domain.ErrInvalidInput, itemID, quantity)
		}
		if quantity > domain.MaxTransactionQuantity {
			return fmt.Errorf("%w: item %d quantity %d exceeds maximum %d",
				domain.ErrInvalidInput, itemID, quantity, domain.MaxTransactionQuantity)
		}
	}
	return nil
}
