package transaction

import (
	"context"
	"fmt"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/metrics"
)

// TransferItems moves items between two users' banks. The sender is debited
// first so the items are reserved; if crediting the receiver then fails,
// a compensating refund returns them to the sender. Items are never
// duplicated, and only lost if the refund itself fails, which is logged
// loudly for manual repair.
func (s *service) TransferItems(ctx context.Context, fromUserID, toUserID string, items domain.Bank) (*TransferResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgTransferItemsCalled, "from", fromUserID, "to", toUserID, "items", items.TotalItems())

	// 1. Validate
	if fromUserID == toUserID {
		return nil, fmt.Errorf("%w: cannot transfer to self", domain.ErrInvalidInput)
	}
	if items.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to transfer", domain.ErrInvalidInput)
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	// 2. Every transferred item must be tradeable
	if s.catalog != nil {
		for itemID := range items {
			it := s.catalog.GetItem(itemID)
			if it == nil {
				return nil, fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
			}
			if !it.Tradeable {
				return nil, fmt.Errorf("%w: %s", domain.ErrNotTradeable, it.Name)
			}
		}
	}

	// 3. Debit the sender, reserving the items
	var debit *Result
	err := RetryOnConflict(ctx, func(ctx context.Context) error {
		var err error
		debit, err = s.ApplyTransaction(ctx, fromUserID, items, nil, Options{Reason: domain.TransactionReasonTransferOut})
		return err
	})
	if err != nil {
		return nil, err
	}

	// 4. Credit the receiver
	var credit *Result
	err = RetryOnConflict(ctx, func(ctx context.Context) error {
		var err error
		credit, err = s.ApplyTransaction(ctx, toUserID, nil, items, Options{Reason: domain.TransactionReasonTransferIn})
		return err
	})
	if err != nil {
		// 5. Compensate: return the reserved items to the sender
		refundErr := RetryOnConflict(ctx, func(ctx context.Context) error {
			_, rerr := s.ApplyTransaction(ctx, fromUserID, nil, items, Options{Reason: domain.TransactionReasonTransferBack})
			return rerr
		})
		if refundErr != nil {
			log.Error(LogMsgRefundFailed, "from", fromUserID, "items", items.String(),
				"credit_error", err, "refund_error", refundErr)
			return nil, fmt.Errorf("%s: %w", ErrMsgRefundFailed, refundErr)
		}
		metrics.TransferRefunds.Inc()
		log.Warn(LogMsgRefundIssued, "from", fromUserID, "to", toUserID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrMsgCreditFailed, err)
	}

	if s.publisher != nil {
		if perr := s.publisher.Publish(ctx, event.NewTransferEvent(fromUserID, toUserID, items)); perr != nil {
			log.Warn("Failed to publish transfer event", "error", perr)
		}
	}

	log.Info(LogMsgTransferCompleted, "from", fromUserID, "to", toUserID, "items", items.TotalItems())
	return &TransferResult{
		Items:        items.Clone(),
		FromRevision: debit.Revision,
		ToRevision:   credit.Revision,
	}, nil
}
