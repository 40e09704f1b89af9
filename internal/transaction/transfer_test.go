package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/item"
)

const (
	senderID   = "sender-1"
	receiverID = "receiver-1"
)

func tradeableCatalog() item.Catalog {
	return item.NewStaticCatalog(
		&domain.Item{ID: itemIDCoins, Name: "coins", Stackable: true, Tradeable: true},
		&domain.Item{ID: itemIDIronOre, Name: "iron ore", Tradeable: true},
		&domain.Item{ID: 13190, Name: "bond", Tradeable: false},
	)
}

func TestTransferItems_MovesItems(t *testing.T) {
	repo := NewFakeEconomyRepository()
	txLog := NewFakeTransactionLog()
	svc := NewService(repo, txLog, tradeableCatalog(), event.NewMemoryBus())

	repo.Seed(senderID, domain.Bank{itemIDCoins: 100, itemIDIronOre: 3})
	repo.Seed(receiverID, domain.Bank{})

	result, err := svc.TransferItems(context.Background(), senderID, receiverID,
		domain.Bank{itemIDCoins: 40, itemIDIronOre: 1})

	require.NoError(t, err)
	assert.Equal(t, domain.Bank{itemIDCoins: 40, itemIDIronOre: 1}, result.Items)

	sender, _ := repo.GetUserEconomy(context.Background(), senderID)
	receiver, _ := repo.GetUserEconomy(context.Background(), receiverID)
	assert.Equal(t, domain.Bank{itemIDCoins: 60, itemIDIronOre: 2}, sender.Bank)
	assert.Equal(t, domain.Bank{itemIDCoins: 40, itemIDIronOre: 1}, receiver.Bank)

	assert.Equal(t, []string{domain.TransactionReasonTransferOut}, txLog.ReasonsFor(senderID))
	assert.Equal(t, []string{domain.TransactionReasonTransferIn}, txLog.ReasonsFor(receiverID))
}

func TestTransferItems_RejectsSelfAndEmpty(t *testing.T) {
	svc := NewService(NewFakeEconomyRepository(), NewFakeTransactionLog(), tradeableCatalog(), event.NewMemoryBus())

	_, err := svc.TransferItems(context.Background(), senderID, senderID, domain.Bank{itemIDCoins: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.TransferItems(context.Background(), senderID, receiverID, domain.Bank{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransferItems_RejectsUntradeable(t *testing.T) {
	repo := NewFakeEconomyRepository()
	svc := NewService(repo, NewFakeTransactionLog(), tradeableCatalog(), event.NewMemoryBus())

	repo.Seed(senderID, domain.Bank{13190: 1})
	repo.Seed(receiverID, domain.Bank{})

	_, err := svc.TransferItems(context.Background(), senderID, receiverID, domain.Bank{13190: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotTradeable)
	assert.Contains(t, err.Error(), "bond")

	sender, _ := repo.GetUserEconomy(context.Background(), senderID)
	assert.Equal(t, domain.Bank{13190: 1}, sender.Bank, "rejected transfer must not debit")
}

func TestTransferItems_RejectsUnknownItem(t *testing.T) {
	repo := NewFakeEconomyRepository()
	svc := NewService(repo, NewFakeTransactionLog(), tradeableCatalog(), event.NewMemoryBus())

	repo.Seed(senderID, domain.Bank{99999: 1})

	_, err := svc.TransferItems(context.Background(), senderID, receiverID, domain.Bank{99999: 1})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestTransferItems_InsufficientFunds(t *testing.T) {
	repo := NewFakeEconomyRepository()
	svc := NewService(repo, NewFakeTransactionLog(), tradeableCatalog(), event.NewMemoryBus())

	repo.Seed(senderID, domain.Bank{itemIDCoins: 10})
	repo.Seed(receiverID, domain.Bank{})

	_, err := svc.TransferItems(context.Background(), senderID, receiverID, domain.Bank{itemIDCoins: 50})

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	receiver, _ := repo.GetUserEconomy(context.Background(), receiverID)
	assert.True(t, receiver.Bank.IsEmpty(), "failed transfer must not credit")
}

func TestTransferItems_RefundsSenderWhenCreditFails(t *testing.T) {
	repo := NewFakeEconomyRepository()
	txLog := NewFakeTransactionLog()
	svc := NewService(repo, txLog, tradeableCatalog(), event.NewMemoryBus())

	// Receiver does not exist, so the credit leg fails after the debit
	repo.Seed(senderID, domain.Bank{itemIDCoins: 100})

	_, err := svc.TransferItems(context.Background(), senderID, "ghost", domain.Bank{itemIDCoins: 40})

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgCreditFailed)

	sender, gerr := repo.GetUserEconomy(context.Background(), senderID)
	require.NoError(t, gerr)
	assert.Equal(t, 100, sender.Bank[itemIDCoins], "sender must be made whole")

	assert.Equal(t,
		[]string{domain.TransactionReasonTransferOut, domain.TransactionReasonTransferBack},
		txLog.ReasonsFor(senderID),
		"the audit trail should show the debit and the compensating refund")
}

func TestTransferItems_SurvivesOneRevisionRace(t *testing.T) {
	repo := NewFakeEconomyRepository()
	svc := NewService(repo, NewFakeTransactionLog(), tradeableCatalog(), event.NewMemoryBus())

	repo.Seed(senderID, domain.Bank{itemIDCoins: 100})
	repo.Seed(receiverID, domain.Bank{})
	repo.ConflictNext = true

	result, err := svc.TransferItems(context.Background(), senderID, receiverID, domain.Bank{itemIDCoins: 40})

	require.NoError(t, err, "a single lost race should be retried away")
	assert.Equal(t, domain.Bank{itemIDCoins: 40}, result.Items)

	sender, _ := repo.GetUserEconomy(context.Background(), senderID)
	receiver, _ := repo.GetUserEconomy(context.Background(), receiverID)
	assert.Equal(t, 60, sender.Bank[itemIDCoins])
	assert.Equal(t, 40, receiver.Bank[itemIDCoins])
}

func TestTransferItems_PublishesTransferEvent(t *testing.T) {
	repo := NewFakeEconomyRepository()
	bus := event.NewMemoryBus()
	svc := NewService(repo, NewFakeTransactionLog(), tradeableCatalog(), bus)

	repo.Seed(senderID, domain.Bank{itemIDCoins: 50})
	repo.Seed(receiverID, domain.Bank{})

	var received []event.Event
	bus.Subscribe(event.TransactionTransfer, func(ctx context.Context, evt event.Event) error {
		received = append(received, evt)
		return nil
	})

	_, err := svc.TransferItems(context.Background(), senderID, receiverID, domain.Bank{itemIDCoins: 25})
	require.NoError(t, err)

	require.Len(t, received, 1)
	payload, err := event.DecodePayload[event.TransferPayloadV1](received[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, senderID, payload.FromUserID)
	assert.Equal(t, receiverID, payload.ToUserID)
	assert.Equal(t, domain.Bank{itemIDCoins: 25}, payload.Items)
}

func TestTransferItems_RefundFailureIsLoud(t *testing.T) {
	repo := NewFakeEconomyRepository()
	txLog := NewFakeTransactionLog()
	svc := NewService(repo, txLog, tradeableCatalog(), event.NewMemoryBus())

	repo.Seed(senderID, domain.Bank{itemIDCoins: 100})

	// Debit is update 1; the credit fails on the missing receiver; the
	// refund is update 2 and trips the injected storage error.
	repo.UpdateErr = errors.New("storage offline")
	repo.UpdateErrAt = 2

	_, err := svc.TransferItems(context.Background(), senderID, "ghost", domain.Bank{itemIDCoins: 40})

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgRefundFailed)

	// The debit committed and the refund never landed: the reserved items
	// are gone from the sender until repaired by hand.
	sender, gerr := repo.GetUserEconomy(context.Background(), senderID)
	require.NoError(t, gerr)
	assert.Equal(t, 60, sender.Bank[itemIDCoins])
	assert.Equal(t, []string{domain.TransactionReasonTransferOut}, txLog.ReasonsFor(senderID))
}
