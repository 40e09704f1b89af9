package domain

import "time"

// Transaction reason tags recorded in the audit log.
const (
	TransactionReasonGearEquip    = "gear.equip"
	TransactionReasonGearUnequip  = "gear.unequip"
	TransactionReasonGearPreset   = "gear.preset"
	TransactionReasonGearSwap     = "gear.swap"
	TransactionReasonTransferOut  = "transfer.out"
	TransactionReasonTransferIn   = "transfer.in"
	TransactionReasonTransferBack = "transfer.refund"
	TransactionReasonActivityCost   = "activity.cost"
	TransactionReasonActivityLoot   = "activity.loot"
	TransactionReasonActivityRefund = "activity.refund"
)

// TransactionRecord is an immutable, append-only audit entry for one
// applied bank transaction. Records are written after the state change
// commits and are never mutated; they exist for reconciliation.
type TransactionRecord struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	ItemsAdded   Bank      `json:"items_added"`
	ItemsRemoved Bank      `json:"items_removed"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}
