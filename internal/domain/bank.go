package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Bank is a multiset of items keyed by item ID. Quantities are always
// strictly positive: an entry that reaches zero is removed, never stored.
// A Bank is a plain value; two goroutines must not share one without
// cloning it first.
type Bank map[int]int

// NewBank creates an empty bank.
func NewBank() Bank {
	return make(Bank)
}

// Add merges quantity of the given item into the bank.
// Quantity must be positive. Addition past the safe integer range
// fails with ErrOverflow instead of wrapping.
func (b Bank) Add(itemID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, quantity)
	}
	if b[itemID] > math.MaxInt64-quantity {
		return fmt.Errorf("%w: item %d", ErrOverflow, itemID)
	}
	b[itemID] += quantity
	return nil
}

// Remove subtracts quantity of the given item. An absent item counts as
// quantity 0. The entry is deleted entirely when it reaches zero.
func (b Bank) Remove(itemID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, quantity)
	}
	have := b[itemID]
	if have < quantity {
		return fmt.Errorf("%w: item %d (have %d, need %d)", ErrInsufficientQuantity, itemID, have, quantity)
	}
	if have == quantity {
		delete(b, itemID)
		return nil
	}
	b[itemID] = have - quantity
	return nil
}

// AddBank merges every entry of other into the bank.
func (b Bank) AddBank(other Bank) error {
	for itemID, quantity := range other {
		if err := b.Add(itemID, quantity); err != nil {
			return err
		}
	}
	return nil
}

// RemoveBank subtracts every entry of other from the bank.
// Callers should check Has first; a partial failure leaves the bank
// in an undefined state, so this is only safe on a clone or after Has.
func (b Bank) RemoveBank(other Bank) error {
	if !b.Has(other) {
		return fmt.Errorf("%w: missing %s", ErrInsufficientQuantity, b.Missing(other))
	}
	for itemID, quantity := range other {
		if err := b.Remove(itemID, quantity); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether the bank contains at least the quantities of every
// item in other.
func (b Bank) Has(other Bank) bool {
	for itemID, quantity := range other {
		if b[itemID] < quantity {
			return false
		}
	}
	return true
}

// Missing returns the items of other that this bank cannot cover, with the
// full required quantities. Used to name missing items in error messages.
func (b Bank) Missing(other Bank) Bank {
	missing := NewBank()
	for itemID, quantity := range other {
		if b[itemID] < quantity {
			missing[itemID] = quantity
		}
	}
	return missing
}

// Clone returns an independent copy of the bank.
func (b Bank) Clone() Bank {
	clone := make(Bank, len(b))
	for itemID, quantity := range b {
		clone[itemID] = quantity
	}
	return clone
}

// IsEmpty reports whether the bank holds no items.
func (b Bank) IsEmpty() bool {
	return len(b) == 0
}

// TotalItems returns the sum of all quantities.
func (b Bank) TotalItems() int {
	total := 0
	for _, quantity := range b {
		total += quantity
	}
	return total
}

// Equals reports whether two banks hold exactly the same items and quantities.
func (b Bank) Equals(other Bank) bool {
	if len(b) != len(other) {
		return false
	}
	for itemID, quantity := range b {
		if other[itemID] != quantity {
			return false
		}
	}
	return true
}

// Validate checks the invariant that every entry is strictly positive.
// A violation means the stored state is corrupt and must be surfaced
// loudly, never silently repaired.
func (b Bank) Validate() error {
	for itemID, quantity := range b {
		if quantity <= 0 {
			return fmt.Errorf("%w: item %d has quantity %d", ErrInvalidBankState, itemID, quantity)
		}
	}
	return nil
}

// UnmarshalJSON loads the persisted item-id -> quantity mapping and rejects
// corrupt entries with ErrInvalidBankState.
func (b *Bank) UnmarshalJSON(data []byte) error {
	var raw map[int]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBankState, err)
	}
	bank := Bank(raw)
	if bank == nil {
		bank = NewBank()
	}
	if err := bank.Validate(); err != nil {
		return err
	}
	*b = bank
	return nil
}

// String renders the bank as "Nx item-id" pairs in item-ID order,
// for log lines and user-facing error messages.
func (b Bank) String() string {
	if len(b) == 0 {
		return "nothing"
	}
	ids := make([]int, 0, len(b))
	for itemID := range b {
		ids = append(ids, itemID)
	}
	sort.Ints(ids)
	parts := make([]string, 0, len(ids))
	for _, itemID := range ids {
		parts = append(parts, fmt.Sprintf("%dx %d", b[itemID], itemID))
	}
	return strings.Join(parts, ", ")
}
