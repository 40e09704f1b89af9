package domain

import (
	"encoding/json"
	"fmt"
)

// EquipmentSlot names a position on the worn-gear record.
type EquipmentSlot string

const (
	SlotHead      EquipmentSlot = "head"
	SlotCape      EquipmentSlot = "cape"
	SlotNeck      EquipmentSlot = "neck"
	SlotAmmo      EquipmentSlot = "ammo"
	SlotBody      EquipmentSlot = "body"
	SlotLegs      EquipmentSlot = "legs"
	SlotHands     EquipmentSlot = "hands"
	SlotFeet      EquipmentSlot = "feet"
	SlotWeapon    EquipmentSlot = "weapon"
	SlotShield    EquipmentSlot = "shield"
	SlotTwoHanded EquipmentSlot = "2h"
	SlotRing      EquipmentSlot = "ring"
)

// AllEquipmentSlots returns every slot in display order.
func AllEquipmentSlots() []EquipmentSlot {
	return []EquipmentSlot{
		SlotHead, SlotCape, SlotNeck, SlotAmmo, SlotBody, SlotLegs,
		SlotHands, SlotFeet, SlotWeapon, SlotShield, SlotTwoHanded, SlotRing,
	}
}

// GearSetupType is the closed set of gear loadouts a user owns.
// Parsing at the boundary eliminates invalid-setup-string bugs.
type GearSetupType string

const (
	GearSetupMelee    GearSetupType = "melee"
	GearSetupRange    GearSetupType = "range"
	GearSetupMage     GearSetupType = "mage"
	GearSetupSkilling GearSetupType = "skilling"
	GearSetupWildy    GearSetupType = "wildy"
	GearSetupOther    GearSetupType = "other"
)

// AllGearSetupTypes returns every valid setup kind.
func AllGearSetupTypes() []GearSetupType {
	return []GearSetupType{
		GearSetupMelee, GearSetupRange, GearSetupMage,
		GearSetupSkilling, GearSetupWildy, GearSetupOther,
	}
}

// ParseGearSetupType validates a raw setup string.
func ParseGearSetupType(raw string) (GearSetupType, error) {
	setup := GearSetupType(raw)
	switch setup {
	case GearSetupMelee, GearSetupRange, GearSetupMage,
		GearSetupSkilling, GearSetupWildy, GearSetupOther:
		return setup, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGearSetup, raw)
}

// GearSlotItem is the occupant of a single gear slot. Quantity is 1 for
// everything except the ammo slot and stackable weapons.
type GearSlotItem struct {
	Item     int `json:"item"`
	Quantity int `json:"quantity"`
}

// Gear is one equipment loadout: each slot holds nil or a single occupant.
// All operations are pure - they return a new Gear and never mutate the
// receiver, so a displaced item is always handed back to the caller as a
// refund Bank rather than silently destroyed.
type Gear map[EquipmentSlot]*GearSlotItem

// NewGear creates an empty loadout.
func NewGear() Gear {
	return make(Gear)
}

// Clone returns an independent copy of the gear record.
func (g Gear) Clone() Gear {
	clone := make(Gear, len(g))
	for slot, occupant := range g {
		if occupant == nil {
			continue
		}
		copied := *occupant
		clone[slot] = &copied
	}
	return clone
}

// EquipResult is the outcome of a successful Equip: the new loadout plus
// every displaced item, refunded to the caller.
type EquipResult struct {
	NewGear Gear
	Refund  Bank
}

// Equip places the item into its declared slot and returns the displaced
// occupants. Two-handed weapons clear both weapon and shield; equipping
// into weapon or shield clears the two-handed slot.
func (g Gear) Equip(item *Item, quantity int) (*EquipResult, error) {
	if item == nil || !item.Equipable() {
		return nil, ErrNotEquipable
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if quantity > 1 && !item.Stackable {
		return nil, fmt.Errorf("%w: cannot equip %d of %s", ErrStackabilityViolation, quantity, item.Name)
	}

	target := *item.EquipSlot
	newGear := g.Clone()
	refund := NewBank()

	displaced := []EquipmentSlot{target}
	switch target {
	case SlotTwoHanded:
		displaced = append(displaced, SlotWeapon, SlotShield)
	case SlotWeapon, SlotShield:
		displaced = append(displaced, SlotTwoHanded)
	}

	for _, slot := range displaced {
		occupant := newGear[slot]
		if occupant == nil {
			continue
		}
		qty := occupant.Quantity
		if qty < 1 {
			qty = 1
		}
		if err := refund.Add(occupant.Item, qty); err != nil {
			return nil, err
		}
		delete(newGear, slot)
	}

	newGear[target] = &GearSlotItem{Item: item.ID, Quantity: quantity}
	return &EquipResult{NewGear: newGear, Refund: refund}, nil
}

// UnequipResult is the outcome of a successful Unequip.
type UnequipResult struct {
	NewGear  Gear
	Returned Bank
}

// Unequip removes the occupant of the given slot and returns it.
func (g Gear) Unequip(slot EquipmentSlot) (*UnequipResult, error) {
	occupant := g[slot]
	if occupant == nil {
		return nil, fmt.Errorf("%w: %s", ErrSlotEmpty, slot)
	}
	newGear := g.Clone()
	delete(newGear, slot)

	returned := NewBank()
	qty := occupant.Quantity
	if qty < 1 {
		qty = 1
	}
	if err := returned.Add(occupant.Item, qty); err != nil {
		return nil, err
	}
	return &UnequipResult{NewGear: newGear, Returned: returned}, nil
}

// UnequipAll strips every slot and returns the former occupants.
func (g Gear) UnequipAll() (Gear, Bank) {
	returned := g.AllItems()
	return NewGear(), returned
}

// SlotOf returns the slot currently holding the given item, or "" if the
// item is not equipped. An item occupies at most one slot at a time.
func (g Gear) SlotOf(itemID int) (EquipmentSlot, bool) {
	for slot, occupant := range g {
		if occupant != nil && occupant.Item == itemID {
			return slot, true
		}
	}
	return "", false
}

// HasEquipped reports whether the item is worn anywhere in this loadout.
// With exact set, the equipped quantity must match quantity exactly;
// otherwise any equipped quantity of at least quantity passes.
func (g Gear) HasEquipped(itemID, quantity int, exact bool) bool {
	for _, occupant := range g {
		if occupant == nil || occupant.Item != itemID {
			continue
		}
		qty := occupant.Quantity
		if qty < 1 {
			qty = 1
		}
		if exact {
			return qty == quantity
		}
		return qty >= quantity
	}
	return false
}

// AllItems collects every occupant into a Bank.
func (g Gear) AllItems() Bank {
	items := NewBank()
	for _, occupant := range g {
		if occupant == nil {
			continue
		}
		qty := occupant.Quantity
		if qty < 1 {
			qty = 1
		}
		// Add cannot overflow here: occupants were validated on the way in.
		_ = items.Add(occupant.Item, qty)
	}
	return items
}

// ToMapping returns a read-only projection of slot -> occupant for
// rendering and persistence.
func (g Gear) ToMapping() map[EquipmentSlot]GearSlotItem {
	mapping := make(map[EquipmentSlot]GearSlotItem, len(g))
	for slot, occupant := range g {
		if occupant != nil {
			mapping[slot] = *occupant
		}
	}
	return mapping
}

// Validate checks that every occupant has a positive quantity.
func (g Gear) Validate() error {
	for slot, occupant := range g {
		if occupant == nil {
			continue
		}
		if occupant.Quantity <= 0 {
			return fmt.Errorf("%w: slot %s has quantity %d", ErrInvalidBankState, slot, occupant.Quantity)
		}
	}
	return nil
}

// UnmarshalJSON loads a persisted loadout and rejects corrupt occupants.
func (g *Gear) UnmarshalJSON(data []byte) error {
	var raw map[EquipmentSlot]*GearSlotItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBankState, err)
	}
	gear := Gear(raw)
	if gear == nil {
		gear = NewGear()
	}
	if err := gear.Validate(); err != nil {
		return err
	}
	*g = gear
	return nil
}
