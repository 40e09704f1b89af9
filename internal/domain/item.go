package domain

// Skill represents a trainable skill that gear can require.
type Skill string

const (
	SkillAttack    Skill = "attack"
	SkillStrength  Skill = "strength"
	SkillDefence   Skill = "defence"
	SkillRanged    Skill = "ranged"
	SkillMagic     Skill = "magic"
	SkillPrayer    Skill = "prayer"
	SkillHitpoints Skill = "hitpoints"
)

// Item represents a catalog item. Catalog data is immutable at runtime;
// an Item is shared freely across goroutines without locking.
type Item struct {
	ID           int            `json:"item_id"`
	Name         string         `json:"name"`
	Stackable    bool           `json:"stackable"`
	Tradeable    bool           `json:"tradeable"`
	BaseValue    int            `json:"base_value"`
	EquipSlot    *EquipmentSlot `json:"equip_slot,omitempty"`
	Requirements map[Skill]int  `json:"requirements,omitempty"`
}

// Equipable reports whether the item can be worn at all.
func (i *Item) Equipable() bool {
	return i.EquipSlot != nil
}

// MeetsRequirements reports whether the given skill levels satisfy the
// item's equip requirements. Items without requirements always pass.
func (i *Item) MeetsRequirements(skills map[Skill]int) bool {
	for skill, level := range i.Requirements {
		if skills[skill] < level {
			return false
		}
	}
	return true
}
