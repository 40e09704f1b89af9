package gear

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/transaction"
)

const testUserID = "user-123"

const (
	itemIDCoins   = 995
	itemIDIronOre = 440
	itemIDSword   = 1277
	itemIDShield  = 1171
	itemIDTwoHand = 1307
	itemIDScim    = 4587
	itemIDArrows  = 882
)

func slotPtr(slot domain.EquipmentSlot) *domain.EquipmentSlot {
	return &slot
}

func testCatalog() item.Catalog {
	return item.NewStaticCatalog(
		&domain.Item{ID: itemIDCoins, Name: "coins", Stackable: true, Tradeable: true},
		&domain.Item{ID: itemIDIronOre, Name: "iron ore", Tradeable: true},
		&domain.Item{ID: itemIDSword, Name: "sword", Tradeable: true, EquipSlot: slotPtr(domain.SlotWeapon)},
		&domain.Item{ID: itemIDShield, Name: "wooden shield", Tradeable: true, EquipSlot: slotPtr(domain.SlotShield)},
		&domain.Item{ID: itemIDTwoHand, Name: "two-handed axe", Tradeable: true, EquipSlot: slotPtr(domain.SlotTwoHanded)},
		&domain.Item{ID: itemIDScim, Name: "scimitar", Tradeable: true, EquipSlot: slotPtr(domain.SlotWeapon),
			Requirements: map[domain.Skill]int{domain.SkillAttack: 60}},
		&domain.Item{ID: itemIDArrows, Name: "arrows", Stackable: true, Tradeable: true, EquipSlot: slotPtr(domain.SlotAmmo)},
	)
}

func newTestService(repo *fakeEconomyRepository, presets *fakePresetRepository, confirmer Confirmer) Service {
	catalog := testCatalog()
	engine := transaction.NewService(repo, nil, catalog, nil)
	return NewService(catalog, repo, presets, engine, event.NewMemoryBus(), confirmer)
}

func seedUser(repo *fakeEconomyRepository, bank domain.Bank) {
	economy := domain.NewUserEconomy(testUserID)
	economy.Bank = bank
	repo.seed(economy)
}

func TestEquip_FromBank(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1, itemIDCoins: 50})

	outcome, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "sword", 1)

	require.NoError(t, err)
	require.Contains(t, outcome.Gear, domain.SlotWeapon)
	assert.Equal(t, itemIDSword, outcome.Gear[domain.SlotWeapon].Item)
	assert.Equal(t, domain.Bank{itemIDCoins: 50}, outcome.Bank)
	assert.True(t, outcome.Returned.IsEmpty())
	assert.Equal(t, int64(1), outcome.Revision, "gear and bank must move in one write")
}

func TestEquip_TwoHandedDisplacesWeaponAndShield(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1, itemIDShield: 1, itemIDTwoHand: 1})

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "sword", 1)
	require.NoError(t, err)
	_, err = svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "wooden shield", 1)
	require.NoError(t, err)

	outcome, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "two-handed axe", 1)

	require.NoError(t, err)
	assert.NotContains(t, outcome.Gear, domain.SlotWeapon)
	assert.NotContains(t, outcome.Gear, domain.SlotShield)
	assert.Equal(t, itemIDTwoHand, outcome.Gear[domain.SlotTwoHanded].Item)
	assert.Equal(t, domain.Bank{itemIDSword: 1, itemIDShield: 1}, outcome.Returned)
	assert.Equal(t, domain.Bank{itemIDSword: 1, itemIDShield: 1}, outcome.Bank)
}

func TestEquip_WeaponDisplacesTwoHanded(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1, itemIDTwoHand: 1})

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "two-handed axe", 1)
	require.NoError(t, err)

	outcome, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "sword", 1)

	require.NoError(t, err)
	assert.NotContains(t, outcome.Gear, domain.SlotTwoHanded)
	assert.Equal(t, itemIDSword, outcome.Gear[domain.SlotWeapon].Item)
	assert.Equal(t, domain.Bank{itemIDTwoHand: 1}, outcome.Returned)
}

func TestEquip_StackableAmmo(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDArrows: 500})

	outcome, err := svc.Equip(context.Background(), testUserID, domain.GearSetupRange, "arrows", 200)

	require.NoError(t, err)
	assert.Equal(t, 200, outcome.Gear[domain.SlotAmmo].Quantity)
	assert.Equal(t, domain.Bank{itemIDArrows: 300}, outcome.Bank)
}

func TestEquip_Failures(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)

	economy := domain.NewUserEconomy(testUserID)
	economy.Bank = domain.Bank{itemIDSword: 2, itemIDIronOre: 1, itemIDScim: 1}
	economy.Skills[domain.SkillAttack] = 40
	repo.seed(economy)

	tests := []struct {
		name     string
		itemName string
		quantity int
		wantErr  error
	}{
		{name: "unknown item", itemName: "banana", quantity: 1, wantErr: domain.ErrItemNotFound},
		{name: "not equipable", itemName: "iron ore", quantity: 1, wantErr: domain.ErrNotEquipable},
		{name: "stack of non-stackable", itemName: "sword", quantity: 2, wantErr: domain.ErrStackabilityViolation},
		{name: "zero quantity", itemName: "sword", quantity: 0, wantErr: domain.ErrInvalidInput},
		{name: "requirements not met", itemName: "scimitar", quantity: 1, wantErr: domain.ErrRequirementsNotMet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, tt.itemName, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// None of the failures may have committed anything
	stored, err := repo.GetUserEconomy(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.Revision)
}

func TestEquip_NotInBank(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{})

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "sword", 1)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestEquip_RejectedWhileBusy(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)

	economy := domain.NewUserEconomy(testUserID)
	economy.Bank = domain.Bank{itemIDSword: 1}
	economy.Busy = true
	repo.seed(economy)

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "sword", 1)

	assert.ErrorIs(t, err, domain.ErrUserBusy)
}

func TestEquip_BusyWinsOverItemLookup(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)

	economy := domain.NewUserEconomy(testUserID)
	economy.Busy = true
	repo.seed(economy)

	// The item does not exist, but the busy check runs first
	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "banana", 1)

	assert.ErrorIs(t, err, domain.ErrUserBusy)
	assert.NotErrorIs(t, err, domain.ErrItemNotFound)
}

func TestSwap_BusyRejectedWithoutPrompting(t *testing.T) {
	repo := newFakeEconomyRepository()

	prompted := false
	svc := newTestService(repo, newFakePresetRepository(), funcConfirmer{fn: func() { prompted = true }})

	economy := domain.NewUserEconomy(testUserID)
	economy.Busy = true
	repo.seed(economy)

	_, err := svc.Swap(context.Background(), testUserID, domain.GearSetupMelee, domain.GearSetupWildy)

	assert.ErrorIs(t, err, domain.ErrUserBusy)
	assert.False(t, prompted, "a busy user must not see the wildy prompt")
}

func TestEquip_WildyDeclined(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), declineConfirmer{})
	seedUser(repo, domain.Bank{itemIDSword: 1})

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupWildy, "sword", 1)

	assert.ErrorIs(t, err, domain.ErrConfirmationDeclined)

	stored, _ := repo.GetUserEconomy(context.Background(), testUserID)
	assert.Equal(t, domain.Bank{itemIDSword: 1}, stored.Bank, "declined prompt must not change state")
}

func TestEquip_WildyStaleConfirmationFailsCleanly(t *testing.T) {
	repo := newFakeEconomyRepository()

	// While the prompt is open, the sword leaves the bank.
	confirmer := funcConfirmer{fn: func() {
		repo.mutate(testUserID, func(e *domain.UserEconomy) {
			delete(e.Bank, itemIDSword)
		})
	}}
	svc := newTestService(repo, newFakePresetRepository(), confirmer)
	seedUser(repo, domain.Bank{itemIDSword: 1})

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupWildy, "sword", 1)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds,
		"preconditions must be re-checked after the prompt resolves")

	stored, _ := repo.GetUserEconomy(context.Background(), testUserID)
	assert.Empty(t, stored.GearFor(domain.GearSetupWildy))
}

func TestUnequip_ReturnsItem(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1})

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "sword", 1)
	require.NoError(t, err)

	outcome, err := svc.Unequip(context.Background(), testUserID, domain.GearSetupMelee, "sword")

	require.NoError(t, err)
	assert.NotContains(t, outcome.Gear, domain.SlotWeapon)
	assert.Equal(t, domain.Bank{itemIDSword: 1}, outcome.Bank)
	assert.Equal(t, domain.Bank{itemIDSword: 1}, outcome.Returned)
}

func TestUnequip_NotWorn(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1})

	_, err := svc.Unequip(context.Background(), testUserID, domain.GearSetupMelee, "sword")

	assert.ErrorIs(t, err, domain.ErrSlotEmpty)
}

func TestUnequipAll(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1, itemIDShield: 1, itemIDArrows: 100})

	for _, name := range []string{"sword", "wooden shield"} {
		_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, name, 1)
		require.NoError(t, err)
	}
	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "arrows", 100)
	require.NoError(t, err)

	outcome, err := svc.UnequipAll(context.Background(), testUserID, domain.GearSetupMelee)

	require.NoError(t, err)
	assert.Empty(t, outcome.Gear)
	assert.Equal(t, domain.Bank{itemIDSword: 1, itemIDShield: 1, itemIDArrows: 100}, outcome.Bank)
}

func TestUnequipAll_EmptySetup(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{})

	_, err := svc.UnequipAll(context.Background(), testUserID, domain.GearSetupMelee)

	assert.ErrorIs(t, err, domain.ErrSlotEmpty)
}

func TestSwap_ExchangesLoadouts(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1})

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "sword", 1)
	require.NoError(t, err)

	outcome, err := svc.Swap(context.Background(), testUserID, domain.GearSetupMelee, domain.GearSetupSkilling)

	require.NoError(t, err)
	assert.Empty(t, outcome.Gear, "melee should now hold skilling's empty loadout")

	stored, _ := repo.GetUserEconomy(context.Background(), testUserID)
	assert.Empty(t, stored.GearFor(domain.GearSetupMelee))
	skilling := stored.GearFor(domain.GearSetupSkilling)
	require.Contains(t, skilling, domain.SlotWeapon)
	assert.Equal(t, itemIDSword, skilling[domain.SlotWeapon].Item)
}

func TestSwap_SameSetupRejected(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{})

	_, err := svc.Swap(context.Background(), testUserID, domain.GearSetupMelee, domain.GearSetupMelee)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSwap_WildyRequiresConfirmation(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), declineConfirmer{})
	seedUser(repo, domain.Bank{})

	_, err := svc.Swap(context.Background(), testUserID, domain.GearSetupMelee, domain.GearSetupWildy)

	assert.ErrorIs(t, err, domain.ErrConfirmationDeclined)
}

func TestView(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1, itemIDCoins: 25})

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "sword", 1)
	require.NoError(t, err)

	outcome, err := svc.View(context.Background(), testUserID, domain.GearSetupMelee)

	require.NoError(t, err)
	assert.Equal(t, itemIDSword, outcome.Gear[domain.SlotWeapon].Item)
	assert.Equal(t, domain.Bank{itemIDCoins: 25}, outcome.Bank)
}
