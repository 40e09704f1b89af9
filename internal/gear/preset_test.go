package gear

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

func meleePreset() domain.Gear {
	return domain.Gear{
		domain.SlotWeapon: {Item: itemIDSword, Quantity: 1},
		domain.SlotShield: {Item: itemIDShield, Quantity: 1},
	}
}

func TestSavePreset_Validation(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{})

	tests := []struct {
		name    string
		preset  string
		layout  domain.Gear
		wantErr error
	}{
		{
			name:    "empty name",
			preset:  "   ",
			layout:  meleePreset(),
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "name too long",
			preset:  strings.Repeat("x", MaxPresetNameLength+1),
			layout:  meleePreset(),
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown item",
			preset:  "bad",
			layout:  domain.Gear{domain.SlotWeapon: {Item: 99999, Quantity: 1}},
			wantErr: domain.ErrItemNotFound,
		},
		{
			name:    "item in wrong slot",
			preset:  "bad",
			layout:  domain.Gear{domain.SlotHead: {Item: itemIDSword, Quantity: 1}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "stack of non-stackable",
			preset:  "bad",
			layout:  domain.Gear{domain.SlotWeapon: {Item: itemIDSword, Quantity: 3}},
			wantErr: domain.ErrStackabilityViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SavePreset(context.Background(), testUserID, tt.preset, tt.layout)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSavePreset_DoesNotRequireOwnership(t *testing.T) {
	repo := newFakeEconomyRepository()
	presets := newFakePresetRepository()
	svc := newTestService(repo, presets, nil)
	seedUser(repo, domain.Bank{})

	// The bank is empty; affordability is checked at equip time instead.
	err := svc.SavePreset(context.Background(), testUserID, "melee", meleePreset())

	require.NoError(t, err)
	saved, err := presets.GetPreset(context.Background(), testUserID, "melee")
	require.NoError(t, err)
	assert.Equal(t, itemIDSword, saved.Gear[domain.SlotWeapon].Item)
}

func TestEquipPreset_FromBank(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1, itemIDShield: 1, itemIDCoins: 10})

	require.NoError(t, svc.SavePreset(context.Background(), testUserID, "melee", meleePreset()))

	outcome, err := svc.EquipPreset(context.Background(), testUserID, domain.GearSetupMelee, "melee")

	require.NoError(t, err)
	assert.Equal(t, itemIDSword, outcome.Gear[domain.SlotWeapon].Item)
	assert.Equal(t, itemIDShield, outcome.Gear[domain.SlotShield].Item)
	assert.Equal(t, domain.Bank{itemIDCoins: 10}, outcome.Bank)
}

func TestEquipPreset_DrawsFromWornGear(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)

	// Only one sword exists and it is already equipped; the preset must
	// count it rather than demand a second copy from the bank.
	seedUser(repo, domain.Bank{itemIDSword: 1, itemIDShield: 1})
	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "sword", 1)
	require.NoError(t, err)

	require.NoError(t, svc.SavePreset(context.Background(), testUserID, "melee", meleePreset()))

	outcome, err := svc.EquipPreset(context.Background(), testUserID, domain.GearSetupMelee, "melee")

	require.NoError(t, err)
	assert.Equal(t, itemIDSword, outcome.Gear[domain.SlotWeapon].Item)
	assert.Equal(t, itemIDShield, outcome.Gear[domain.SlotShield].Item)
	assert.True(t, outcome.Bank.IsEmpty())
}

func TestEquipPreset_DisplacedGearReturnsToBank(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1, itemIDShield: 1, itemIDTwoHand: 1})

	_, err := svc.Equip(context.Background(), testUserID, domain.GearSetupMelee, "two-handed axe", 1)
	require.NoError(t, err)

	require.NoError(t, svc.SavePreset(context.Background(), testUserID, "melee", meleePreset()))

	outcome, err := svc.EquipPreset(context.Background(), testUserID, domain.GearSetupMelee, "melee")

	require.NoError(t, err)
	assert.Equal(t, domain.Bank{itemIDTwoHand: 1}, outcome.Bank,
		"the displaced two-hander must return to the bank")
	assert.Equal(t, domain.Bank{itemIDTwoHand: 1}, outcome.Returned)
}

func TestEquipPreset_MissingItems(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDSword: 1})

	require.NoError(t, svc.SavePreset(context.Background(), testUserID, "melee", meleePreset()))

	_, err := svc.EquipPreset(context.Background(), testUserID, domain.GearSetupMelee, "melee")

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestEquipPreset_BusyWinsOverPresetLookup(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)

	economy := domain.NewUserEconomy(testUserID)
	economy.Busy = true
	repo.seed(economy)

	// No such preset exists, but the busy check runs first
	_, err := svc.EquipPreset(context.Background(), testUserID, domain.GearSetupMelee, "ghost")

	assert.ErrorIs(t, err, domain.ErrUserBusy)
	assert.NotErrorIs(t, err, domain.ErrPresetNotFound)
}

func TestEquipPreset_NotFound(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{})

	_, err := svc.EquipPreset(context.Background(), testUserID, domain.GearSetupMelee, "ghost")

	assert.ErrorIs(t, err, domain.ErrPresetNotFound)
}

func TestEquipPreset_RequirementsChecked(t *testing.T) {
	repo := newFakeEconomyRepository()
	svc := newTestService(repo, newFakePresetRepository(), nil)
	seedUser(repo, domain.Bank{itemIDScim: 1})

	layout := domain.Gear{domain.SlotWeapon: {Item: itemIDScim, Quantity: 1}}
	require.NoError(t, svc.SavePreset(context.Background(), testUserID, "scim", layout))

	_, err := svc.EquipPreset(context.Background(), testUserID, domain.GearSetupMelee, "scim")

	assert.ErrorIs(t, err, domain.ErrRequirementsNotMet)
}

func TestDeletePreset(t *testing.T) {
	repo := newFakeEconomyRepository()
	presets := newFakePresetRepository()
	svc := newTestService(repo, presets, nil)
	seedUser(repo, domain.Bank{})

	require.NoError(t, svc.SavePreset(context.Background(), testUserID, "melee", meleePreset()))
	require.NoError(t, svc.DeletePreset(context.Background(), testUserID, "melee"))

	_, err := presets.GetPreset(context.Background(), testUserID, "melee")
	assert.ErrorIs(t, err, domain.ErrPresetNotFound)
}
