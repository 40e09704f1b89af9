package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

func TestHandleEquip_FromBank(t *testing.T) {
	env := newTestEnv(t)
	env.seedBank(domain.Bank{itemIDSword: 1})
	h := HandleEquip(env.users, env.gears, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/gear/equip", EquipRequest{
		Identity: testIdentity(),
		Setup:    "melee",
		Item:     "bronze sword",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[GearResponse](t, rec)
	assert.Equal(t, "melee", resp.Setup)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "weapon", resp.Slots[0].Slot)
	assert.Equal(t, "bronze sword", resp.Slots[0].Item)
	assert.Empty(t, env.bank(t), "equipped item left the bank")
}

func TestHandleEquip_NotInBank(t *testing.T) {
	env := newTestEnv(t)
	h := HandleEquip(env.users, env.gears, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/gear/equip", EquipRequest{
		Identity: testIdentity(),
		Setup:    "melee",
		Item:     "bronze sword",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgNotEnoughItemsError, resp.Error)
}

func TestHandleEquip_RejectedWhileBusy(t *testing.T) {
	env := newTestEnv(t)
	env.seedBank(domain.Bank{itemIDSword: 1})
	env.repo.MutateEconomy(env.userID, func(economy *domain.UserEconomy) {
		economy.Busy = true
	})
	h := HandleEquip(env.users, env.gears, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/gear/equip", EquipRequest{
		Identity: testIdentity(),
		Setup:    "melee",
		Item:     "bronze sword",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgUserBusyError, resp.Error)
}

func TestHandleEquip_InvalidSetup(t *testing.T) {
	env := newTestEnv(t)
	h := HandleEquip(env.users, env.gears, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/gear/equip", EquipRequest{
		Identity: testIdentity(),
		Setup:    "pvp",
		Item:     "bronze sword",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUnequip_ReturnsItem(t *testing.T) {
	env := newTestEnv(t)
	env.seedBank(domain.Bank{itemIDSword: 1})
	equipRec := doJSON(t, HandleEquip(env.users, env.gears, env.catalog),
		http.MethodPost, "/gear/equip", EquipRequest{
			Identity: testIdentity(), Setup: "melee", Item: "bronze sword",
		})
	require.Equal(t, http.StatusOK, equipRec.Code)

	rec := doJSON(t, HandleUnequip(env.users, env.gears, env.catalog),
		http.MethodPost, "/gear/unequip", UnequipRequest{
			Identity: testIdentity(), Setup: "melee", Item: "bronze sword",
		})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[GearResponse](t, rec)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, domain.Bank{itemIDSword: 1}, env.bank(t))
}

func TestHandleUnequipAll_EmptySetup(t *testing.T) {
	env := newTestEnv(t)
	h := HandleUnequipAll(env.users, env.gears, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/gear/unequip-all", UnequipAllRequest{
		Identity: testIdentity(),
		Setup:    "melee",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgSlotEmptyError, resp.Error)
}

func TestHandleSwap_ExchangesLoadouts(t *testing.T) {
	env := newTestEnv(t)
	env.seedBank(domain.Bank{itemIDSword: 1})
	equipRec := doJSON(t, HandleEquip(env.users, env.gears, env.catalog),
		http.MethodPost, "/gear/equip", EquipRequest{
			Identity: testIdentity(), Setup: "melee", Item: "bronze sword",
		})
	require.Equal(t, http.StatusOK, equipRec.Code)

	rec := doJSON(t, HandleSwap(env.users, env.gears, env.catalog),
		http.MethodPost, "/gear/swap", SwapRequest{
			Identity: testIdentity(), First: "melee", Second: "range",
		})

	require.Equal(t, http.StatusOK, rec.Code)

	viewRec := doJSON(t, HandleViewGear(env.users, env.gears, env.catalog),
		http.MethodGet, "/gear/view?platform=twitch&platform_id=tw-1&setup=range", nil)
	require.Equal(t, http.StatusOK, viewRec.Code)
	view := decodeBody[GearResponse](t, viewRec)
	require.Len(t, view.Slots, 1)
	assert.Equal(t, "bronze sword", view.Slots[0].Item)
}

func TestHandleViewGear_InvalidSetup(t *testing.T) {
	env := newTestEnv(t)
	h := HandleViewGear(env.users, env.gears, env.catalog)

	rec := doJSON(t, h, http.MethodGet,
		"/gear/view?platform=twitch&platform_id=tw-1&setup=pvp", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSavePreset_AndEquip(t *testing.T) {
	env := newTestEnv(t)
	env.seedBank(domain.Bank{itemIDSword: 1, itemIDShield: 1})

	saveRec := doJSON(t, HandleSavePreset(env.users, env.gears, env.catalog),
		http.MethodPost, "/gear/preset/save", SavePresetRequest{
			Identity: testIdentity(),
			Name:     "basic melee",
			Items: []ItemStack{
				{Item: "bronze sword", Quantity: 1},
				{Item: "wooden shield", Quantity: 1},
			},
		})
	require.Equal(t, http.StatusCreated, saveRec.Code)

	rec := doJSON(t, HandleEquipPreset(env.users, env.gears, env.catalog),
		http.MethodPost, "/gear/preset", EquipPresetRequest{
			Identity: testIdentity(),
			Setup:    "melee",
			Name:     "basic melee",
		})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[GearResponse](t, rec)
	assert.Len(t, resp.Slots, 2)
	assert.Empty(t, env.bank(t))
}

func TestHandleSavePreset_ConflictingSlots(t *testing.T) {
	env := newTestEnv(t)
	h := HandleSavePreset(env.users, env.gears, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/gear/preset/save", SavePresetRequest{
		Identity: testIdentity(),
		Name:     "double sword",
		Items: []ItemStack{
			{Item: "bronze sword", Quantity: 1},
			{Item: "bronze sword", Quantity: 1},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleEquipPreset_NotFound(t *testing.T) {
	env := newTestEnv(t)
	h := HandleEquipPreset(env.users, env.gears, env.catalog)

	rec := doJSON(t, h, http.MethodPost, "/gear/preset", EquipPresetRequest{
		Identity: testIdentity(),
		Setup:    "melee",
		Name:     "missing",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgPresetNotFoundError, resp.Error)
}
