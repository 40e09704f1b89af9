package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/gear"
	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/user"
)

// GearSlotView is one occupied slot with the item name resolved.
type GearSlotView struct {
	Slot     string `json:"slot"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// GearResponse describes a loadout after a gear operation.
type GearResponse struct {
	Setup    string         `json:"setup"`
	Slots    []GearSlotView `json:"slots"`
	Returned []ItemStack    `json:"returned,omitempty"`
	Bank     []ItemStack    `json:"bank,omitempty"`
	Revision int64          `json:"revision"`
}

func gearResponse(catalog item.Catalog, outcome *gear.Outcome) GearResponse {
	slots := make([]GearSlotView, 0, len(outcome.Gear))
	for slot, occupant := range outcome.Gear {
		name := ""
		if it := catalog.GetItem(occupant.Item); it != nil {
			name = it.Name
		}
		slots = append(slots, GearSlotView{
			Slot:     string(slot),
			Item:     name,
			Quantity: occupant.Quantity,
		})
	}
	return GearResponse{
		Setup:    string(outcome.Setup),
		Slots:    slots,
		Returned: bankToStacks(catalog, outcome.Returned),
		Bank:     bankToStacks(catalog, outcome.Bank),
		Revision: outcome.Revision,
	}
}

// EquipRequest equips a named item from the bank onto a setup.
type EquipRequest struct {
	Identity
	Setup    string `json:"setup" validate:"required,gearsetup"`
	Item     string `json:"item" validate:"required"`
	Quantity int    `json:"quantity" validate:"omitempty,gt=0"`
}

// HandleEquip equips an item onto the given setup.
func HandleEquip(userService user.Service, gearService gear.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req EquipRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Equip"); err != nil {
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		outcome, err := gearService.Equip(r.Context(), u.ID,
			domain.GearSetupType(strings.ToLower(req.Setup)), req.Item, req.Quantity)
		if err != nil {
			respondServiceError(w, log, ErrMsgEquipFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, gearResponse(catalog, outcome))
	}
}

// UnequipRequest removes a worn item back to the bank.
type UnequipRequest struct {
	Identity
	Setup string `json:"setup" validate:"required,gearsetup"`
	Item  string `json:"item" validate:"required"`
}

// HandleUnequip returns a worn item to the bank.
func HandleUnequip(userService user.Service, gearService gear.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req UnequipRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Unequip"); err != nil {
			return
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		outcome, err := gearService.Unequip(r.Context(), u.ID,
			domain.GearSetupType(strings.ToLower(req.Setup)), req.Item)
		if err != nil {
			respondServiceError(w, log, ErrMsgUnequipFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, gearResponse(catalog, outcome))
	}
}

// UnequipAllRequest empties a whole setup back into the bank.
type UnequipAllRequest struct {
	Identity
	Setup string `json:"setup" validate:"required,gearsetup"`
}

// HandleUnequipAll empties the given setup into the bank.
func HandleUnequipAll(userService user.Service, gearService gear.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req UnequipAllRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Unequip all"); err != nil {
			return
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		outcome, err := gearService.UnequipAll(r.Context(), u.ID,
			domain.GearSetupType(strings.ToLower(req.Setup)))
		if err != nil {
			respondServiceError(w, log, ErrMsgUnequipFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, gearResponse(catalog, outcome))
	}
}

// SwapRequest exchanges the loadouts of two setups.
type SwapRequest struct {
	Identity
	First  string `json:"first" validate:"required,gearsetup"`
	Second string `json:"second" validate:"required,gearsetup"`
}

// HandleSwap exchanges two setups' loadouts in one atomic write.
func HandleSwap(userService user.Service, gearService gear.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SwapRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Swap"); err != nil {
			return
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		outcome, err := gearService.Swap(r.Context(), u.ID,
			domain.GearSetupType(strings.ToLower(req.First)),
			domain.GearSetupType(strings.ToLower(req.Second)))
		if err != nil {
			respondServiceError(w, log, ErrMsgSwapFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, gearResponse(catalog, outcome))
	}
}

// HandleViewGear returns the loadout of one setup.
func HandleViewGear(userService user.Service, gearService gear.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		platform, ok := GetQueryParam(r, w, "platform")
		if !ok {
			return
		}
		platformID, ok := GetQueryParam(r, w, "platform_id")
		if !ok {
			return
		}
		raw := GetOptionalQueryParam(r, "setup", string(domain.GearSetupMelee))
		setup, err := domain.ParseGearSetupType(strings.ToLower(raw))
		if err != nil {
			respondServiceError(w, log, ErrMsgViewGearFailed, err)
			return
		}

		u := requireUser(w, r, userService, Identity{Platform: platform, PlatformID: platformID})
		if u == nil {
			return
		}

		outcome, err := gearService.View(r.Context(), u.ID, setup)
		if err != nil {
			respondServiceError(w, log, ErrMsgViewGearFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, gearResponse(catalog, outcome))
	}
}
