package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/gear"
	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/user"
)

// SavePresetRequest stores a named loadout built from the listed items.
type SavePresetRequest struct {
	Identity
	Name  string      `json:"name" validate:"required,max=32"`
	Items []ItemStack `json:"items" validate:"required,min=1,dive"`
}

// HandleSavePreset stores a named gear layout. The listed items are placed
// into their declared slots; two items competing for one slot is an error.
func HandleSavePreset(userService user.Service, gearService gear.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SavePresetRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Save preset"); err != nil {
			return
		}

		layout, err := layoutFromStacks(catalog, req.Items)
		if err != nil {
			respondServiceError(w, log, ErrMsgSavePresetFailed, err)
			return
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		if err := gearService.SavePreset(r.Context(), u.ID, req.Name, layout); err != nil {
			respondServiceError(w, log, ErrMsgSavePresetFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, SuccessResponse{Message: MsgPresetSavedSuccess})
	}
}

// EquipPresetRequest applies a stored layout onto a setup.
type EquipPresetRequest struct {
	Identity
	Setup string `json:"setup" validate:"required,gearsetup"`
	Name  string `json:"name" validate:"required,max=32"`
}

// HandleEquipPreset applies a stored preset to the given setup.
func HandleEquipPreset(userService user.Service, gearService gear.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req EquipPresetRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Equip preset"); err != nil {
			return
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		outcome, err := gearService.EquipPreset(r.Context(), u.ID,
			domain.GearSetupType(strings.ToLower(req.Setup)), req.Name)
		if err != nil {
			respondServiceError(w, log, ErrMsgPresetFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, gearResponse(catalog, outcome))
	}
}

// PresetView is one stored preset with item names resolved.
type PresetView struct {
	Name  string      `json:"name"`
	Items []ItemStack `json:"items"`
}

// HandleListPresets returns the caller's stored presets.
func HandleListPresets(userService user.Service, gearService gear.Service, catalog item.Catalog) http.HandlerFunc {
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

		u := requireUser(w, r, userService, Identity{Platform: platform, PlatformID: platformID})
		if u == nil {
			return
		}

		presets, err := gearService.ListPresets(r.Context(), u.ID)
		if err != nil {
			respondServiceError(w, log, ErrMsgListPresetsFailed, err)
			return
		}

		views := make([]PresetView, 0, len(presets))
		for _, preset := range presets {
			views = append(views, PresetView{
				Name:  preset.Name,
				Items: bankToStacks(catalog, preset.Gear.AllItems()),
			})
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: views})
	}
}

// DeletePresetRequest removes a stored preset by name.
type DeletePresetRequest struct {
	Identity
	Name string `json:"name" validate:"required,max=32"`
}

// HandleDeletePreset removes a stored preset.
func HandleDeletePreset(userService user.Service, gearService gear.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req DeletePresetRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Delete preset"); err != nil {
			return
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		if err := gearService.DeletePreset(r.Context(), u.ID, req.Name); err != nil {
			respondServiceError(w, log, ErrMsgPresetFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPresetDeletedSuccess})
	}
}

// layoutFromStacks builds a Gear layout by equipping each named item into
// an empty loadout. A non-empty displacement means two items fought over a
// slot, which makes the layout ambiguous.
func layoutFromStacks(catalog item.Catalog, stacks []ItemStack) (domain.Gear, error) {
	layout := domain.NewGear()
	for _, stack := range stacks {
		it := catalog.GetItemByName(strings.ToLower(strings.TrimSpace(stack.Item)))
		if it == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, stack.Item)
		}
		equipped, err := layout.Equip(it, stack.Quantity)
		if err != nil {
			return nil, err
		}
		if !equipped.Refund.IsEmpty() {
			return nil, fmt.Errorf("%w: %s conflicts with another item in the layout",
				domain.ErrInvalidInput, it.Name)
		}
		layout = equipped.NewGear
	}
	return layout, nil
}
