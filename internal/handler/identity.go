package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/user"
)

// Identity names a caller by platform account. Every user-scoped request
// embeds one.
type Identity struct {
	Platform   string `json:"platform" validate:"required,platform"`
	PlatformID string `json:"platform_id" validate:"required"`
}

// ItemStack is one named item with a quantity, the wire form of a bank entry.
type ItemStack struct {
	Item     string `json:"item" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// resolveUser maps a platform identity to the internal user. Missing users
// surface as domain.ErrUserNotFound for the error mapper.
func resolveUser(r *http.Request, userService user.Service, id Identity) (*domain.User, error) {
	return userService.FindByPlatformID(r.Context(), strings.ToLower(id.Platform), id.PlatformID)
}

// resolveBank converts named item stacks to a Bank keyed by item ID.
// Duplicate names accumulate.
func resolveBank(catalog item.Catalog, stacks []ItemStack) (domain.Bank, error) {
	if len(stacks) == 0 {
		return nil, nil
	}
	bank := domain.Bank{}
	for _, stack := range stacks {
		it := catalog.GetItemByName(strings.ToLower(strings.TrimSpace(stack.Item)))
		if it == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, stack.Item)
		}
		bank[it.ID] += stack.Quantity
	}
	return bank, nil
}

// bankToStacks converts a Bank back to named stacks for responses. Items
// missing from the catalog keep their numeric ID as the name.
func bankToStacks(catalog item.Catalog, bank domain.Bank) []ItemStack {
	stacks := make([]ItemStack, 0, len(bank))
	for itemID, quantity := range bank {
		name := fmt.Sprintf("%d", itemID)
		if it := catalog.GetItem(itemID); it != nil {
			name = it.Name
		}
		stacks = append(stacks, ItemStack{Item: name, Quantity: quantity})
	}
	return stacks
}

// requireUser resolves the identity or writes the error response. A nil
// return means the handler should stop.
func requireUser(w http.ResponseWriter, r *http.Request, userService user.Service, id Identity) *domain.User {
	u, err := resolveUser(r, userService, id)
	if err != nil {
		respondServiceError(w, logger.FromContext(r.Context()), "Failed to resolve user", err)
		return nil
	}
	return u
}
