package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/transaction"
	"github.com/osse101/MinionBot_Go/internal/user"
)

// TransactRequest applies one atomic bank transaction: remove then add.
type TransactRequest struct {
	Identity
	Remove []ItemStack `json:"remove" validate:"dive"`
	Add    []ItemStack `json:"add" validate:"dive"`
	Reason string      `json:"reason" validate:"required,max=64"`
}

// TransactResponse describes the committed transaction.
type TransactResponse struct {
	Added    []ItemStack `json:"added"`
	Removed  []ItemStack `json:"removed"`
	Bank     []ItemStack `json:"bank"`
	Revision int64       `json:"revision"`
}

// HandleTransact applies a remove-then-add bank transaction atomically.
// The whole request fails if any removal cannot be covered.
func HandleTransact(userService user.Service, engine transaction.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req TransactRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Transact"); err != nil {
			return
		}

		remove, err := resolveBank(catalog, req.Remove)
		if err != nil {
			respondServiceError(w, log, ErrMsgTransactFailed, err)
			return
		}
		add, err := resolveBank(catalog, req.Add)
		if err != nil {
			respondServiceError(w, log, ErrMsgTransactFailed, err)
			return
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		result, err := engine.ApplyTransaction(r.Context(), u.ID, remove, add,
			transaction.Options{Reason: req.Reason})
		if err != nil {
			respondServiceError(w, log, ErrMsgTransactFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, TransactResponse{
			Added:    bankToStacks(catalog, result.ItemsAdded),
			Removed:  bankToStacks(catalog, result.ItemsRemoved),
			Bank:     bankToStacks(catalog, result.NewBank),
			Revision: result.Revision,
		})
	}
}

// GiveItemRequest transfers items from the caller to a named receiver.
type GiveItemRequest struct {
	Identity
	ToUsername string      `json:"to_username" validate:"required,max=64"`
	Items      []ItemStack `json:"items" validate:"required,min=1,dive"`
}

// HandleGiveItem transfers items between users. The receiver is looked up
// by username on the caller's platform.
func HandleGiveItem(userService user.Service, engine transaction.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req GiveItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Give item"); err != nil {
			return
		}

		items, err := resolveBank(catalog, req.Items)
		if err != nil {
			respondServiceError(w, log, ErrMsgGiveItemFailed, err)
			return
		}

		sender := requireUser(w, r, userService, req.Identity)
		if sender == nil {
			return
		}

		receiver, err := userService.FindByUsername(r.Context(), strings.ToLower(req.Platform), req.ToUsername)
		if err != nil {
			respondServiceError(w, log, ErrMsgGiveItemFailed, err)
			return
		}

		result, err := engine.TransferItems(r.Context(), sender.ID, receiver.ID, items)
		if err != nil {
			respondServiceError(w, log, ErrMsgGiveItemFailed, err)
			return
		}

		log.Info("Items given",
			"from", sender.Username, "to", receiver.Username,
			"count", result.Items.TotalItems())

		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgItemTransferredSuccess,
			Data:    bankToStacks(catalog, result.Items),
		})
	}
}
