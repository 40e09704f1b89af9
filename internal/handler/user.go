package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/repository"
	"github.com/osse101/MinionBot_Go/internal/user"
)

// RegisterUserRequest represents the request to register a platform identity.
type RegisterUserRequest struct {
	Identity
	Username string `json:"username" validate:"required,max=64"`
}

// HandleRegisterUser handles user registration. Registering an identity
// that already exists refreshes the username and returns 200 instead of 201.
func HandleRegisterUser(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RegisterUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register user"); err != nil {
			return
		}

		platform := strings.ToLower(req.Platform)

		existing, _ := userService.FindByPlatformID(r.Context(), platform, req.PlatformID)

		registered, err := userService.RegisterUser(r.Context(), platform, req.PlatformID, req.Username)
		if err != nil {
			respondServiceError(w, log, ErrMsgRegisterUserFailed, err)
			return
		}

		log.Info("User registered",
			"user_id", registered.ID,
			"username", registered.Username,
			"is_new", existing == nil)

		status := http.StatusOK
		if existing == nil {
			status = http.StatusCreated
		}
		respondJSON(w, status, registered)
	}
}

// BankResponse is a user's bank with item names resolved.
type BankResponse struct {
	UserID   string      `json:"user_id"`
	Items    []ItemStack `json:"items"`
	Revision int64       `json:"revision"`
}

// HandleGetBank returns the caller's bank contents.
func HandleGetBank(userService user.Service, economyRepo repository.Economy, catalog item.Catalog) http.HandlerFunc {
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

		economy, err := economyRepo.GetUserEconomy(r.Context(), u.ID)
		if err != nil {
			respondServiceError(w, log, ErrMsgGetBankFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, BankResponse{
			UserID:   u.ID,
			Items:    bankToStacks(catalog, economy.Bank),
			Revision: economy.Revision,
		})
	}
}
