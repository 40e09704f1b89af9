package handler

import (
	"net/http"
	"time"

	"github.com/osse101/MinionBot_Go/internal/activity"
	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/user"
)

// StartActivityRequest sends the caller's minion on a timed trip.
type StartActivityRequest struct {
	Identity
	Kind            string      `json:"kind" validate:"required,max=64"`
	DurationSeconds int64       `json:"duration_seconds" validate:"required,gt=0"`
	Cost            []ItemStack `json:"cost" validate:"dive"`
	Loot            []ItemStack `json:"loot" validate:"dive"`
}

// ActivityResponse describes an in-flight or finished activity.
type ActivityResponse struct {
	Kind        string      `json:"kind"`
	Cost        []ItemStack `json:"cost,omitempty"`
	Loot        []ItemStack `json:"loot,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	CompletesAt time.Time   `json:"completes_at"`
}

func activityResponse(catalog item.Catalog, act *activity.Activity) ActivityResponse {
	return ActivityResponse{
		Kind:        act.Kind,
		Cost:        bankToStacks(catalog, act.Cost),
		Loot:        bankToStacks(catalog, act.Loot),
		StartedAt:   act.StartedAt,
		CompletesAt: act.CompletesAt,
	}
}

// HandleStartActivity charges the cost and sends the minion out. The user
// stays busy until completion or cancellation.
func HandleStartActivity(userService user.Service, activityService activity.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req StartActivityRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Start activity"); err != nil {
			return
		}

		cost, err := resolveBank(catalog, req.Cost)
		if err != nil {
			respondServiceError(w, log, ErrMsgStartActivityFailed, err)
			return
		}
		loot, err := resolveBank(catalog, req.Loot)
		if err != nil {
			respondServiceError(w, log, ErrMsgStartActivityFailed, err)
			return
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		act, err := activityService.Start(r.Context(), u.ID, req.Kind,
			time.Duration(req.DurationSeconds)*time.Second, cost, loot)
		if err != nil {
			respondServiceError(w, log, ErrMsgStartActivityFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, activityResponse(catalog, act))
	}
}

// CancelActivityRequest aborts the caller's in-flight activity.
type CancelActivityRequest struct {
	Identity
}

// HandleCancelActivity aborts the in-flight activity, refunding the cost
// and forfeiting the loot.
func HandleCancelActivity(userService user.Service, activityService activity.Service, catalog item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CancelActivityRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Cancel activity"); err != nil {
			return
		}

		u := requireUser(w, r, userService, req.Identity)
		if u == nil {
			return
		}

		act, err := activityService.Cancel(r.Context(), u.ID)
		if err != nil {
			respondServiceError(w, log, ErrMsgCancelActivityFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgActivityCancelledSuccess,
			Data:    activityResponse(catalog, act),
		})
	}
}

// HandleActivityStatus reports the caller's current activity, if any.
func HandleActivityStatus(userService user.Service, activityService activity.Service, catalog item.Catalog) http.HandlerFunc {
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

		act, err := activityService.Status(r.Context(), u.ID)
		if err != nil {
			respondServiceError(w, log, "Failed to get activity status", err)
			return
		}

		respondJSON(w, http.StatusOK, activityResponse(catalog, act))
	}
}
