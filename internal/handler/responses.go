package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// Helper functions for responding

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, nothing more to write
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgUserNotFoundError     = "User not found"
	ErrMsgItemNotFoundError     = "Item not found"
	ErrMsgNotEnoughItemsError   = "Not enough items"
	ErrMsgNotTradeableError     = "That item cannot be traded"
	ErrMsgUserBusyError         = "Your minion is busy"
	ErrMsgNoActiveActivityError = "No activity in progress"

	ErrMsgNotEquipableError   = "That item cannot be equipped"
	ErrMsgNotStackableError   = "That item does not stack"
	ErrMsgSlotEmptyError      = "Nothing equipped there"
	ErrMsgRequirementsError   = "You do not meet the requirements"
	ErrMsgInvalidSetupError   = "Invalid gear setup"
	ErrMsgPresetNotFoundError = "Preset not found"

	ErrMsgConflictError = "Someone else changed your bank, try again"
	ErrMsgDeclinedError = "Confirmation declined"
	ErrMsgBadInputError = "Invalid request. Please check your inputs."
	ErrMsgOverflowError = "Quantity too large"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Internal details stay in the logs; the client gets a stable
// status code and a message it can show verbatim.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusBadRequest, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusBadRequest, ErrMsgNotEnoughItemsError
	case errors.Is(err, domain.ErrNotTradeable):
		return http.StatusBadRequest, ErrMsgNotTradeableError
	case errors.Is(err, domain.ErrUserBusy):
		return http.StatusConflict, ErrMsgUserBusyError
	case errors.Is(err, domain.ErrNoActiveActivity):
		return http.StatusBadRequest, ErrMsgNoActiveActivityError
	case errors.Is(err, domain.ErrNotEquipable):
		return http.StatusBadRequest, ErrMsgNotEquipableError
	case errors.Is(err, domain.ErrStackabilityViolation):
		return http.StatusBadRequest, ErrMsgNotStackableError
	case errors.Is(err, domain.ErrSlotEmpty):
		return http.StatusBadRequest, ErrMsgSlotEmptyError
	case errors.Is(err, domain.ErrRequirementsNotMet):
		return http.StatusBadRequest, ErrMsgRequirementsError
	case errors.Is(err, domain.ErrInvalidGearSetup):
		return http.StatusBadRequest, ErrMsgInvalidSetupError
	case errors.Is(err, domain.ErrPresetNotFound):
		return http.StatusNotFound, ErrMsgPresetNotFoundError
	case errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict, ErrMsgConflictError
	case errors.Is(err, domain.ErrConfirmationDeclined):
		return http.StatusBadRequest, ErrMsgDeclinedError
	case errors.Is(err, domain.ErrOverflow):
		return http.StatusBadRequest, ErrMsgOverflowError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgBadInputError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs the real error and writes the mapped response.
func respondServiceError(w http.ResponseWriter, log *slog.Logger, opName string, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error(opName, "error", err)
	} else {
		log.Warn(opName, "error", err)
	}
	respondError(w, status, message)
}
