package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"
	ErrMsgUserBusy     = "minion is busy"

	// Activity errors
	ErrMsgNoActiveActivity = "no active activity"

	// Item errors
	ErrMsgItemNotFound = "item not found"
	ErrMsgNotTradeable = "item is not tradeable"

	// Bank errors
	ErrMsgInsufficientFunds    = "insufficient funds"
	ErrMsgInsufficientQuantity = "insufficient quantity"
	ErrMsgOverflow             = "quantity overflow"
	ErrMsgInvalidBankState     = "invalid bank state"

	// Gear errors
	ErrMsgNotEquipable          = "item is not equipable"
	ErrMsgStackabilityViolation = "item is not stackable"
	ErrMsgSlotEmpty             = "slot is empty"
	ErrMsgRequirementsNotMet    = "requirements not met"
	ErrMsgInvalidGearSetup      = "invalid gear setup"
	ErrMsgPresetNotFound        = "gear preset not found"

	// Concurrency errors
	ErrMsgConcurrentModification = "concurrent modification"

	// Confirmation errors
	ErrMsgConfirmationDeclined = "confirmation declined"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)
	ErrUserBusy     = errors.New(ErrMsgUserBusy)

	// Activity errors
	ErrNoActiveActivity = errors.New(ErrMsgNoActiveActivity)

	// Item errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)
	ErrNotTradeable = errors.New(ErrMsgNotTradeable)

	// Bank errors
	ErrInsufficientFunds    = errors.New(ErrMsgInsufficientFunds)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)
	ErrOverflow             = errors.New(ErrMsgOverflow)
	ErrInvalidBankState     = errors.New(ErrMsgInvalidBankState)

	// Gear errors
	ErrNotEquipable          = errors.New(ErrMsgNotEquipable)
	ErrStackabilityViolation = errors.New(ErrMsgStackabilityViolation)
	ErrSlotEmpty             = errors.New(ErrMsgSlotEmpty)
	ErrRequirementsNotMet    = errors.New(ErrMsgRequirementsNotMet)
	ErrInvalidGearSetup      = errors.New(ErrMsgInvalidGearSetup)
	ErrPresetNotFound        = errors.New(ErrMsgPresetNotFound)

	// Concurrency errors
	// ErrConcurrentModification indicates a transient race; callers may retry (bounded).
	ErrConcurrentModification = errors.New(ErrMsgConcurrentModification)

	// Confirmation errors
	ErrConfirmationDeclined = errors.New(ErrMsgConfirmationDeclined)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
