package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// User management error messages
	ErrMsgRegisterUserFailed = "Failed to register user"
	ErrMsgGetBankFailed      = "Failed to get bank"

	// Transaction error messages
	ErrMsgTransactFailed = "Failed to apply transaction"
	ErrMsgGiveItemFailed = "Failed to give item"

	// Gear error messages
	ErrMsgEquipFailed       = "Failed to equip item"
	ErrMsgUnequipFailed     = "Failed to unequip item"
	ErrMsgSwapFailed        = "Failed to swap gear setups"
	ErrMsgViewGearFailed    = "Failed to view gear"
	ErrMsgPresetFailed      = "Failed to apply gear preset"
	ErrMsgSavePresetFailed  = "Failed to save gear preset"
	ErrMsgListPresetsFailed = "Failed to list gear presets"

	// Activity error messages
	ErrMsgStartActivityFailed  = "Failed to start activity"
	ErrMsgCancelActivityFailed = "Failed to cancel activity"
)

// Success messages for API responses
const (
	MsgItemTransferredSuccess   = "Items transferred successfully"
	MsgPresetSavedSuccess       = "Preset saved successfully"
	MsgPresetDeletedSuccess     = "Preset deleted successfully"
	MsgActivityCancelledSuccess = "Activity cancelled, cost refunded"
)
