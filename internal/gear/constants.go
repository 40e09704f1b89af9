package gear

// Log Messages
const (
	LogMsgEquipCalled       = "Equip called"
	LogMsgUnequipCalled     = "Unequip called"
	LogMsgUnequipAllCalled  = "UnequipAll called"
	LogMsgSwapCalled        = "Swap called"
	LogMsgEquipPresetCalled = "EquipPreset called"
	LogMsgSavePresetCalled  = "SavePreset called"
	LogMsgViewCalled        = "View called"
	LogMsgEquipCompleted    = "Gear equipped"
	LogMsgUnequipCompleted  = "Gear unequipped"
	LogMsgSwapCompleted     = "Gear setups swapped"
	LogMsgPresetEquipped    = "Gear preset equipped"
	LogMsgConfirmRequested  = "Confirmation requested"
)

// Error Messages
const (
	ErrMsgGetEconomyFailed  = "failed to get user economy"
	ErrMsgGetPresetFailed   = "failed to get gear preset"
	ErrMsgSavePresetFailed  = "failed to save gear preset"
	ErrMsgListPresetsFailed = "failed to list gear presets"
	ErrMsgEmptyPresetName   = "preset name must not be empty"
	ErrMsgNothingEquipped   = "nothing is equipped"
)

// MaxPresetNameLength bounds stored preset names.
const MaxPresetNameLength = 32
