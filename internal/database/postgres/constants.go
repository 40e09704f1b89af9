package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Economy Row Defaults
const (
	// EmptyBankJSON is the default JSONB value for a new bank column
	EmptyBankJSON = `{}`
	// EmptyGearJSON is the default JSONB value for a new gear column
	EmptyGearJSON = `{}`
)

// Error Messages - User Operations
const (
	ErrMsgInvalidUserID         = "invalid user id"
	ErrMsgFailedToInsertUser    = "failed to insert user"
	ErrMsgFailedToUpdateUser    = "failed to update user"
	ErrMsgFailedToGetUser       = "failed to get user"
	ErrMsgFailedToDeleteUser    = "failed to delete user"
	ErrMsgUnknownPlatform       = "unknown platform"
	ErrMsgFailedToQueryPlatform = "failed to query user by platform"
)

// Error Messages - Economy Operations
const (
	ErrMsgFailedToGetEconomy      = "failed to get user economy"
	ErrMsgFailedToCreateEconomy   = "failed to create user economy"
	ErrMsgFailedToUpdateEconomy   = "failed to update user economy"
	ErrMsgFailedToMarshalBank     = "failed to marshal bank"
	ErrMsgFailedToUnmarshalBank   = "failed to unmarshal bank"
	ErrMsgFailedToMarshalGear     = "failed to marshal gear"
	ErrMsgFailedToUnmarshalGear   = "failed to unmarshal gear"
	ErrMsgFailedToMarshalSkills   = "failed to marshal skills"
	ErrMsgFailedToUnmarshalSkills = "failed to unmarshal skills"
	ErrMsgFailedToCheckEconomyRow = "failed to check economy row"
	ErrMsgEmptyEconomyUpdate      = "economy update changes nothing"
)

// Error Messages - Transaction Log Operations
const (
	ErrMsgFailedToAppendTransaction = "failed to append transaction record"
	ErrMsgFailedToQueryTransactions = "failed to query transaction records"
	ErrMsgFailedToCleanupLog        = "failed to clean up transaction log"
)

// Error Messages - Gear Preset Operations
const (
	ErrMsgFailedToSavePreset   = "failed to save gear preset"
	ErrMsgFailedToGetPreset    = "failed to get gear preset"
	ErrMsgFailedToListPresets  = "failed to list gear presets"
	ErrMsgFailedToDeletePreset = "failed to delete gear preset"
)
