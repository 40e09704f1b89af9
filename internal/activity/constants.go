package activity

import "time"

// Duration bounds for a single activity.
const (
	MinActivityDuration = 1 * time.Second
	MaxActivityDuration = 24 * time.Hour
)

// Log Messages
const (
	LogMsgStartCalled         = "Start called"
	LogMsgCancelCalled        = "Cancel called"
	LogMsgActivityStarted     = "Activity started"
	LogMsgActivityCompleted   = "Activity completed"
	LogMsgActivityCancelled   = "Activity cancelled"
	LogMsgCompletionFailed    = "Failed to complete activity"
	LogMsgLootApplyFailed     = "Failed to apply activity loot"
	LogMsgCostRefundFailed    = "Failed to refund activity cost"
	LogMsgGuardReleaseFailed  = "Failed to release busy guard"
	LogMsgBusyAcquired        = "Busy guard acquired"
	LogMsgBusyReleased        = "Busy guard released"
	LogMsgRecoveredStuckUser  = "Released busy flag with no live activity"
	LogMsgActivityInterrupted = "Activity interrupted by shutdown"
)

// Error Messages
const (
	ErrMsgAcquireGuardFailed = "failed to acquire busy guard"
	ErrMsgReleaseGuardFailed = "failed to release busy guard"
	ErrMsgChargeCostFailed   = "failed to charge activity cost"
)
