package transaction

// Retry configuration
const (
	// MaxConflictRetries bounds how many times RetryOnConflict re-runs a
	// caller's attempt after a lost revision race.
	MaxConflictRetries = 3
)

// Log Messages
const (
	LogMsgApplyTransactionCalled = "ApplyTransaction called"
	LogMsgTransferItemsCalled    = "TransferItems called"
	LogMsgTransactionApplied     = "Transaction applied"
	LogMsgTransferCompleted      = "Transfer completed"
	LogMsgAuditAppendFailed      = "Failed to append transaction record"
	LogMsgRefundIssued           = "Transfer credit failed, sender refunded"
	LogMsgRefundFailed           = "Transfer refund failed, items lost from sender"
	LogMsgConflictRetry          = "Revision conflict, retrying"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting transaction log cleanup job"
	LogMsgCleanupJobFailed    = "Transaction log cleanup failed"
	LogMsgCleanupJobCompleted = "Transaction log cleanup completed"
)

// Error Messages
const (
	ErrMsgGetEconomyFailed    = "failed to get user economy"
	ErrMsgUpdateEconomyFailed = "failed to update user economy"
	ErrMsgCreditFailed        = "failed to credit receiver"
	ErrMsgRefundFailed        = "failed to refund sender"
)
