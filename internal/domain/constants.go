package domain

// Transaction limits
const (
	// MaxTransactionQuantity caps a single add/remove/transfer quantity
	MaxTransactionQuantity = 1000000
)
