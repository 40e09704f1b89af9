package repository

import (
	"context"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

// TransactionLog defines the interface for the item transaction audit trail
type TransactionLog interface {
	// Append stores one applied transaction. The record's ID is assigned by
	// the store.
	Append(ctx context.Context, record *domain.TransactionRecord) error

	// ListRecent returns the most recent transactions for a user, newest
	// first, up to limit.
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.TransactionRecord, error)

	// Cleanup removes records older than retentionDays and returns how many
	// were deleted.
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
}
