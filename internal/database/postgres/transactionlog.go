package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// TransactionLogRepository implements the transaction log for PostgreSQL
type TransactionLogRepository struct {
	db *pgxpool.Pool
}

// NewTransactionLogRepository creates a new TransactionLogRepository
func NewTransactionLogRepository(db *pgxpool.Pool) *TransactionLogRepository {
	return &TransactionLogRepository{db: db}
}

var _ repository.TransactionLog = (*TransactionLogRepository)(nil)

// Append stores one applied transaction
func (r *TransactionLogRepository) Append(ctx context.Context, record *domain.TransactionRecord) error {
	addedJSON, err := json.Marshal(record.ItemsAdded)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAppendTransaction, err)
	}
	removedJSON, err := json.Marshal(record.ItemsRemoved)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAppendTransaction, err)
	}

	query := `
		INSERT INTO transaction_log (user_id, items_added, items_removed, reason, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	err = r.db.QueryRow(ctx, query, record.UserID, addedJSON, removedJSON, record.Reason).
		Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAppendTransaction, err)
	}
	return nil
}

// ListRecent returns the newest transactions for a user
func (r *TransactionLogRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.TransactionRecord, error) {
	query := `
		SELECT id, user_id, items_added, items_removed, reason, created_at
		FROM transaction_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryTransactions, err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		var rec domain.TransactionRecord
		var addedJSON, removedJSON []byte

		err := rows.Scan(&rec.ID, &rec.UserID, &addedJSON, &removedJSON, &rec.Reason, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryTransactions, err)
		}
		if err := json.Unmarshal(addedJSON, &rec.ItemsAdded); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryTransactions, err)
		}
		if err := json.Unmarshal(removedJSON, &rec.ItemsRemoved); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryTransactions, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryTransactions, err)
	}
	return records, nil
}

// Cleanup removes records older than retentionDays
func (r *TransactionLogRepository) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	query := `
		DELETE FROM transaction_log
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`
	result, err := r.db.Exec(ctx, query, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCleanupLog, err)
	}
	return result.RowsAffected(), nil
}
