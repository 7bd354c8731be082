package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

const transactionColumns = `id, task_id, amount, status, version, created_at`

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

func scanTransaction(row scannable) (*domain.Transaction, error) {
	var (
		tx     domain.Transaction
		amount string
	)
	if err := row.Scan(&tx.ID, &tx.TaskID, &amount, &tx.Status, &tx.Version, &tx.CreatedAt); err != nil {
		return nil, err
	}
	a, err := parseDecimal(amount, "amount")
	if err != nil {
		return nil, err
	}
	tx.Amount = a
	return &tx, nil
}

// Create inserts a transaction; the unique task_id column keeps it one per task
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, task_id, amount, status, version, created_at)
		VALUES ($1, $2, $3, $4, 1, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.TaskID,
		tx.Amount.String(),
		string(tx.Status),
		tx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrAlreadyExists, "task %d already has a transaction", tx.TaskID)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	tx.Version = 1
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	tx, err := scanTransaction(r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "transaction %d", id)
	}
	return tx, nil
}

func (r *transactionRepository) GetByTaskID(ctx context.Context, taskID int64) (*domain.Transaction, error) {
	tx, err := scanTransaction(r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE task_id = $1`, taskID))
	if err != nil {
		return nil, notFoundWrap(err, "transaction for task %d", taskID)
	}
	return tx, nil
}

// Update writes the status under a version check
func (r *transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET status = $2, version = version + 1 WHERE id = $1 AND version = $3`,
		tx.ID, string(tx.Status), tx.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %d: %w", tx.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update transaction %d: %w", tx.ID, err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, tx.ID); err != nil {
			return err
		}
		return domain.Errorf(domain.ErrConcurrentModification, "transaction %d was modified concurrently", tx.ID)
	}
	tx.Version++
	return nil
}
