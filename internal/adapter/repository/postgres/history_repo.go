package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// historyRepository implements domain.StatusHistoryRepository
type historyRepository struct {
	db *DB
}

// NewHistoryRepository creates a new status history repository
func NewHistoryRepository(db *DB) domain.StatusHistoryRepository {
	return &historyRepository{db: db}
}

// Append stores the changes in one transaction, in order
func (r *historyRepository) Append(ctx context.Context, changes []domain.StatusChange) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO status_history (entity, entity_id, task_id, from_status, to_status, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, c := range changes {
		_, err := dbTx.ExecContext(ctx, query,
			string(c.Entity),
			c.EntityID,
			c.TaskID,
			c.From,
			c.To,
			c.ChangedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert status change: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *historyRepository) ListByTask(ctx context.Context, taskID int64) ([]domain.StatusChange, error) {
	query := `
		SELECT id, entity, entity_id, task_id, from_status, to_status, changed_at
		FROM status_history
		WHERE task_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusChange
	for rows.Next() {
		var c domain.StatusChange
		if err := rows.Scan(&c.ID, &c.Entity, &c.EntityID, &c.TaskID, &c.From, &c.To, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
