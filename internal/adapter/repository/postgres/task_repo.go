package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

const taskColumns = `id, title, description, budget, status, requester_id, tasker_id, category_id, address_id, version, created_at`

const bidColumns = `id, task_id, bidder_id, amount, message, status, created_at`

// taskRepository implements domain.TaskRepository
type taskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) domain.TaskRepository {
	return &taskRepository{db: db}
}

func scanTask(row scannable) (*domain.Task, error) {
	var (
		t       domain.Task
		budget  string
		tasker  sql.NullInt64
		cat     sql.NullInt64
		address sql.NullInt64
	)
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&budget,
		&t.Status,
		&t.RequesterID,
		&tasker,
		&cat,
		&address,
		&t.Version,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}

	b, err := parseDecimal(budget, "budget")
	if err != nil {
		return nil, err
	}
	t.Budget = b
	if tasker.Valid {
		id := tasker.Int64
		t.TaskerID = &id
	}
	t.CategoryID = cat.Int64
	t.AddressID = address.Int64
	return &t, nil
}

func scanBid(row scannable) (*domain.Bid, error) {
	var (
		b      domain.Bid
		amount string
	)
	if err := row.Scan(&b.ID, &b.TaskID, &b.BidderID, &amount, &b.Message, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	a, err := parseDecimal(amount, "amount")
	if err != nil {
		return nil, err
	}
	b.Amount = a
	return &b, nil
}

// GetByID retrieves a task together with its bids
func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundWrap(err, "task %d", id)
	}

	bids, err := r.listBids(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Bids = bids
	return task, nil
}

// Create inserts the task and any bids it already carries in one transaction
func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO tasks (id, title, description, budget, status, requester_id, tasker_id, category_id, address_id, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10)
	`
	_, err = dbTx.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Budget.String(),
		string(task.Status),
		task.RequesterID,
		taskerParam(task),
		nullID(task.CategoryID),
		nullID(task.AddressID),
		task.CreatedAt,
	)
	if err != nil {
		return existsWrap(err, "task %d", task.ID)
	}

	if err := upsertBids(ctx, dbTx, task.Bids); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	task.Version = 1
	return nil
}

// Save writes the task row under a version check and upserts its bids.
// Bids are only ever inserted or have their status changed.
func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE tasks
		SET title = $2, description = $3, budget = $4, status = $5, tasker_id = $6, version = version + 1
		WHERE id = $1 AND version = $7
	`
	res, err := dbTx.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Budget.String(),
		string(task.Status),
		taskerParam(task),
		task.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}
	if n == 0 {
		var exists bool
		if err := dbTx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, task.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check task %d: %w", task.ID, err)
		}
		if !exists {
			return domain.Errorf(domain.ErrNotFound, "task %d", task.ID)
		}
		return domain.Errorf(domain.ErrConcurrentModification, "task %d was modified concurrently (have version %d)", task.ID, task.Version)
	}

	if err := upsertBids(ctx, dbTx, task.Bids); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	task.Version++
	return nil
}

func upsertBids(ctx context.Context, dbTx *sql.Tx, bids []*domain.Bid) error {
	query := `
		INSERT INTO bids (` + bidColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status
	`
	for _, b := range bids {
		_, err := dbTx.ExecContext(ctx, query,
			b.ID,
			b.TaskID,
			b.BidderID,
			b.Amount.String(),
			b.Message,
			string(b.Status),
			b.CreatedAt,
		)
		if err != nil {
			// The partial index on accepted bids only trips when another
			// writer accepted a bid on the same task first.
			if isUniqueViolation(err) {
				return domain.Errorf(domain.ErrConcurrentModification, "task %d already has an accepted bid", b.TaskID)
			}
			return fmt.Errorf("failed to save bid %d: %w", b.ID, err)
		}
	}
	return nil
}

func taskerParam(t *domain.Task) sql.NullInt64 {
	if t.TaskerID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *t.TaskerID, Valid: true}
}

// ListBids retrieves the bids placed on a task, oldest first
func (r *taskRepository) ListBids(ctx context.Context, taskID int64) ([]*domain.Bid, error) {
	bids, err := r.listBids(ctx, taskID)
	if err != nil || len(bids) > 0 {
		return bids, err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, taskID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check task %d: %w", taskID, err)
	}
	if !exists {
		return nil, domain.Errorf(domain.ErrNotFound, "task %d", taskID)
	}
	return bids, nil
}

func (r *taskRepository) listBids(ctx context.Context, taskID int64) ([]*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE task_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bids: %w", err)
	}
	return bids, nil
}

// GetBid retrieves a bid by its ID
func (r *taskRepository) GetBid(ctx context.Context, bidID int64) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = $1`

	b, err := scanBid(r.db.QueryRowContext(ctx, query, bidID))
	if err != nil {
		return nil, notFoundWrap(err, "bid %d", bidID)
	}
	return b, nil
}
