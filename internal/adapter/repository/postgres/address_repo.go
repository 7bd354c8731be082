package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

const foreignKeyViolation = "23503"

// addressRepository implements domain.AddressRepository
type addressRepository struct {
	db *DB
}

// NewAddressRepository creates a new address repository
func NewAddressRepository(db *DB) domain.AddressRepository {
	return &addressRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAddress(ctx context.Context, db execer, a *domain.Address) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO addresses (id, user_id, street, city, zip_code) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.UserID, a.Street, a.City, a.ZipCode,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return domain.Errorf(domain.ErrNotFound, "user %d", a.UserID)
		}
		return existsWrap(err, "address %d", a.ID)
	}
	return nil
}

func (r *addressRepository) GetByID(ctx context.Context, id int64) (*domain.Address, error) {
	var a domain.Address
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, street, city, zip_code FROM addresses WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.ZipCode)
	if err != nil {
		return nil, notFoundWrap(err, "address %d", id)
	}
	return &a, nil
}

func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	return insertAddress(ctx, r.db, address)
}

func (r *addressRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Address, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, street, city, zip_code FROM addresses WHERE user_id = $1 ORDER BY id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var out []*domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.ZipCode); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
