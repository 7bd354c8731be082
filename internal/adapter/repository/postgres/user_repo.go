package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// userRepository implements domain.UserRepository
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, `SELECT id, email, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, notFoundWrap(err, "user %d", id)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, `SELECT id, email, created_at FROM users WHERE lower(email) = $1`, strings.ToLower(email)).
		Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, notFoundWrap(err, "user with email %s", email)
	}
	return &u, nil
}

// Create inserts the user, its profile and its addresses in one transaction
func (r *userRepository) Create(ctx context.Context, user *domain.User, profile *domain.Profile, addresses []*domain.Address) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.Email, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrAlreadyExists, "the email %s is already registered", user.Email)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if profile != nil {
		_, err = dbTx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, first_name, last_name, bio, tasker_rating, requester_rating)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			user.ID,
			profile.FirstName,
			profile.LastName,
			profile.Bio,
			profile.TaskerRating.String(),
			profile.RequesterRating.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert profile: %w", err)
		}
	}

	for _, a := range addresses {
		if err := insertAddress(ctx, dbTx, a); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// profileRepository implements domain.ProfileRepository
type profileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB) domain.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	query := `
		SELECT user_id, first_name, last_name, bio, tasker_rating, requester_rating
		FROM profiles
		WHERE user_id = $1
	`

	var (
		p                 domain.Profile
		tasker, requester string
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Bio,
		&tasker,
		&requester,
	)
	if err != nil {
		return nil, notFoundWrap(err, "profile for user %d", userID)
	}

	if p.TaskerRating, err = parseDecimal(tasker, "tasker_rating"); err != nil {
		return nil, err
	}
	if p.RequesterRating, err = parseDecimal(requester, "requester_rating"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = $2, last_name = $3, bio = $4, tasker_rating = $5, requester_rating = $6
		WHERE user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.Bio,
		profile.TaskerRating.String(),
		profile.RequesterRating.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n == 0 {
		return domain.Errorf(domain.ErrNotFound, "profile for user %d", profile.UserID)
	}
	return nil
}
