package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// reviewRepository implements domain.ReviewRepository
type reviewRepository struct {
	db *DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *DB) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, task_id, reviewer_id, reviewed_id, role, rating, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.TaskID,
		review.ReviewerID,
		review.ReviewedID,
		string(review.Role),
		review.Rating,
		review.Comments,
		review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrAlreadyExists, "user %d already reviewed task %d", review.ReviewerID, review.TaskID)
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (r *reviewRepository) ListByReviewed(ctx context.Context, userID int64, role domain.RatingKind) ([]*domain.Review, error) {
	query := `
		SELECT id, task_id, reviewer_id, reviewed_id, role, rating, comments, created_at
		FROM reviews
		WHERE reviewed_id = $1 AND role = $2
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var out []*domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.TaskID,
			&rv.ReviewerID,
			&rv.ReviewedID,
			&rv.Role,
			&rv.Rating,
			&rv.Comments,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		out = append(out, &rv)
	}
	return out, rows.Err()
}
