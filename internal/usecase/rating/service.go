package rating

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// SubmitReviewInput represents the input for reviewing the other party of a task
type SubmitReviewInput struct {
	TaskID     int64
	ReviewerID int64
	Rating     int
	Comments   string
}

// RatingService handles reviews and the reputation they feed
type RatingService struct {
	TaskRepo    domain.TaskRepository
	ReviewRepo  domain.ReviewRepository
	ProfileRepo domain.ProfileRepository
	IDs         domain.IDGenerator
	Clock       domain.Clock
	Logger      *slog.Logger
}

// NewRatingService creates a new RatingService instance
func NewRatingService(
	taskRepo domain.TaskRepository,
	reviewRepo domain.ReviewRepository,
	profileRepo domain.ProfileRepository,
	ids domain.IDGenerator,
	clock domain.Clock,
	log *slog.Logger,
) *RatingService {
	if log == nil {
		log = slog.Default()
	}
	return &RatingService{
		TaskRepo:    taskRepo,
		ReviewRepo:  reviewRepo,
		ProfileRepo: profileRepo,
		IDs:         ids,
		Clock:       clock,
		Logger:      log,
	}
}

// SubmitReview stores a review on a COMPLETED task and refreshes the
// reviewed user's rating for the role they played.
// Logic:
//  1. The task must be COMPLETED and the reviewer its requester or tasker
//  2. The other party is reviewed; their role decides which rating moves
//  3. Store the review (one per reviewer and task)
//  4. Recompute the average of every review in that role and store it clamped
//
// The review and the profile are written separately. A failed profile write
// leaves the review stored; the rating is recomputed from all stored reviews
// by the next review of that user, or by resubmitting this one, which still
// reports ErrAlreadyExists.
func (s *RatingService) SubmitReview(ctx context.Context, input SubmitReviewInput) (*domain.Review, error) {
	task, err := s.TaskRepo.GetByID(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.TaskStatusCompleted {
		return nil, domain.Errorf(domain.ErrValidation, "only COMPLETED tasks can be reviewed, task %d is %s", task.ID, task.Status)
	}
	if task.TaskerID == nil {
		return nil, domain.Errorf(domain.ErrInvalidState, "completed task %d has no tasker", task.ID)
	}

	review := &domain.Review{
		TaskID:     task.ID,
		ReviewerID: input.ReviewerID,
		Rating:     input.Rating,
		Comments:   input.Comments,
	}
	switch input.ReviewerID {
	case task.RequesterID:
		review.ReviewedID = *task.TaskerID
		review.Role = domain.RatingKindTasker
	case *task.TaskerID:
		review.ReviewedID = task.RequesterID
		review.Role = domain.RatingKindRequester
	default:
		return nil, domain.Errorf(domain.ErrValidation, "user %d took no part in task %d", input.ReviewerID, task.ID)
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	id, err := s.IDs.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate review id: %w", err)
	}
	review.ID = id
	review.CreatedAt = s.Clock.Now()

	if err := s.ReviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			if rerr := s.refreshRating(ctx, review.ReviewedID, review.Role); rerr != nil {
				s.Logger.Warn("rating refresh failed", "user_id", review.ReviewedID, "role", review.Role, "error", rerr)
			}
		}
		return nil, err
	}

	if err := s.refreshRating(ctx, review.ReviewedID, review.Role); err != nil {
		return nil, fmt.Errorf("review %d stored but rating not refreshed: %w", review.ID, err)
	}
	return review, nil
}

// refreshRating recomputes userID's rating for role from every stored review.
func (s *RatingService) refreshRating(ctx context.Context, userID int64, role domain.RatingKind) error {
	received, err := s.ReviewRepo.ListByReviewed(ctx, userID, role)
	if err != nil {
		return fmt.Errorf("failed to list reviews of user %d: %w", userID, err)
	}
	stored, err := s.UpdateRating(ctx, userID, role, Average(received))
	if err != nil {
		return err
	}

	s.Logger.Info("rating updated",
		"user_id", userID,
		"role", role,
		"rating", stored.String(),
		"reviews", len(received),
	)
	return nil
}

// UpdateRating stores avg, clamped, as the user's rating of the given kind.
func (s *RatingService) UpdateRating(ctx context.Context, userID int64, kind domain.RatingKind, avg decimal.NullDecimal) (decimal.Decimal, error) {
	profile, err := s.ProfileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	stored, err := UpdateRating(profile, kind, avg)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.ProfileRepo.Update(ctx, profile); err != nil {
		return decimal.Zero, err
	}
	return stored, nil
}
