package api

import (
	"context"

	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/resilience"
	"github.com/simaogato/taskconnect-backend/internal/usecase/acceptance"
	"github.com/simaogato/taskconnect-backend/internal/usecase/bidding"
	"github.com/simaogato/taskconnect-backend/internal/usecase/payment"
	"github.com/simaogato/taskconnect-backend/internal/usecase/rating"
	"github.com/simaogato/taskconnect-backend/internal/usecase/tasks"
	"github.com/simaogato/taskconnect-backend/internal/usecase/users"
)

// Services bundles the use cases a transport exposes.
type Services struct {
	Tasks      *tasks.TaskService
	Bidding    *bidding.BiddingService
	Acceptance *acceptance.AcceptanceService
	Payments   *payment.PaymentService
	Ratings    *rating.RatingService
	Users      *users.UserService
	Categories domain.CategoryRepository

	// Retry applies to writes that can lose an optimistic-concurrency race.
	Retry resilience.ConflictPolicy
}

// Write runs fn under the conflict retry policy and returns its result.
func Write[T any](ctx context.Context, s *Services, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := resilience.RetryOnConflict(ctx, s.Retry, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
