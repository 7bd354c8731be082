package bidding

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// SubmitBid validates a new offer against the task and the resolved bidder,
// then appends a PENDING bid to task.Bids and returns it.
//
// Checks run in this order and the first failure is returned:
//  1. task must be OPEN (ErrTaskNotOpen)
//  2. bidder must not be the requester (ErrSelfBiddingForbidden)
//  3. amount must be positive (ErrInvalidAmount)
//  4. message must fit MaxBidMessageLength (ErrValidation)
//
// No id is allocated and nothing is appended unless every check passes. The
// task's status is never changed.
func SubmitBid(
	task *domain.Task,
	bidder *domain.User,
	amount decimal.Decimal,
	message string,
	ids domain.IDGenerator,
	clock domain.Clock,
) (*domain.Bid, error) {
	if !task.IsOpen() {
		return nil, domain.Errorf(domain.ErrTaskNotOpen, "bids can only be submitted for OPEN tasks, task %d is %s", task.ID, task.Status)
	}
	if bidder == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "bidder is required")
	}
	if bidder.ID == task.RequesterID {
		return nil, domain.Errorf(domain.ErrSelfBiddingForbidden, "user %d posted task %d", bidder.ID, task.ID)
	}
	if !amount.IsPositive() {
		return nil, domain.Errorf(domain.ErrInvalidAmount, "bid amount must be greater than 0, got %s", amount)
	}
	if !domain.FitsMoneyScale(amount) {
		return nil, domain.Errorf(domain.ErrInvalidAmount, "bid amount %s exceeds %d decimal places or the storable range", amount, domain.MoneyScale)
	}
	if len(message) > domain.MaxBidMessageLength {
		return nil, domain.Errorf(domain.ErrValidation, "message cannot exceed %d characters", domain.MaxBidMessageLength)
	}

	id, err := ids.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate bid id: %w", err)
	}

	bid := &domain.Bid{
		ID:        id,
		TaskID:    task.ID,
		BidderID:  bidder.ID,
		Amount:    amount,
		Message:   message,
		Status:    domain.BidStatusPending,
		CreatedAt: clock.Now(),
	}
	task.Bids = append(task.Bids, bid)

	return bid, nil
}

// WithdrawBid moves the bidder's own PENDING bid to CANCELLED.
// A bid that exists but belongs to someone else is reported as not found.
func WithdrawBid(task *domain.Task, bidID, bidderID int64) (*domain.Bid, error) {
	bid := task.FindBid(bidID)
	if bid == nil || bid.BidderID != bidderID {
		return nil, domain.Errorf(domain.ErrBidNotFound, "bid %d by user %d on task %d", bidID, bidderID, task.ID)
	}
	if err := bid.TransitionTo(domain.BidStatusCancelled); err != nil {
		return nil, err
	}
	return bid, nil
}
