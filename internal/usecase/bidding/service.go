package bidding

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// SubmitBidInput represents the input for submitting a bid
type SubmitBidInput struct {
	TaskID   int64
	BidderID int64
	Amount   decimal.Decimal
	Message  string
}

// BiddingService handles bid submission and withdrawal
type BiddingService struct {
	TaskRepo domain.TaskRepository
	Users    domain.UserDirectory
	IDs      domain.IDGenerator
	Clock    domain.Clock
	Recorder domain.StatusRecorder
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(
	taskRepo domain.TaskRepository,
	users domain.UserDirectory,
	ids domain.IDGenerator,
	clock domain.Clock,
	recorder domain.StatusRecorder,
) *BiddingService {
	return &BiddingService{
		TaskRepo: taskRepo,
		Users:    users,
		IDs:      ids,
		Clock:    clock,
		Recorder: recorder,
	}
}

// SubmitBid places a new PENDING bid on an OPEN task.
// Logic:
//  1. Load the task; reject early if it is not OPEN
//  2. Resolve the bidder (ErrNotFound if unknown)
//  3. Run the bidding coordinator, which appends the bid to the task
//  4. Save the task with its bids under the task's version
//  5. Record the new bid
func (s *BiddingService) SubmitBid(ctx context.Context, input SubmitBidInput) (*domain.Bid, error) {
	task, err := s.TaskRepo.GetByID(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}
	if !task.IsOpen() {
		return nil, domain.Errorf(domain.ErrTaskNotOpen, "bids can only be submitted for OPEN tasks, task %d is %s", task.ID, task.Status)
	}

	bidder, err := s.Users.GetByID(ctx, input.BidderID)
	if err != nil {
		return nil, err
	}

	before := task.Clone()
	bid, err := SubmitBid(task, bidder, input.Amount, input.Message, s.IDs, s.Clock)
	if err != nil {
		return nil, err
	}

	if err := s.TaskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	s.Recorder.Record(ctx, domain.DiffTask(before, task, bid.CreatedAt))
	return bid, nil
}

// WithdrawBid lets a bidder cancel their own PENDING bid.
func (s *BiddingService) WithdrawBid(ctx context.Context, taskID, bidID, bidderID int64) (*domain.Bid, error) {
	task, err := s.TaskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	before := task.Clone()
	bid, err := WithdrawBid(task, bidID, bidderID)
	if err != nil {
		return nil, err
	}

	if err := s.TaskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	s.Recorder.Record(ctx, domain.DiffTask(before, task, s.Clock.Now()))
	return bid, nil
}
