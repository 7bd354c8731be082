package acceptance

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// AcceptanceService loads a task, runs AcceptBid and persists the result as one unit
type AcceptanceService struct {
	TaskRepo domain.TaskRepository
	Clock    domain.Clock
	Recorder domain.StatusRecorder
}

// NewAcceptanceService creates a new AcceptanceService instance
func NewAcceptanceService(taskRepo domain.TaskRepository, clock domain.Clock, recorder domain.StatusRecorder) *AcceptanceService {
	return &AcceptanceService{
		TaskRepo: taskRepo,
		Clock:    clock,
		Recorder: recorder,
	}
}

// AcceptBid accepts bidID on taskID and returns the assigned task.
// Logic:
//  1. Load the task with its bids
//  2. Run the acceptance coordinator on it
//  3. Save task and bids under the task's version; a concurrent writer makes
//     this fail with ErrConcurrentModification and nothing is written
//  4. Record the status changes
func (s *AcceptanceService) AcceptBid(ctx context.Context, taskID, bidID int64) (*domain.Task, error) {
	task, err := s.TaskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	before := task.Clone()

	if _, err := AcceptBid(task, bidID); err != nil {
		if errors.Is(err, domain.ErrBidNotFound) {
			return nil, s.foreignBid(ctx, taskID, bidID, err)
		}
		return nil, err
	}

	if err := s.TaskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	s.Recorder.Record(ctx, domain.DiffTask(before, task, s.Clock.Now()))
	return task, nil
}

// foreignBid reports ErrBidTaskMismatch when bidID exists on another task,
// and notFound when it exists nowhere. Any other lookup failure is returned.
func (s *AcceptanceService) foreignBid(ctx context.Context, taskID, bidID int64, notFound error) error {
	bid, err := s.TaskRepo.GetBid(ctx, bidID)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up bid %d: %w", bidID, err)
	}
	if bid.TaskID == taskID {
		return notFound
	}
	return domain.Errorf(domain.ErrBidTaskMismatch, "bid %d belongs to task %d, not %d", bidID, bid.TaskID, taskID)
}
