package acceptance

import (
	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// AcceptBid accepts the winning bid, assigns the task to its bidder and
// rejects every other PENDING bid on the task.
//
// All preconditions are checked before anything is written:
//  1. task must be OPEN (ErrTaskNotOpen)
//  2. the bid must be in task.Bids (ErrBidNotFound) and point back at task (ErrBidTaskMismatch)
//  3. the bid must be PENDING (ErrInvalidTransition)
//  4. no other bid may already be ACCEPTED (ErrInvalidState)
//
// The transitions are then applied to a copy, and only copied back onto task
// and its bids once all of them succeeded. On error task is left untouched.
// Bids already ACCEPTED, REJECTED or CANCELLED are not modified.
func AcceptBid(task *domain.Task, winningBidID int64) (*domain.Task, error) {
	if !task.IsOpen() {
		return nil, domain.Errorf(domain.ErrTaskNotOpen, "task %d is %s, only OPEN tasks can accept bids", task.ID, task.Status)
	}

	winner := task.FindBid(winningBidID)
	if winner == nil {
		return nil, domain.Errorf(domain.ErrBidNotFound, "bid %d on task %d", winningBidID, task.ID)
	}
	if winner.TaskID != task.ID {
		return nil, domain.Errorf(domain.ErrBidTaskMismatch, "bid %d belongs to task %d, not %d", winner.ID, winner.TaskID, task.ID)
	}
	if err := domain.BidLifecycle.Validate(winner.Status, domain.BidStatusAccepted); err != nil {
		return nil, err
	}
	if prior := task.AcceptedBid(); prior != nil {
		return nil, domain.Errorf(domain.ErrInvalidState, "task %d already has accepted bid %d", task.ID, prior.ID)
	}

	work := task.Clone()
	if err := apply(work, winningBidID); err != nil {
		return nil, err
	}

	task.Status = work.Status
	task.TaskerID = work.TaskerID
	for i, b := range work.Bids {
		*task.Bids[i] = *b
	}

	return task, nil
}

// apply performs the acceptance on work, which the caller may discard on error.
func apply(work *domain.Task, winningBidID int64) error {
	winner := work.FindBid(winningBidID)

	if err := winner.TransitionTo(domain.BidStatusAccepted); err != nil {
		return err
	}
	if err := work.Assign(winner.BidderID); err != nil {
		return err
	}
	for _, b := range work.Bids {
		if b.ID == winningBidID || !b.IsPending() {
			continue
		}
		if err := b.TransitionTo(domain.BidStatusRejected); err != nil {
			return err
		}
	}
	return nil
}
