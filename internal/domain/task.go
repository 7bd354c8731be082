package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskStatus represents the lifecycle status of a task
type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "OPEN"
	TaskStatusAssigned  TaskStatus = "ASSIGNED"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusCancelled TaskStatus = "CANCELLED"
)

// MaxTaskTitleLength bounds Task.Title.
const MaxTaskTitleLength = 255

// TaskLifecycle holds the legal task status changes.
//
//	OPEN     -> ASSIGNED | CANCELLED
//	ASSIGNED -> COMPLETED | CANCELLED
//	COMPLETED, CANCELLED are terminal
var TaskLifecycle = NewStatusMachine("task",
	map[TaskStatus][]TaskStatus{
		TaskStatusOpen:     {TaskStatusAssigned, TaskStatusCancelled},
		TaskStatusAssigned: {TaskStatusCompleted, TaskStatusCancelled},
	},
	TaskStatusCompleted, TaskStatusCancelled,
)

// Task represents a unit of requested work together with the bids placed on it.
// The task exclusively owns its Bids; the payment transaction and reviews
// reference the task by ID and are looked up through their repositories.
type Task struct {
	ID          int64
	Title       string
	Description string
	Budget      decimal.Decimal
	Status      TaskStatus
	RequesterID int64  // Set once at creation
	TaskerID    *int64 // NULL until the task is assigned
	CategoryID  int64
	AddressID   int64
	Bids        []*Bid
	Version     int // Optimistic concurrency token, bumped by every save
	CreatedAt   time.Time
}

// Validate ensures the task adheres to domain rules
func (t *Task) Validate() error {
	if t.Title == "" {
		return Errorf(ErrValidation, "task title is required")
	}
	if len(t.Title) > MaxTaskTitleLength {
		return Errorf(ErrValidation, "task title cannot exceed %d characters", MaxTaskTitleLength)
	}
	if t.Budget.IsNegative() {
		return Errorf(ErrValidation, "task budget cannot be negative")
	}
	if !FitsMoneyScale(t.Budget) {
		return Errorf(ErrValidation, "task budget %s exceeds %d decimal places or the storable range", t.Budget, MoneyScale)
	}
	if t.RequesterID == 0 {
		return Errorf(ErrValidation, "task requester is required")
	}
	if !TaskLifecycle.Known(t.Status) {
		return Errorf(ErrInvalidState, "unknown task status %q", t.Status)
	}

	// Tasker is unset while OPEN and set once work has been assigned
	switch t.Status {
	case TaskStatusOpen:
		if t.TaskerID != nil {
			return Errorf(ErrValidation, "open task cannot have a tasker")
		}
	case TaskStatusAssigned, TaskStatusCompleted:
		if t.TaskerID == nil {
			return Errorf(ErrValidation, "%s task must have a tasker", t.Status)
		}
	}

	accepted := 0
	for _, b := range t.Bids {
		if b.Status == BidStatusAccepted {
			accepted++
		}
	}
	if accepted > 1 {
		return Errorf(ErrValidation, "task %d has %d accepted bids", t.ID, accepted)
	}

	return nil
}

// IsOpen reports whether the task still accepts bids.
func (t *Task) IsOpen() bool {
	return t.Status == TaskStatusOpen
}

// TransitionTo moves the task to s through TaskLifecycle.
// ASSIGNED is only reachable through Assign, which also binds the tasker.
func (t *Task) TransitionTo(s TaskStatus) error {
	if s == TaskStatusAssigned {
		return Errorf(ErrInvalidTransition, "task %d must be assigned to a tasker", t.ID)
	}
	next, err := TaskLifecycle.Transition(t.Status, s)
	if err != nil {
		return err
	}
	t.Status = next
	return nil
}

// Cancel moves the task to CANCELLED.
func (t *Task) Cancel() error {
	return t.TransitionTo(TaskStatusCancelled)
}

// Complete moves an assigned task to COMPLETED.
func (t *Task) Complete() error {
	return t.TransitionTo(TaskStatusCompleted)
}

// Assign moves the task from OPEN to ASSIGNED and binds the worker.
// Either both changes are applied or neither is.
func (t *Task) Assign(workerID int64) error {
	if workerID == 0 {
		return Errorf(ErrValidation, "tasker is required to assign task %d", t.ID)
	}
	if err := TaskLifecycle.Validate(t.Status, TaskStatusAssigned); err != nil {
		return err
	}
	t.Status = TaskStatusAssigned
	t.TaskerID = &workerID
	return nil
}

// FindBid returns the bid with the given ID from the task's collection, or nil.
func (t *Task) FindBid(bidID int64) *Bid {
	for _, b := range t.Bids {
		if b.ID == bidID {
			return b
		}
	}
	return nil
}

// AcceptedBid returns the task's accepted bid, or nil.
func (t *Task) AcceptedBid() *Bid {
	for _, b := range t.Bids {
		if b.Status == BidStatusAccepted {
			return b
		}
	}
	return nil
}

// Clone returns a deep copy of the task and its bids.
func (t *Task) Clone() *Task {
	c := *t
	if t.TaskerID != nil {
		id := *t.TaskerID
		c.TaskerID = &id
	}
	c.Bids = make([]*Bid, len(t.Bids))
	for i, b := range t.Bids {
		bc := *b
		c.Bids[i] = &bc
	}
	return &c
}
