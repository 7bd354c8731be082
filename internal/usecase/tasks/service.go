package tasks

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// CreateTaskInput represents the input for posting a task
type CreateTaskInput struct {
	Title       string
	Description string
	Budget      decimal.Decimal
	RequesterID int64
	CategoryID  int64
	AddressID   int64
}

// TaskService handles the task lifecycle outside bidding and acceptance
type TaskService struct {
	TaskRepo     domain.TaskRepository
	Users        domain.UserDirectory
	CategoryRepo domain.CategoryRepository
	AddressRepo  domain.AddressRepository
	HistoryRepo  domain.StatusHistoryRepository
	IDs          domain.IDGenerator
	Clock        domain.Clock
	Recorder     domain.StatusRecorder
}

// NewTaskService creates a new TaskService instance
func NewTaskService(
	taskRepo domain.TaskRepository,
	users domain.UserDirectory,
	categoryRepo domain.CategoryRepository,
	addressRepo domain.AddressRepository,
	historyRepo domain.StatusHistoryRepository,
	ids domain.IDGenerator,
	clock domain.Clock,
	recorder domain.StatusRecorder,
) *TaskService {
	return &TaskService{
		TaskRepo:     taskRepo,
		Users:        users,
		CategoryRepo: categoryRepo,
		AddressRepo:  addressRepo,
		HistoryRepo:  historyRepo,
		IDs:          ids,
		Clock:        clock,
		Recorder:     recorder,
	}
}

// CreateTask posts a new OPEN task.
// Logic:
//  1. Resolve requester, category and address (ErrNotFound for any missing one)
//  2. Build the task with an allocated id and the current time
//  3. Validate and store it
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	if _, err := s.Users.GetByID(ctx, input.RequesterID); err != nil {
		return nil, err
	}
	if _, err := s.CategoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if _, err := s.AddressRepo.GetByID(ctx, input.AddressID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Status:      domain.TaskStatusOpen,
		RequesterID: input.RequesterID,
		CategoryID:  input.CategoryID,
		AddressID:   input.AddressID,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	id, err := s.IDs.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate task id: %w", err)
	}
	task.ID = id
	task.CreatedAt = s.Clock.Now()

	if err := s.TaskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.Recorder.Record(ctx, domain.DiffTask(nil, task, task.CreatedAt))
	return task, nil
}

// GetTask retrieves a task with its bids
func (s *TaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return s.TaskRepo.GetByID(ctx, id)
}

// ListBids retrieves the bids placed on a task
func (s *TaskService) ListBids(ctx context.Context, taskID int64) ([]*domain.Bid, error) {
	return s.TaskRepo.ListBids(ctx, taskID)
}

// History retrieves the recorded status changes of a task and its bids
func (s *TaskService) History(ctx context.Context, taskID int64) ([]domain.StatusChange, error) {
	if _, err := s.TaskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.HistoryRepo.ListByTask(ctx, taskID)
}

// CompleteTask moves an ASSIGNED task to COMPLETED
func (s *TaskService) CompleteTask(ctx context.Context, taskID int64) (*domain.Task, error) {
	return s.update(ctx, taskID, func(t *domain.Task) error { return t.Complete() })
}

// CancelTask cancels an OPEN or ASSIGNED task and rejects its PENDING bids
func (s *TaskService) CancelTask(ctx context.Context, taskID int64) (*domain.Task, error) {
	return s.update(ctx, taskID, Cancel)
}

// update loads the task, applies fn, saves under the task's version and
// records the resulting changes.
func (s *TaskService) update(ctx context.Context, taskID int64, fn func(*domain.Task) error) (*domain.Task, error) {
	task, err := s.TaskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	before := task.Clone()

	if err := fn(task); err != nil {
		return nil, err
	}
	if err := s.TaskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	s.Recorder.Record(ctx, domain.DiffTask(before, task, s.Clock.Now()))
	return task, nil
}

// Cancel moves task to CANCELLED and every PENDING bid on it to REJECTED.
// Nothing changes when the task cannot be cancelled.
func Cancel(task *domain.Task) error {
	if err := domain.TaskLifecycle.Validate(task.Status, domain.TaskStatusCancelled); err != nil {
		return err
	}
	for _, b := range task.Bids {
		if b.IsPending() {
			if err := b.TransitionTo(domain.BidStatusRejected); err != nil {
				return err
			}
		}
	}
	return task.Cancel()
}
