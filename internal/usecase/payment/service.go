package payment

import (
	"context"
	"fmt"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// PaymentService keeps the payment record of a task. It only tracks the
// settlement status; moving money happens elsewhere.
type PaymentService struct {
	TaskRepo        domain.TaskRepository
	TransactionRepo domain.TransactionRepository
	IDs             domain.IDGenerator
	Clock           domain.Clock
	Recorder        domain.StatusRecorder
}

// NewPaymentService creates a new PaymentService instance
func NewPaymentService(
	taskRepo domain.TaskRepository,
	transactionRepo domain.TransactionRepository,
	ids domain.IDGenerator,
	clock domain.Clock,
	recorder domain.StatusRecorder,
) *PaymentService {
	return &PaymentService{
		TaskRepo:        taskRepo,
		TransactionRepo: transactionRepo,
		IDs:             ids,
		Clock:           clock,
		Recorder:        recorder,
	}
}

// OpenTransaction creates the PENDING transaction for an ASSIGNED or
// COMPLETED task. The amount is the accepted bid's amount, or the task budget
// when the task carries no accepted bid. A task has at most one transaction.
func (s *PaymentService) OpenTransaction(ctx context.Context, taskID int64) (*domain.Transaction, error) {
	task, err := s.TaskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.TaskStatusAssigned && task.Status != domain.TaskStatusCompleted {
		return nil, domain.Errorf(domain.ErrValidation, "transactions can only be opened for ASSIGNED or COMPLETED tasks, task %d is %s", task.ID, task.Status)
	}

	amount := task.Budget
	if accepted := task.AcceptedBid(); accepted != nil {
		amount = accepted.Amount
	}

	id, err := s.IDs.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate transaction id: %w", err)
	}
	tx, err := domain.NewTransaction(id, task.ID, amount, s.Clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.Recorder.Record(ctx, []domain.StatusChange{domain.TransactionChange(tx, "", tx.CreatedAt)})
	return tx, nil
}

// Settle moves a transaction to status through TransactionLifecycle.
func (s *PaymentService) Settle(ctx context.Context, txID int64, status domain.TransactionStatus) (*domain.Transaction, error) {
	tx, err := s.TransactionRepo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}

	from := tx.Status
	if err := tx.TransitionTo(status); err != nil {
		return nil, err
	}
	if err := s.TransactionRepo.Update(ctx, tx); err != nil {
		return nil, err
	}

	s.Recorder.Record(ctx, []domain.StatusChange{domain.TransactionChange(tx, from, s.Clock.Now())})
	return tx, nil
}

// GetTransaction retrieves a transaction by its ID
func (s *PaymentService) GetTransaction(ctx context.Context, txID int64) (*domain.Transaction, error) {
	return s.TransactionRepo.GetByID(ctx, txID)
}

// GetTaskTransaction retrieves the transaction settling a task
func (s *PaymentService) GetTaskTransaction(ctx context.Context, taskID int64) (*domain.Transaction, error) {
	return s.TransactionRepo.GetByTaskID(ctx, taskID)
}
