package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the settlement status of a task's payment
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusSuccess  TransactionStatus = "SUCCESS"
	TransactionStatusFailed   TransactionStatus = "FAILED"
	TransactionStatusRefunded TransactionStatus = "REFUNDED"
)

// TransactionLifecycle holds the legal transaction status changes.
//
//	PENDING -> SUCCESS | FAILED
//	SUCCESS -> REFUNDED
//	FAILED, REFUNDED are terminal
var TransactionLifecycle = NewStatusMachine("transaction",
	map[TransactionStatus][]TransactionStatus{
		TransactionStatusPending: {TransactionStatusSuccess, TransactionStatusFailed},
		TransactionStatusSuccess: {TransactionStatusRefunded},
	},
	TransactionStatusFailed, TransactionStatusRefunded,
)

// Transaction represents the payment record settling exactly one task.
// Amount, TaskID and CreatedAt are immutable.
type Transaction struct {
	ID        int64
	TaskID    int64
	Amount    decimal.Decimal
	Status    TransactionStatus
	Version   int
	CreatedAt time.Time
}

// NewTransaction creates a PENDING transaction for a task.
func NewTransaction(id, taskID int64, amount decimal.Decimal, createdAt time.Time) (*Transaction, error) {
	if amount.IsNegative() {
		return nil, Errorf(ErrInvalidAmount, "transaction amount cannot be negative")
	}
	if !FitsMoneyScale(amount) {
		return nil, Errorf(ErrInvalidAmount, "transaction amount %s exceeds %d decimal places or the storable range", amount, MoneyScale)
	}
	if taskID == 0 {
		return nil, Errorf(ErrValidation, "transaction task is required")
	}
	return &Transaction{
		ID:        id,
		TaskID:    taskID,
		Amount:    amount,
		Status:    TransactionStatusPending,
		CreatedAt: createdAt,
	}, nil
}

// TransitionTo moves the transaction to s through TransactionLifecycle.
func (tx *Transaction) TransitionTo(s TransactionStatus) error {
	next, err := TransactionLifecycle.Transition(tx.Status, s)
	if err != nil {
		return err
	}
	tx.Status = next
	return nil
}
