package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	now := time.Now()

	tx, err := NewTransaction(5, 1, decimal.NewFromInt(100), now)
	require.NoError(t, err)
	assert.Equal(t, TransactionStatusPending, tx.Status)
	assert.Equal(t, now, tx.CreatedAt)

	_, err = NewTransaction(5, 1, decimal.NewFromInt(-1), now)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewTransaction(5, 0, decimal.NewFromInt(1), now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewTransaction_MoneyScale(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "Whole amount", amount: "100"},
		{name: "Cents", amount: "99.99"},
		{name: "Trailing zeros", amount: "12.500"},
		{name: "Sub-cent", amount: "0.001", wantErr: true},
		{name: "Fraction of a cent", amount: "100.005", wantErr: true},
		{name: "Largest storable", amount: "9999999999.99"},
		{name: "Beyond storable range", amount: "10000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(5, 1, decimal.RequireFromString(tt.amount), time.Now())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				assert.Nil(t, tx)
				return
			}
			require.NoError(t, err)
			assert.True(t, tx.Amount.Equal(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestTransaction_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		path    []TransactionStatus
		want    TransactionStatus
		wantErr error
	}{
		{name: "Pending settles successfully", path: []TransactionStatus{TransactionStatusSuccess}, want: TransactionStatusSuccess},
		{name: "Pending fails", path: []TransactionStatus{TransactionStatusFailed}, want: TransactionStatusFailed},
		{name: "Success is refunded", path: []TransactionStatus{TransactionStatusSuccess, TransactionStatusRefunded}, want: TransactionStatusRefunded},
		{name: "Pending cannot be refunded", path: []TransactionStatus{TransactionStatusRefunded}, want: TransactionStatusPending, wantErr: ErrInvalidTransition},
		{name: "Failed is terminal", path: []TransactionStatus{TransactionStatusFailed, TransactionStatusSuccess}, want: TransactionStatusFailed, wantErr: ErrInvalidTransition},
		{name: "Refunded is terminal", path: []TransactionStatus{TransactionStatusSuccess, TransactionStatusRefunded, TransactionStatusSuccess}, want: TransactionStatusRefunded, wantErr: ErrInvalidTransition},
		{name: "Unknown status", path: []TransactionStatus{"CHARGEBACK"}, want: TransactionStatusPending, wantErr: ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{ID: 1, TaskID: 1, Amount: decimal.NewFromInt(10), Status: TransactionStatusPending}

			var err error
			for _, s := range tt.path {
				if err = tx.TransitionTo(s); err != nil {
					break
				}
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, tx.Status)
		})
	}
}
