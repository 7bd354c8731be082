package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMachine_Validate(t *testing.T) {
	tests := []struct {
		name      string
		current   TaskStatus
		requested TaskStatus
		wantErr   error
	}{
		{name: "OPEN to ASSIGNED is legal", current: TaskStatusOpen, requested: TaskStatusAssigned},
		{name: "OPEN to CANCELLED is legal", current: TaskStatusOpen, requested: TaskStatusCancelled},
		{name: "ASSIGNED to COMPLETED is legal", current: TaskStatusAssigned, requested: TaskStatusCompleted},
		{name: "ASSIGNED to CANCELLED is legal", current: TaskStatusAssigned, requested: TaskStatusCancelled},
		{name: "OPEN to COMPLETED skips assignment", current: TaskStatusOpen, requested: TaskStatusCompleted, wantErr: ErrInvalidTransition},
		{name: "ASSIGNED back to OPEN", current: TaskStatusAssigned, requested: TaskStatusOpen, wantErr: ErrInvalidTransition},
		{name: "same state is rejected", current: TaskStatusOpen, requested: TaskStatusOpen, wantErr: ErrInvalidTransition},
		{name: "COMPLETED is terminal", current: TaskStatusCompleted, requested: TaskStatusCancelled, wantErr: ErrInvalidTransition},
		{name: "CANCELLED is terminal", current: TaskStatusCancelled, requested: TaskStatusOpen, wantErr: ErrInvalidTransition},
		{name: "unknown requested state", current: TaskStatusOpen, requested: "ARCHIVED", wantErr: ErrInvalidState},
		{name: "empty requested state", current: TaskStatusOpen, requested: "", wantErr: ErrInvalidState},
		{name: "unknown current state", current: "DRAFT", requested: TaskStatusOpen, wantErr: ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TaskLifecycle.Validate(tt.current, tt.requested)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.True(t, TaskLifecycle.CanTransition(tt.current, tt.requested))
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, TaskLifecycle.CanTransition(tt.current, tt.requested))
		})
	}
}

func TestStatusMachine_Transition(t *testing.T) {
	next, err := TransactionLifecycle.Transition(TransactionStatusPending, TransactionStatusSuccess)
	require.NoError(t, err)
	assert.Equal(t, TransactionStatusSuccess, next)

	next, err = TransactionLifecycle.Transition(TransactionStatusFailed, TransactionStatusRefunded)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, TransactionStatusFailed, next, "current state is returned on failure")
}

func TestStatusMachine_Terminal(t *testing.T) {
	assert.True(t, TaskLifecycle.IsTerminal(TaskStatusCompleted))
	assert.True(t, TaskLifecycle.IsTerminal(TaskStatusCancelled))
	assert.False(t, TaskLifecycle.IsTerminal(TaskStatusOpen))

	assert.True(t, BidLifecycle.IsTerminal(BidStatusRejected))
	assert.True(t, BidLifecycle.IsTerminal(BidStatusCancelled))
	assert.False(t, BidLifecycle.IsTerminal(BidStatusAccepted))

	assert.True(t, TransactionLifecycle.IsTerminal(TransactionStatusFailed))
	assert.True(t, TransactionLifecycle.IsTerminal(TransactionStatusRefunded))
	assert.False(t, TransactionLifecycle.IsTerminal(TransactionStatusSuccess))

	for _, s := range []TaskStatus{TaskStatusCompleted, TaskStatusCancelled} {
		assert.Empty(t, TaskLifecycle.Targets(s))
	}
	assert.ElementsMatch(t, []TaskStatus{TaskStatusAssigned, TaskStatusCancelled}, TaskLifecycle.Targets(TaskStatusOpen))
}

func TestBidLifecycle_AcceptedOnlyRevertsToPending(t *testing.T) {
	assert.ElementsMatch(t, []BidStatus{BidStatusPending}, BidLifecycle.Targets(BidStatusAccepted))
	assert.True(t, BidLifecycle.CanTransition(BidStatusAccepted, BidStatusPending))
	assert.False(t, BidLifecycle.CanTransition(BidStatusAccepted, BidStatusRejected))
	assert.False(t, BidLifecycle.CanTransition(BidStatusAccepted, BidStatusCancelled))
}

func TestNewStatusMachine_PanicsOnTerminalWithEdges(t *testing.T) {
	type light string
	assert.Panics(t, func() {
		NewStatusMachine("light",
			map[light][]light{"RED": {"GREEN"}, "GREEN": {"RED"}},
			light("RED"),
		)
	})
}

func TestError_KindCode(t *testing.T) {
	err := Errorf(ErrTaskNotOpen, "task %d is %s", 7, TaskStatusAssigned)
	assert.True(t, errors.Is(err, ErrTaskNotOpen))
	assert.Equal(t, "task is not open: task 7 is ASSIGNED", err.Error())
	assert.Equal(t, "TASK_NOT_OPEN", KindCode(err))
	assert.Equal(t, "INTERNAL", KindCode(errors.New("boom")))

	assert.True(t, IsRetryable(Errorf(ErrConcurrentModification, "task 7")))
	assert.False(t, IsRetryable(err))
}
