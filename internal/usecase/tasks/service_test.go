package tasks

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/taskconnect-backend/internal/adapter/repository/memory"
	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/idgen"
	"github.com/simaogato/taskconnect-backend/internal/usecase/audit"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *TaskService
	store *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Users().Create(ctx,
		&domain.User{ID: 1, Email: "requester@example.com"},
		&domain.Profile{UserID: 1, FirstName: "Rita", LastName: "Reis"},
		[]*domain.Address{{ID: 5, UserID: 1, Street: "Rua Augusta 1", City: "Lisboa"}},
	))
	require.NoError(t, store.Categories().Create(ctx, &domain.Category{ID: 3, Name: "Cleaning"}))

	recorder := audit.NewRecorder(store.History(), nil, nil)
	svc := NewTaskService(store.Tasks(), store.Users(), store.Categories(), store.Addresses(), store.History(),
		idgen.NewSequence(1000), domain.FixedClock{At: testNow}, recorder)
	return fixture{svc: svc, store: store}
}

func validInput() CreateTaskInput {
	return CreateTaskInput{
		Title:       "Deep clean flat",
		Description: "Two bedrooms",
		Budget:      decimal.NewFromInt(90),
		RequesterID: 1,
		CategoryID:  3,
		AddressID:   5,
	}
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, err := f.svc.CreateTask(ctx, validInput())
	require.NoError(t, err)

	assert.Equal(t, int64(1001), task.ID)
	assert.Equal(t, domain.TaskStatusOpen, task.Status)
	assert.Nil(t, task.TaskerID)
	assert.Equal(t, testNow, task.CreatedAt)
	assert.Equal(t, 1, task.Version)

	history, err := f.svc.History(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "OPEN", history[0].To)
}

func TestCreateTask_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateTaskInput)
		wantErr error
	}{
		{name: "Unknown requester", mutate: func(in *CreateTaskInput) { in.RequesterID = 9 }, wantErr: domain.ErrNotFound},
		{name: "Unknown category", mutate: func(in *CreateTaskInput) { in.CategoryID = 9 }, wantErr: domain.ErrNotFound},
		{name: "Unknown address", mutate: func(in *CreateTaskInput) { in.AddressID = 9 }, wantErr: domain.ErrNotFound},
		{name: "Missing title", mutate: func(in *CreateTaskInput) { in.Title = "" }, wantErr: domain.ErrValidation},
		{name: "Long title", mutate: func(in *CreateTaskInput) { in.Title = strings.Repeat("t", 256) }, wantErr: domain.ErrValidation},
		{name: "Negative budget", mutate: func(in *CreateTaskInput) { in.Budget = decimal.NewFromInt(-5) }, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validInput()
			tt.mutate(&in)

			_, err := f.svc.CreateTask(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompleteTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, err := f.svc.CreateTask(ctx, validInput())
	require.NoError(t, err)

	_, err = f.svc.CompleteTask(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "open task cannot be completed")

	stored, _ := f.store.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, stored.Assign(2))
	require.NoError(t, f.store.Tasks().Save(ctx, stored))

	done, err := f.svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, done.Status)
}

func TestCancelTask_RejectsPendingBids(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, err := f.svc.CreateTask(ctx, validInput())
	require.NoError(t, err)

	stored, _ := f.store.Tasks().GetByID(ctx, task.ID)
	stored.Bids = []*domain.Bid{
		{ID: 1, TaskID: task.ID, BidderID: 2, Amount: decimal.NewFromInt(10), Status: domain.BidStatusPending},
		{ID: 2, TaskID: task.ID, BidderID: 3, Amount: decimal.NewFromInt(12), Status: domain.BidStatusCancelled},
	}
	require.NoError(t, f.store.Tasks().Save(ctx, stored))

	cancelled, err := f.svc.CancelTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCancelled, cancelled.Status)
	assert.Equal(t, domain.BidStatusRejected, cancelled.FindBid(1).Status)
	assert.Equal(t, domain.BidStatusCancelled, cancelled.FindBid(2).Status)

	_, err = f.svc.CancelTask(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_TerminalLeavesBidsUntouched(t *testing.T) {
	task := &domain.Task{
		ID: 1, Status: domain.TaskStatusCompleted, TaskerID: new(int64),
		Bids: []*domain.Bid{{ID: 1, TaskID: 1, Status: domain.BidStatusPending}},
	}

	err := Cancel(task)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.BidStatusPending, task.Bids[0].Status)
}

func TestGetTask_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetTask(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.ListBids(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
