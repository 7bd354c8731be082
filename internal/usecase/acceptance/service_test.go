package acceptance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/taskconnect-backend/internal/adapter/repository/memory"
	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// MockTaskRepository is a mock implementation of TaskRepository for testing
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) ListBids(ctx context.Context, taskID int64) ([]*domain.Bid, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Bid), args.Error(1)
}

func (m *MockTaskRepository) GetBid(ctx context.Context, bidID int64) (*domain.Bid, error) {
	args := m.Called(ctx, bidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

// capture records what the service reports after a commit.
type capture struct {
	mu      sync.Mutex
	changes []domain.StatusChange
}

func (c *capture) Record(_ context.Context, changes []domain.StatusChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, changes...)
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *memory.Store, task *domain.Task) {
	t.Helper()
	require.NoError(t, store.Tasks().Create(context.Background(), task))
}

func TestAcceptanceService_AcceptBid(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rec := &capture{}
	svc := NewAcceptanceService(store.Tasks(), domain.FixedClock{At: testNow}, rec)

	seed(t, store, newTask(bid(100, u2, 100, domain.BidStatusPending), bid(101, u3, 120, domain.BidStatusPending)))

	task, err := svc.AcceptBid(ctx, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusAssigned, task.Status)
	assert.Equal(t, 2, task.Version)

	stored, err := store.Tasks().GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusAssigned, stored.Status)
	assert.Equal(t, u2, *stored.TaskerID)
	assert.Equal(t, domain.BidStatusAccepted, stored.FindBid(100).Status)
	assert.Equal(t, domain.BidStatusRejected, stored.FindBid(101).Status)

	assert.Equal(t, []domain.StatusChange{
		{Entity: domain.EntityTask, EntityID: 10, TaskID: 10, From: "OPEN", To: "ASSIGNED", ChangedAt: testNow},
		{Entity: domain.EntityBid, EntityID: 100, TaskID: 10, From: "PENDING", To: "ACCEPTED", ChangedAt: testNow},
		{Entity: domain.EntityBid, EntityID: 101, TaskID: 10, From: "PENDING", To: "REJECTED", ChangedAt: testNow},
	}, rec.changes)

	// Second call on the assigned task
	_, err = svc.AcceptBid(ctx, 10, 101)
	assert.ErrorIs(t, err, domain.ErrTaskNotOpen)
	stored, _ = store.Tasks().GetByID(ctx, 10)
	assert.Equal(t, domain.BidStatusAccepted, stored.FindBid(100).Status)
	assert.Equal(t, domain.BidStatusRejected, stored.FindBid(101).Status)
}

func TestAcceptanceService_BidOfAnotherTask(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewAcceptanceService(store.Tasks(), domain.FixedClock{At: testNow}, &capture{})

	seed(t, store, newTask(bid(100, u2, 100, domain.BidStatusPending)))
	other := newTask(&domain.Bid{ID: 200, TaskID: 20, BidderID: u3, Amount: decimal.NewFromInt(5), Status: domain.BidStatusPending})
	other.ID = 20
	seed(t, store, other)

	_, err := svc.AcceptBid(ctx, 10, 200)
	assert.ErrorIs(t, err, domain.ErrBidTaskMismatch)

	_, err = svc.AcceptBid(ctx, 10, 999)
	assert.ErrorIs(t, err, domain.ErrBidNotFound)

	_, err = svc.AcceptBid(ctx, 404, 100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcceptanceService_SaveFailureRecordsNothing(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTaskRepository)
	rec := &capture{}
	svc := NewAcceptanceService(repo, domain.FixedClock{At: testNow}, rec)

	repo.On("GetByID", ctx, int64(10)).Return(newTask(bid(100, u2, 100, domain.BidStatusPending)), nil)
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Task")).
		Return(domain.Errorf(domain.ErrConcurrentModification, "task 10"))

	_, err := svc.AcceptBid(ctx, 10, 100)

	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Empty(t, rec.changes)
	repo.AssertExpectations(t)
}

func TestAcceptanceService_LoadFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTaskRepository)
	svc := NewAcceptanceService(repo, domain.FixedClock{At: testNow}, &capture{})

	repo.On("GetByID", ctx, int64(10)).Return(nil, errors.New("connection reset"))

	_, err := svc.AcceptBid(ctx, 10, 100)
	assert.EqualError(t, err, "connection reset")
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAcceptanceService_UnknownBidLookup(t *testing.T) {
	ctx := context.Background()
	outage := errors.New("connection reset")

	tests := []struct {
		name      string
		bid       *domain.Bid
		lookupErr error
		wantErr   error
		notKind   error
	}{
		{name: "Bid exists nowhere", lookupErr: domain.Errorf(domain.ErrNotFound, "bid 999"), wantErr: domain.ErrBidNotFound},
		{name: "Bid on another task", bid: &domain.Bid{ID: 999, TaskID: 20}, wantErr: domain.ErrBidTaskMismatch},
		{name: "Lookup fails", lookupErr: outage, wantErr: outage, notKind: domain.ErrBidNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTaskRepository)
			rec := &capture{}
			svc := NewAcceptanceService(repo, domain.FixedClock{At: testNow}, rec)

			repo.On("GetByID", ctx, int64(10)).Return(newTask(bid(100, u2, 100, domain.BidStatusPending)), nil)
			if tt.bid != nil {
				repo.On("GetBid", ctx, int64(999)).Return(tt.bid, nil)
			} else {
				repo.On("GetBid", ctx, int64(999)).Return(nil, tt.lookupErr)
			}

			_, err := svc.AcceptBid(ctx, 10, 999)

			assert.ErrorIs(t, err, tt.wantErr)
			if tt.notKind != nil {
				assert.NotErrorIs(t, err, tt.notKind)
				assert.ErrorContains(t, err, "failed to look up bid 999")
			}
			assert.Empty(t, rec.changes)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			repo.AssertExpectations(t)
		})
	}
}

// Two requests racing on the same task: exactly one wins, the other fails
// with a conflict or, if it read after the commit, with TaskNotOpen.
func TestAcceptanceService_ConcurrentAccept(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewAcceptanceService(store.Tasks(), domain.FixedClock{At: testNow}, &capture{})

	seed(t, store, newTask(bid(100, u2, 100, domain.BidStatusPending), bid(101, u3, 120, domain.BidStatusPending)))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, bidID := range []int64{100, 101} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.AcceptBid(ctx, 10, bidID)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t,
			errors.Is(err, domain.ErrConcurrentModification) || errors.Is(err, domain.ErrTaskNotOpen),
			"unexpected error %v", err)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := store.Tasks().GetByID(ctx, 10)
	require.NoError(t, err)
	accepted := 0
	for _, b := range stored.Bids {
		if b.Status == domain.BidStatusAccepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}
