//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/orlangure/gnomock"
	pgpreset "github.com/orlangure/gnomock/preset/postgres"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/taskconnect-backend/internal/config"
	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/idgen"
	"github.com/simaogato/taskconnect-backend/internal/usecase/acceptance"
	"github.com/simaogato/taskconnect-backend/internal/usecase/audit"
)

var (
	testDB *DB
	ids    = idgen.NewSequence(1000)
	now    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// TestMain starts one shared PostgreSQL container for the package.
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	container, err := gnomock.Start(pgpreset.Preset(
		pgpreset.WithVersion("16"),
		pgpreset.WithUser("taskconnect", "taskconnect"),
		pgpreset.WithDatabase("taskconnect"),
	))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		return 1
	}
	defer func() { _ = gnomock.Stop(container) }()

	cfg := config.Defaults().Postgres
	cfg.DSN = fmt.Sprintf("host=%s port=%d user=taskconnect password=taskconnect dbname=taskconnect sslmode=disable",
		container.Host, container.DefaultPort())

	testDB, err = NewDB(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		return 1
	}
	defer testDB.Close()

	if err := testDB.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		return 1
	}

	return m.Run()
}

func nextID(t *testing.T) int64 {
	t.Helper()
	id, err := ids.NextID()
	require.NoError(t, err)
	return id
}

func createUser(t *testing.T) *domain.User {
	t.Helper()
	id := nextID(t)
	u := &domain.User{ID: id, Email: fmt.Sprintf("user%d@example.com", id), CreatedAt: now}
	p := &domain.Profile{UserID: id, FirstName: "Test", LastName: "User"}
	require.NoError(t, NewUserRepository(testDB).Create(context.Background(), u, p, nil))
	return u
}

func createOpenTask(t *testing.T, requester int64, bidders ...int64) *domain.Task {
	t.Helper()
	task := &domain.Task{
		ID:          nextID(t),
		Title:       "Paint the fence",
		Budget:      decimal.NewFromInt(150),
		Status:      domain.TaskStatusOpen,
		RequesterID: requester,
		CreatedAt:   now,
	}
	for i, bidder := range bidders {
		task.Bids = append(task.Bids, &domain.Bid{
			ID:        nextID(t),
			TaskID:    task.ID,
			BidderID:  bidder,
			Amount:    decimal.NewFromInt(int64(100 + 10*i)),
			Status:    domain.BidStatusPending,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
	}
	require.NoError(t, NewTaskRepository(testDB).Create(context.Background(), task))
	return task
}

func TestMigrationVersion(t *testing.T) {
	v, err := testDB.MigrationVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestTaskRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(testDB)
	requester, bidder := createUser(t), createUser(t)
	task := createOpenTask(t, requester.ID, bidder.ID)

	loaded, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Version)
	assert.True(t, loaded.Budget.Equal(decimal.NewFromInt(150)))
	require.Len(t, loaded.Bids, 1)
	assert.Equal(t, bidder.ID, loaded.Bids[0].BidderID)

	bid, err := repo.GetBid(ctx, task.Bids[0].ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, bid.TaskID)

	_, err = repo.GetByID(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.ListBids(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepository_SaveVersionCheck(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(testDB)
	requester := createUser(t)
	task := createOpenTask(t, requester.ID)

	first, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)

	require.NoError(t, first.Cancel())
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, 2, first.Version)

	second.Title = "Stale write"
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	reloaded, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCancelled, reloaded.Status)
}

func TestAcceptBid_OnPostgres(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(testDB)
	requester, u2, u3 := createUser(t), createUser(t), createUser(t)
	task := createOpenTask(t, requester.ID, u2.ID, u3.ID)
	b1, b2 := task.Bids[0].ID, task.Bids[1].ID

	svc := acceptance.NewAcceptanceService(repo, domain.FixedClock{At: now}, audit.NewRecorder(NewHistoryRepository(testDB), nil, nil))

	assigned, err := svc.AcceptBid(ctx, task.ID, b1)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusAssigned, assigned.Status)

	_, err = svc.AcceptBid(ctx, task.ID, b2)
	assert.ErrorIs(t, err, domain.ErrTaskNotOpen)

	loaded, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.TaskerID)
	assert.Equal(t, u2.ID, *loaded.TaskerID)
	assert.Equal(t, domain.BidStatusAccepted, loaded.FindBid(b1).Status)
	assert.Equal(t, domain.BidStatusRejected, loaded.FindBid(b2).Status)

	history, err := NewHistoryRepository(testDB).ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB)
	u := createUser(t)

	dup := &domain.User{ID: nextID(t), Email: "USER" + u.Email[4:], CreatedAt: now}
	err := repo.Create(ctx, dup, &domain.Profile{UserID: dup.ID, FirstName: "A", LastName: "B"}, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	found, err := repo.GetByEmail(ctx, dup.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestProfileAndAddress(t *testing.T) {
	ctx := context.Background()
	u := createUser(t)
	profiles := NewProfileRepository(testDB)
	addresses := NewAddressRepository(testDB)

	p, err := profiles.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	p.TaskerRating = decimal.RequireFromString("4.33")
	require.NoError(t, profiles.Update(ctx, p))

	p, err = profiles.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.33", p.TaskerRating.String())

	require.NoError(t, addresses.Create(ctx, &domain.Address{ID: nextID(t), UserID: u.ID, Street: "Main St 1", City: "Porto"}))
	list, err := addresses.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	err = addresses.Create(ctx, &domain.Address{ID: nextID(t), UserID: -5, Street: "x", City: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(testDB)
	requester := createUser(t)
	task := createOpenTask(t, requester.ID)

	tx, err := domain.NewTransaction(nextID(t), task.ID, decimal.NewFromInt(90), now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx))

	again, err := domain.NewTransaction(nextID(t), task.ID, decimal.NewFromInt(90), now)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, again), domain.ErrAlreadyExists)

	stale, err := repo.GetByTaskID(ctx, task.ID)
	require.NoError(t, err)

	require.NoError(t, tx.TransitionTo(domain.TransactionStatusSuccess))
	require.NoError(t, repo.Update(ctx, tx))

	require.NoError(t, stale.TransitionTo(domain.TransactionStatusFailed))
	assert.ErrorIs(t, repo.Update(ctx, stale), domain.ErrConcurrentModification)
}

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository(testDB)
	requester, tasker := createUser(t), createUser(t)
	task := createOpenTask(t, requester.ID)

	review := &domain.Review{
		ID: nextID(t), TaskID: task.ID, ReviewerID: requester.ID, ReviewedID: tasker.ID,
		Role: domain.RatingKindTasker, Rating: 5, CreatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, review))

	dup := *review
	dup.ID = nextID(t)
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrAlreadyExists)

	got, err := repo.ListByReviewed(ctx, tasker.ID, domain.RatingKindTasker)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.ListByReviewed(ctx, tasker.ID, domain.RatingKindRequester)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(testDB)
	id := nextID(t)

	require.NoError(t, repo.Create(ctx, &domain.Category{ID: id, Name: fmt.Sprintf("Category %d", id)}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Category{ID: id, Name: "Other"}), domain.ErrAlreadyExists)

	c, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
}
