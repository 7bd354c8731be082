package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, changes []domain.StatusChange) error {
	args := m.Called(ctx, changes)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByTask(ctx context.Context, taskID int64) ([]domain.StatusChange, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusChange), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, changes []domain.StatusChange) error {
	args := m.Called(ctx, changes)
	return args.Error(0)
}

func sampleChanges() []domain.StatusChange {
	return []domain.StatusChange{{
		Entity: domain.EntityTask, EntityID: 1, TaskID: 1,
		From: "OPEN", To: "ASSIGNED", ChangedAt: time.Now(),
	}}
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	changes := sampleChanges()

	history := new(MockHistoryRepository)
	publisher := new(MockPublisher)
	history.On("Append", ctx, changes).Return(nil)
	publisher.On("Publish", ctx, changes).Return(nil)

	NewRecorder(history, publisher, nil).Record(ctx, changes)

	history.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRecorder_SinkFailuresAreLogged(t *testing.T) {
	ctx := context.Background()
	changes := sampleChanges()

	history := new(MockHistoryRepository)
	publisher := new(MockPublisher)
	history.On("Append", ctx, changes).Return(errors.New("db down"))
	publisher.On("Publish", ctx, changes).Return(errors.New("nats down"))

	var buf bytes.Buffer
	r := NewRecorder(history, publisher, slog.New(slog.NewTextHandler(&buf, nil)))
	r.Record(ctx, changes)

	assert.Contains(t, buf.String(), "failed to save status history")
	assert.Contains(t, buf.String(), "failed to publish status changes")
	publisher.AssertExpectations(t)
}

func TestRecorder_EmptyIsIgnored(t *testing.T) {
	history := new(MockHistoryRepository)
	NewRecorder(history, nil, nil).Record(context.Background(), nil)
	history.AssertNotCalled(t, "Append")
}
