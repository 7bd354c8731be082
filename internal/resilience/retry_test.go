package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

var fast = ConflictPolicy{MaxRetries: 3, BaseDelay: time.Millisecond}

func TestRetryOnConflict_RecoversAfterConflict(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), fast, func(context.Context) error {
		calls++
		if calls < 3 {
			return domain.Errorf(domain.ErrConcurrentModification, "task 1")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryOnConflict_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), fast, func(context.Context) error {
		calls++
		return domain.Errorf(domain.ErrTaskNotOpen, "task 1 is ASSIGNED")
	})

	assert.ErrorIs(t, err, domain.ErrTaskNotOpen)
	assert.Equal(t, 1, calls)
}

func TestRetryOnConflict_Exhausted(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), fast, func(context.Context) error {
		calls++
		return domain.Errorf(domain.ErrConcurrentModification, "task 1")
	})

	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, 4, calls)
}

func TestRetryOnConflict_Disabled(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), ConflictPolicy{}, func(context.Context) error {
		calls++
		return domain.Errorf(domain.ErrConcurrentModification, "task 1")
	})

	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, 1, calls)
}
