// Package cache keeps hot user identities in an in-process ristretto cache.
package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// userCost approximates the bytes held by one cached user besides its email.
const userCost = 64

// UserDirectory is a read-through domain.UserDirectory. Only successful
// lookups are cached, so a user registered after a miss is found next time.
type UserDirectory struct {
	next domain.UserDirectory
	c    *ristretto.Cache[int64, domain.User]
	ttl  time.Duration
}

// NewUserDirectory wraps next with a cache bounded to maxCostBytes.
func NewUserDirectory(next domain.UserDirectory, maxCostBytes int64, ttl time.Duration) (*UserDirectory, error) {
	c, err := ristretto.NewCache(&ristretto.Config[int64, domain.User]{
		NumCounters: maxCostBytes / 100 * 10, // ~10x expected items
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &UserDirectory{next: next, c: c, ttl: ttl}, nil
}

// GetByID returns the cached user or loads it from the wrapped directory.
func (d *UserDirectory) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := d.c.Get(id); ok {
		return &u, nil
	}

	u, err := d.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.c.SetWithTTL(id, *u, int64(userCost+len(u.Email)), d.ttl)
	return u, nil
}

// Invalidate drops a user from the cache.
func (d *UserDirectory) Invalidate(id int64) {
	d.c.Del(id)
}

// Wait blocks until pending writes are visible to Get.
func (d *UserDirectory) Wait() {
	d.c.Wait()
}

// Close shuts down the cache and releases resources.
func (d *UserDirectory) Close() {
	d.c.Close()
}
