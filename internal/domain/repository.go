package domain

import (
	"context"
)

// TaskRepository defines the interface for task persistence operations.
// A task is loaded and saved together with its bids.
type TaskRepository interface {
	// GetByID retrieves a task and its bids; ErrNotFound if absent
	GetByID(ctx context.Context, id int64) (*Task, error)

	// Create stores a new task and sets its Version to 1
	Create(ctx context.Context, task *Task) error

	// Save writes the task and upserts its bids as one unit.
	// It fails with ErrConcurrentModification when the stored version differs
	// from task.Version, and increments task.Version on success.
	Save(ctx context.Context, task *Task) error

	// ListBids retrieves the bids placed on a task, in no particular order
	ListBids(ctx context.Context, taskID int64) ([]*Bid, error)

	// GetBid retrieves a single bid by its ID regardless of task; ErrNotFound if absent
	GetBid(ctx context.Context, bidID int64) (*Bid, error)
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	// GetByID retrieves a user; ErrNotFound if absent
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email; ErrNotFound if absent
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create stores a user together with its profile and initial addresses.
	// It fails with ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, user *User, profile *Profile, addresses []*Address) error
}

// UserDirectory resolves user identities for the coordinators.
// The cached adapter implements it on top of UserRepository.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*User, error)
}

// ProfileRepository defines the interface for profile persistence operations
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// AddressRepository defines the interface for address persistence operations
type AddressRepository interface {
	GetByID(ctx context.Context, id int64) (*Address, error)
	Create(ctx context.Context, address *Address) error
	ListByUser(ctx context.Context, userID int64) ([]*Address, error)
}

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, category *Category) error
	List(ctx context.Context) ([]*Category, error)
}

// TransactionRepository defines the interface for payment record persistence
type TransactionRepository interface {
	// Create stores a new transaction; ErrAlreadyExists if the task already has one
	Create(ctx context.Context, tx *Transaction) error

	GetByID(ctx context.Context, id int64) (*Transaction, error)

	// GetByTaskID retrieves the transaction settling a task; ErrNotFound if none
	GetByTaskID(ctx context.Context, taskID int64) (*Transaction, error)

	// Update writes the status under the same version check as TaskRepository.Save
	Update(ctx context.Context, tx *Transaction) error
}

// ReviewRepository defines the interface for review persistence operations
type ReviewRepository interface {
	// Create stores a review; ErrAlreadyExists if the reviewer already reviewed the task
	Create(ctx context.Context, review *Review) error

	// ListByReviewed retrieves every review received by a user in the given role
	ListByReviewed(ctx context.Context, userID int64, role RatingKind) ([]*Review, error)
}

// StatusHistoryRepository stores committed status changes
type StatusHistoryRepository interface {
	Append(ctx context.Context, changes []StatusChange) error
	ListByTask(ctx context.Context, taskID int64) ([]StatusChange, error)
}

// EventPublisher announces committed status changes to other systems
type EventPublisher interface {
	Publish(ctx context.Context, changes []StatusChange) error
}

// StatusRecorder receives status changes after they have been committed.
// It never fails the operation that produced them.
type StatusRecorder interface {
	Record(ctx context.Context, changes []StatusChange)
}
