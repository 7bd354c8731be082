// Package memory implements the domain repositories on top of process memory.
// Every read returns a copy and every write stores a copy, so callers never
// share mutable state with the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// Store holds all entities behind a single lock.
type Store struct {
	mu sync.RWMutex

	tasks    map[int64]*domain.Task
	bidTask  map[int64]int64 // bid id -> task id
	users    map[int64]*domain.User
	emails   map[string]int64
	profiles map[int64]*domain.Profile
	address  map[int64]*domain.Address
	category map[int64]*domain.Category
	txs      map[int64]*domain.Transaction
	txByTask map[int64]int64
	reviews  []*domain.Review
	history  []domain.StatusChange
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		tasks:    make(map[int64]*domain.Task),
		bidTask:  make(map[int64]int64),
		users:    make(map[int64]*domain.User),
		emails:   make(map[string]int64),
		profiles: make(map[int64]*domain.Profile),
		address:  make(map[int64]*domain.Address),
		category: make(map[int64]*domain.Category),
		txs:      make(map[int64]*domain.Transaction),
		txByTask: make(map[int64]int64),
	}
}

func (s *Store) Tasks() *TaskRepository               { return &TaskRepository{s: s} }
func (s *Store) Users() *UserRepository               { return &UserRepository{s: s} }
func (s *Store) Profiles() *ProfileRepository         { return &ProfileRepository{s: s} }
func (s *Store) Addresses() *AddressRepository        { return &AddressRepository{s: s} }
func (s *Store) Categories() *CategoryRepository      { return &CategoryRepository{s: s} }
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{s: s} }
func (s *Store) Reviews() *ReviewRepository           { return &ReviewRepository{s: s} }
func (s *Store) History() *HistoryRepository          { return &HistoryRepository{s: s} }

// TaskRepository implements domain.TaskRepository
type TaskRepository struct{ s *Store }

func (r *TaskRepository) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "task %d", id)
	}
	return t.Clone(), nil
}

func (r *TaskRepository) Create(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[task.ID]; ok {
		return domain.Errorf(domain.ErrAlreadyExists, "task %d", task.ID)
	}
	task.Version = 1
	r.s.tasks[task.ID] = task.Clone()
	for _, b := range task.Bids {
		r.s.bidTask[b.ID] = task.ID
	}
	return nil
}

func (r *TaskRepository) Save(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tasks[task.ID]
	if !ok {
		return domain.Errorf(domain.ErrNotFound, "task %d", task.ID)
	}
	if stored.Version != task.Version {
		return domain.Errorf(domain.ErrConcurrentModification, "task %d was modified concurrently (version %d, have %d)", task.ID, stored.Version, task.Version)
	}

	task.Version++
	r.s.tasks[task.ID] = task.Clone()
	for _, b := range task.Bids {
		r.s.bidTask[b.ID] = task.ID
	}
	return nil
}

func (r *TaskRepository) ListBids(_ context.Context, taskID int64) ([]*domain.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[taskID]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "task %d", taskID)
	}
	return t.Clone().Bids, nil
}

func (r *TaskRepository) GetBid(_ context.Context, bidID int64) (*domain.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	taskID, ok := r.s.bidTask[bidID]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "bid %d", bidID)
	}
	b := r.s.tasks[taskID].FindBid(bidID)
	if b == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "bid %d", bidID)
	}
	c := *b
	return &c, nil
}

// UserRepository implements domain.UserRepository
type UserRepository struct{ s *Store }

func (r *UserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "user %d", id)
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[strings.ToLower(email)]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "user with email %s", email)
	}
	c := *r.s.users[id]
	return &c, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User, profile *domain.Profile, addresses []*domain.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.s.emails[key]; ok {
		return domain.Errorf(domain.ErrAlreadyExists, "the email %s is already registered", user.Email)
	}

	u := *user
	r.s.users[user.ID] = &u
	r.s.emails[key] = user.ID
	if profile != nil {
		p := *profile
		r.s.profiles[user.ID] = &p
	}
	for _, a := range addresses {
		c := *a
		r.s.address[a.ID] = &c
	}
	return nil
}

// ProfileRepository implements domain.ProfileRepository
type ProfileRepository struct{ s *Store }

func (r *ProfileRepository) GetByUserID(_ context.Context, userID int64) (*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "profile for user %d", userID)
	}
	c := *p
	return &c, nil
}

func (r *ProfileRepository) Update(_ context.Context, profile *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[profile.UserID]; !ok {
		return domain.Errorf(domain.ErrNotFound, "profile for user %d", profile.UserID)
	}
	c := *profile
	r.s.profiles[profile.UserID] = &c
	return nil
}

// AddressRepository implements domain.AddressRepository
type AddressRepository struct{ s *Store }

func (r *AddressRepository) GetByID(_ context.Context, id int64) (*domain.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.address[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "address %d", id)
	}
	c := *a
	return &c, nil
}

func (r *AddressRepository) Create(_ context.Context, address *domain.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[address.UserID]; !ok {
		return domain.Errorf(domain.ErrNotFound, "user %d", address.UserID)
	}
	c := *address
	r.s.address[address.ID] = &c
	return nil
}

func (r *AddressRepository) ListByUser(_ context.Context, userID int64) ([]*domain.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Address
	for _, a := range r.s.address {
		if a.UserID == userID {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CategoryRepository implements domain.CategoryRepository
type CategoryRepository struct{ s *Store }

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.category[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "category %d", id)
	}
	cc := *c
	return &cc, nil
}

func (r *CategoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.category[category.ID]; ok {
		return domain.Errorf(domain.ErrAlreadyExists, "category %d", category.ID)
	}
	c := *category
	r.s.category[category.ID] = &c
	return nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Category, 0, len(r.s.category))
	for _, c := range r.s.category {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// TransactionRepository implements domain.TransactionRepository
type TransactionRepository struct{ s *Store }

func (r *TransactionRepository) Create(_ context.Context, tx *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.txByTask[tx.TaskID]; ok {
		return domain.Errorf(domain.ErrAlreadyExists, "task %d already has a transaction", tx.TaskID)
	}
	tx.Version = 1
	c := *tx
	r.s.txs[tx.ID] = &c
	r.s.txByTask[tx.TaskID] = tx.ID
	return nil
}

func (r *TransactionRepository) GetByID(_ context.Context, id int64) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tx, ok := r.s.txs[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "transaction %d", id)
	}
	c := *tx
	return &c, nil
}

func (r *TransactionRepository) GetByTaskID(_ context.Context, taskID int64) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.txByTask[taskID]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "transaction for task %d", taskID)
	}
	c := *r.s.txs[id]
	return &c, nil
}

func (r *TransactionRepository) Update(_ context.Context, tx *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.txs[tx.ID]
	if !ok {
		return domain.Errorf(domain.ErrNotFound, "transaction %d", tx.ID)
	}
	if stored.Version != tx.Version {
		return domain.Errorf(domain.ErrConcurrentModification, "transaction %d was modified concurrently", tx.ID)
	}
	tx.Version++
	c := *tx
	r.s.txs[tx.ID] = &c
	return nil
}

// ReviewRepository implements domain.ReviewRepository
type ReviewRepository struct{ s *Store }

func (r *ReviewRepository) Create(_ context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.reviews {
		if existing.TaskID == review.TaskID && existing.ReviewerID == review.ReviewerID {
			return domain.Errorf(domain.ErrAlreadyExists, "user %d already reviewed task %d", review.ReviewerID, review.TaskID)
		}
	}
	c := *review
	r.s.reviews = append(r.s.reviews, &c)
	return nil
}

func (r *ReviewRepository) ListByReviewed(_ context.Context, userID int64, role domain.RatingKind) ([]*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Review
	for _, rv := range r.s.reviews {
		if rv.ReviewedID == userID && rv.Role == role {
			c := *rv
			out = append(out, &c)
		}
	}
	return out, nil
}

// HistoryRepository implements domain.StatusHistoryRepository
type HistoryRepository struct{ s *Store }

func (r *HistoryRepository) Append(_ context.Context, changes []domain.StatusChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range changes {
		c.ID = int64(len(r.s.history) + 1)
		r.s.history = append(r.s.history, c)
	}
	return nil
}

func (r *HistoryRepository) ListByTask(_ context.Context, taskID int64) ([]domain.StatusChange, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.StatusChange
	for _, c := range r.s.history {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}
