// Package app assembles repositories and use cases into the services the
// transports expose.
package app

import (
	"log/slog"

	"github.com/simaogato/taskconnect-backend/internal/adapter/api"
	"github.com/simaogato/taskconnect-backend/internal/adapter/repository/memory"
	"github.com/simaogato/taskconnect-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/resilience"
	"github.com/simaogato/taskconnect-backend/internal/usecase/acceptance"
	"github.com/simaogato/taskconnect-backend/internal/usecase/audit"
	"github.com/simaogato/taskconnect-backend/internal/usecase/bidding"
	"github.com/simaogato/taskconnect-backend/internal/usecase/payment"
	"github.com/simaogato/taskconnect-backend/internal/usecase/rating"
	"github.com/simaogato/taskconnect-backend/internal/usecase/tasks"
	"github.com/simaogato/taskconnect-backend/internal/usecase/users"
)

// Repositories is one persistence backend.
type Repositories struct {
	Tasks        domain.TaskRepository
	Users        domain.UserRepository
	Profiles     domain.ProfileRepository
	Addresses    domain.AddressRepository
	Categories   domain.CategoryRepository
	Transactions domain.TransactionRepository
	Reviews      domain.ReviewRepository
	History      domain.StatusHistoryRepository
}

// MemoryRepositories serves every repository from store.
func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Tasks:        store.Tasks(),
		Users:        store.Users(),
		Profiles:     store.Profiles(),
		Addresses:    store.Addresses(),
		Categories:   store.Categories(),
		Transactions: store.Transactions(),
		Reviews:      store.Reviews(),
		History:      store.History(),
	}
}

// PostgresRepositories serves every repository from db.
func PostgresRepositories(db *postgres.DB) Repositories {
	return Repositories{
		Tasks:        postgres.NewTaskRepository(db),
		Users:        postgres.NewUserRepository(db),
		Profiles:     postgres.NewProfileRepository(db),
		Addresses:    postgres.NewAddressRepository(db),
		Categories:   postgres.NewCategoryRepository(db),
		Transactions: postgres.NewTransactionRepository(db),
		Reviews:      postgres.NewReviewRepository(db),
		History:      postgres.NewHistoryRepository(db),
	}
}

// Deps are the capabilities shared by every use case.
type Deps struct {
	// Directory resolves bidders and requesters. Nil means Repositories.Users.
	Directory domain.UserDirectory
	// Publisher receives committed status changes. Nil disables publishing.
	Publisher domain.EventPublisher
	IDs       domain.IDGenerator
	Clock     domain.Clock
	Logger    *slog.Logger
	Retry     resilience.ConflictPolicy
}

// NewServices wires the use cases over repos.
func NewServices(repos Repositories, deps Deps) *api.Services {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	directory := deps.Directory
	if directory == nil {
		directory = repos.Users
	}
	recorder := audit.NewRecorder(repos.History, deps.Publisher, log)

	return &api.Services{
		Tasks:      tasks.NewTaskService(repos.Tasks, directory, repos.Categories, repos.Addresses, repos.History, deps.IDs, deps.Clock, recorder),
		Bidding:    bidding.NewBiddingService(repos.Tasks, directory, deps.IDs, deps.Clock, recorder),
		Acceptance: acceptance.NewAcceptanceService(repos.Tasks, deps.Clock, recorder),
		Payments:   payment.NewPaymentService(repos.Tasks, repos.Transactions, deps.IDs, deps.Clock, recorder),
		Ratings:    rating.NewRatingService(repos.Tasks, repos.Reviews, repos.Profiles, deps.IDs, deps.Clock, log),
		Users:      users.NewUserService(repos.Users, repos.Profiles, repos.Addresses, deps.IDs, deps.Clock),
		Categories: repos.Categories,
		Retry:      deps.Retry,
	}
}
