package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/taskconnect-backend/internal/adapter/repository/memory"
	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/idgen"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User, profile *domain.Profile, addresses []*domain.Address) error {
	args := m.Called(ctx, user, profile, addresses)
	return args.Error(0)
}

func newService() (*UserService, *memory.Store) {
	store := memory.NewStore()
	return NewUserService(store.Users(), store.Profiles(), store.Addresses(), idgen.NewSequence(0), domain.FixedClock{At: testNow}), store
}

func registerInput() RegisterInput {
	return RegisterInput{
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Silva",
		Addresses: []AddressInput{{Street: "Rua do Ouro 10", City: "Lisboa", ZipCode: "1100-060"}},
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	details, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	assert.Equal(t, int64(1), details.User.ID)
	assert.Equal(t, testNow, details.User.CreatedAt)
	assert.True(t, details.Profile.TaskerRating.IsZero())
	assert.True(t, details.Profile.RequesterRating.IsZero())
	require.Len(t, details.Addresses, 1)
	assert.Equal(t, details.User.ID, details.Addresses[0].UserID)

	fetched, err := svc.GetUser(ctx, details.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", fetched.Profile.FirstName)
	assert.Len(t, fetched.Addresses, 1)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	in := registerInput()
	in.Email = "ANA@example.com"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{name: "Invalid email", mutate: func(in *RegisterInput) { in.Email = "nope" }},
		{name: "Missing first name", mutate: func(in *RegisterInput) { in.FirstName = "" }},
		{name: "Address without city", mutate: func(in *RegisterInput) { in.Addresses[0].City = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService()
			in := registerInput()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRegister_LookupFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil, idgen.NewSequence(0), domain.FixedClock{At: testNow})

	repo.On("GetByEmail", ctx, "ana@example.com").Return(nil, errors.New("db down"))

	_, err := svc.Register(ctx, registerInput())
	assert.EqualError(t, err, "db down")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddAddress(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	details, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	updated, err := svc.AddAddress(ctx, details.User.ID, AddressInput{Street: "Av. da Liberdade 2", City: "Lisboa"})
	require.NoError(t, err)
	assert.Len(t, updated.Addresses, 2)

	_, err = svc.AddAddress(ctx, 404, AddressInput{Street: "x", City: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _ := newService()
	_, err := svc.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
