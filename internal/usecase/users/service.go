package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// AddressInput represents a physical address supplied by a user
type AddressInput struct {
	Street  string
	City    string
	ZipCode string
}

// RegisterInput represents the input for registering a user
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Addresses []AddressInput
}

// UserDetails is a user together with their profile and addresses
type UserDetails struct {
	User      *domain.User
	Profile   *domain.Profile
	Addresses []*domain.Address
}

// UserService handles registration and address book operations
type UserService struct {
	UserRepo    domain.UserRepository
	ProfileRepo domain.ProfileRepository
	AddressRepo domain.AddressRepository
	IDs         domain.IDGenerator
	Clock       domain.Clock
}

// NewUserService creates a new UserService instance
func NewUserService(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	addressRepo domain.AddressRepository,
	ids domain.IDGenerator,
	clock domain.Clock,
) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
		AddressRepo: addressRepo,
		IDs:         ids,
		Clock:       clock,
	}
}

// Register creates a user with a profile whose ratings start at 0.0, plus
// any initial addresses. The email must not be registered yet.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*UserDetails, error) {
	email := strings.TrimSpace(input.Email)

	_, err := s.UserRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.Errorf(domain.ErrAlreadyExists, "the email %s is already registered", email)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	userID, err := s.IDs.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate user id: %w", err)
	}

	user := &domain.User{ID: userID, Email: email, CreatedAt: s.Clock.Now()}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		UserID:          userID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Bio:             input.Bio,
		TaskerRating:    decimal.Zero,
		RequesterRating: decimal.Zero,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	addresses := make([]*domain.Address, 0, len(input.Addresses))
	for _, in := range input.Addresses {
		a, err := s.newAddress(userID, in)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}

	if err := s.UserRepo.Create(ctx, user, profile, addresses); err != nil {
		return nil, err
	}

	return &UserDetails{User: user, Profile: profile, Addresses: addresses}, nil
}

// GetUser retrieves a user with profile and addresses
func (s *UserService) GetUser(ctx context.Context, id int64) (*UserDetails, error) {
	user, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile, err := s.ProfileRepo.GetByUserID(ctx, id)
	if err != nil {
		return nil, err
	}
	addresses, err := s.AddressRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserDetails{User: user, Profile: profile, Addresses: addresses}, nil
}

// AddAddress links a new address to an existing user and returns the updated user
func (s *UserService) AddAddress(ctx context.Context, userID int64, input AddressInput) (*UserDetails, error) {
	if _, err := s.UserRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	a, err := s.newAddress(userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.AddressRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	return s.GetUser(ctx, userID)
}

func (s *UserService) newAddress(userID int64, in AddressInput) (*domain.Address, error) {
	a := &domain.Address{
		UserID:  userID,
		Street:  in.Street,
		City:    in.City,
		ZipCode: in.ZipCode,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	id, err := s.IDs.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate address id: %w", err)
	}
	a.ID = id
	return a, nil
}
