package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// Fixed ids for the default categories. Tasks reference them directly, so
// they never change between deployments.
const (
	CategoryCleaning  int64 = 1
	CategoryMoving    int64 = 2
	CategoryHandyman  int64 = 3
	CategoryGardening int64 = 4
	CategoryDelivery  int64 = 5
	CategoryTech      int64 = 6
)

// DefaultCategories lists the categories every deployment starts with
var DefaultCategories = []domain.Category{
	{ID: CategoryCleaning, Name: "Cleaning", Description: "Home and office cleaning"},
	{ID: CategoryMoving, Name: "Moving", Description: "Packing, loading and furniture moving"},
	{ID: CategoryHandyman, Name: "Handyman", Description: "Small repairs and assembly"},
	{ID: CategoryGardening, Name: "Gardening", Description: "Lawn care, planting and yard work"},
	{ID: CategoryDelivery, Name: "Delivery", Description: "Pick-ups, drop-offs and errands"},
	{ID: CategoryTech, Name: "Tech Help", Description: "Computer, phone and network setup"},
}

// SystemSeeder handles seeding of the default categories
type SystemSeeder struct {
	repo domain.CategoryRepository
}

// NewSystemSeeder creates a new SystemSeeder instance
func NewSystemSeeder(repo domain.CategoryRepository) *SystemSeeder {
	return &SystemSeeder{
		repo: repo,
	}
}

// Seed ensures all default categories exist and returns how many it created.
// Existing categories are left untouched.
func (s *SystemSeeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, def := range DefaultCategories {
		_, err := s.repo.GetByID(ctx, def.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("failed to look up category %d: %w", def.ID, err)
		}

		category := def
		if err := category.Validate(); err != nil {
			return created, err
		}
		if err := s.repo.Create(ctx, &category); err != nil {
			return created, fmt.Errorf("failed to create category %q: %w", category.Name, err)
		}
		created++
	}

	return created, nil
}
