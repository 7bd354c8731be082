package domain

import (
	"github.com/shopspring/decimal"
)

// RatingKind selects which of a profile's two reputations is addressed.
// A review's Role uses the same values: the role the reviewed user played on the task.
type RatingKind string

const (
	RatingKindTasker    RatingKind = "TASKER"
	RatingKindRequester RatingKind = "REQUESTER"
)

// Valid reports whether k is a recognized rating kind.
func (k RatingKind) Valid() bool {
	return k == RatingKindTasker || k == RatingKindRequester
}

var (
	MinRating = decimal.Zero
	MaxRating = decimal.NewFromInt(5)
)

// MaxNameLength bounds Profile.FirstName and Profile.LastName.
const MaxNameLength = 50

// Profile holds a user's public details and both reputations.
type Profile struct {
	UserID          int64
	FirstName       string
	LastName        string
	Bio             string
	TaskerRating    decimal.Decimal
	RequesterRating decimal.Decimal
}

// Validate ensures the profile adheres to domain rules
func (p *Profile) Validate() error {
	if p.FirstName == "" || p.LastName == "" {
		return Errorf(ErrValidation, "first and last name are required")
	}
	if len(p.FirstName) > MaxNameLength || len(p.LastName) > MaxNameLength {
		return Errorf(ErrValidation, "names cannot exceed %d characters", MaxNameLength)
	}
	return nil
}

// ClampRating bounds avg into [MinRating, MaxRating]. A missing value is
// treated as MinRating.
func ClampRating(avg decimal.NullDecimal) decimal.Decimal {
	if !avg.Valid {
		return MinRating
	}
	switch {
	case avg.Decimal.GreaterThan(MaxRating):
		return MaxRating
	case avg.Decimal.LessThan(MinRating):
		return MinRating
	default:
		return avg.Decimal
	}
}

// UpdateRating stores the clamped average under kind and returns the stored value.
// It is a clamp, not a running average.
func (p *Profile) UpdateRating(kind RatingKind, avg decimal.NullDecimal) (decimal.Decimal, error) {
	stored := ClampRating(avg)
	switch kind {
	case RatingKindTasker:
		p.TaskerRating = stored
	case RatingKindRequester:
		p.RequesterRating = stored
	default:
		return decimal.Zero, Errorf(ErrValidation, "unknown rating kind %q", kind)
	}
	return stored, nil
}

// Rating returns the stored rating for kind.
func (p *Profile) Rating(kind RatingKind) decimal.Decimal {
	if kind == RatingKindRequester {
		return p.RequesterRating
	}
	return p.TaskerRating
}
