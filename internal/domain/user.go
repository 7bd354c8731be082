package domain

import (
	"net/mail"
	"time"
)

// User is a registered account. Credentials live outside this system.
type User struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

// Validate ensures the user adheres to domain rules
func (u *User) Validate() error {
	if u.Email == "" {
		return Errorf(ErrValidation, "email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return Errorf(ErrValidation, "invalid email format %q", u.Email)
	}
	return nil
}

// Address is a physical location owned by a user, referenced by tasks.
type Address struct {
	ID      int64
	UserID  int64
	Street  string
	City    string
	ZipCode string
}

// Validate ensures the address adheres to domain rules
func (a *Address) Validate() error {
	switch {
	case a.Street == "":
		return Errorf(ErrValidation, "street is required")
	case len(a.Street) > 255:
		return Errorf(ErrValidation, "street cannot exceed 255 characters")
	case a.City == "":
		return Errorf(ErrValidation, "city is required")
	case len(a.City) > 100:
		return Errorf(ErrValidation, "city cannot exceed 100 characters")
	case len(a.ZipCode) > 20:
		return Errorf(ErrValidation, "zip code cannot exceed 20 characters")
	}
	return nil
}

// Category classifies tasks.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Validate ensures the category adheres to domain rules
func (c *Category) Validate() error {
	if c.Name == "" {
		return Errorf(ErrValidation, "category name is required")
	}
	if len(c.Name) > 50 {
		return Errorf(ErrValidation, "category name cannot exceed 50 characters")
	}
	if len(c.Description) > 255 {
		return Errorf(ErrValidation, "category description cannot exceed 255 characters")
	}
	return nil
}

// MaxReviewComments bounds Review.Comments.
const MaxReviewComments = 1000

// Review is one party's rating of the other on a completed task.
// Role is the role the reviewed user played on that task.
type Review struct {
	ID         int64
	TaskID     int64
	ReviewerID int64
	ReviewedID int64
	Role       RatingKind
	Rating     int
	Comments   string
	CreatedAt  time.Time
}

// Validate ensures the review adheres to domain rules
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return Errorf(ErrValidation, "rating must be between 1 and 5, got %d", r.Rating)
	}
	if len(r.Comments) > MaxReviewComments {
		return Errorf(ErrValidation, "comments cannot exceed %d characters", MaxReviewComments)
	}
	if r.ReviewerID == r.ReviewedID {
		return Errorf(ErrValidation, "users cannot review themselves")
	}
	if !r.Role.Valid() {
		return Errorf(ErrValidation, "unknown review role %q", r.Role)
	}
	return nil
}
