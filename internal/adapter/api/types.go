// Package api defines the wire representation shared by the HTTP and gRPC
// transports.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/usecase/users"
)

// ID is an entity id. It is written as a JSON string because generated ids
// do not fit a float64; both strings and numbers are accepted on input.
type ID int64

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(id), 10))), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Numbers round-tripped through a float carry an exponent.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return fmt.Errorf("invalid id %s", data)
		}
		v = int64(f)
	}
	*id = ID(v)
	return nil
}

// Task is the wire form of domain.Task.
type Task struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Budget      string    `json:"budget"`
	Status      string    `json:"status"`
	RequesterID ID        `json:"requester_id"`
	TaskerID    *ID       `json:"tasker_id,omitempty"`
	CategoryID  ID        `json:"category_id,omitempty"`
	AddressID   ID        `json:"address_id,omitempty"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	Bids        []Bid     `json:"bids"`
}

// Bid is the wire form of domain.Bid.
type Bid struct {
	ID        ID        `json:"id"`
	TaskID    ID        `json:"task_id"`
	BidderID  ID        `json:"bidder_id"`
	Amount    string    `json:"amount"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is the wire form of domain.Transaction.
type Transaction struct {
	ID        ID        `json:"id"`
	TaskID    ID        `json:"task_id"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Address is the wire form of domain.Address.
type Address struct {
	ID      ID     `json:"id"`
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code,omitempty"`
}

// User is a user with profile and addresses.
type User struct {
	ID              ID        `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Bio             string    `json:"bio,omitempty"`
	TaskerRating    string    `json:"tasker_rating"`
	RequesterRating string    `json:"requester_rating"`
	Addresses       []Address `json:"addresses"`
	CreatedAt       time.Time `json:"created_at"`
}

// Review is the wire form of domain.Review.
type Review struct {
	ID         ID        `json:"id"`
	TaskID     ID        `json:"task_id"`
	ReviewerID ID        `json:"reviewer_id"`
	ReviewedID ID        `json:"reviewed_id"`
	Role       string    `json:"role"`
	Rating     int       `json:"rating"`
	Comments   string    `json:"comments,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusChange is the wire form of domain.StatusChange.
type StatusChange struct {
	Entity    string    `json:"entity"`
	EntityID  ID        `json:"entity_id"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

// Category is the wire form of domain.Category.
type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Error is the body of every failed request.
type Error struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func FromTask(t *domain.Task) Task {
	out := Task{
		ID:          ID(t.ID),
		Title:       t.Title,
		Description: t.Description,
		Budget:      t.Budget.String(),
		Status:      string(t.Status),
		RequesterID: ID(t.RequesterID),
		CategoryID:  ID(t.CategoryID),
		AddressID:   ID(t.AddressID),
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		Bids:        FromBids(t.Bids),
	}
	if t.TaskerID != nil {
		id := ID(*t.TaskerID)
		out.TaskerID = &id
	}
	return out
}

func FromBid(b *domain.Bid) Bid {
	return Bid{
		ID:        ID(b.ID),
		TaskID:    ID(b.TaskID),
		BidderID:  ID(b.BidderID),
		Amount:    b.Amount.String(),
		Message:   b.Message,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

// FromBids never returns nil so empty lists encode as [].
func FromBids(bids []*domain.Bid) []Bid {
	out := make([]Bid, 0, len(bids))
	for _, b := range bids {
		out = append(out, FromBid(b))
	}
	return out
}

func FromTransaction(tx *domain.Transaction) Transaction {
	return Transaction{
		ID:        ID(tx.ID),
		TaskID:    ID(tx.TaskID),
		Amount:    tx.Amount.String(),
		Status:    string(tx.Status),
		CreatedAt: tx.CreatedAt,
	}
}

func FromUser(d *users.UserDetails) User {
	out := User{
		ID:        ID(d.User.ID),
		Email:     d.User.Email,
		CreatedAt: d.User.CreatedAt,
		Addresses: make([]Address, 0, len(d.Addresses)),
	}
	if d.Profile != nil {
		out.FirstName = d.Profile.FirstName
		out.LastName = d.Profile.LastName
		out.Bio = d.Profile.Bio
		out.TaskerRating = d.Profile.TaskerRating.StringFixed(2)
		out.RequesterRating = d.Profile.RequesterRating.StringFixed(2)
	}
	for _, a := range d.Addresses {
		out.Addresses = append(out.Addresses, Address{ID: ID(a.ID), Street: a.Street, City: a.City, ZipCode: a.ZipCode})
	}
	return out
}

func FromReview(r *domain.Review) Review {
	return Review{
		ID:         ID(r.ID),
		TaskID:     ID(r.TaskID),
		ReviewerID: ID(r.ReviewerID),
		ReviewedID: ID(r.ReviewedID),
		Role:       string(r.Role),
		Rating:     r.Rating,
		Comments:   r.Comments,
		CreatedAt:  r.CreatedAt,
	}
}

func FromHistory(changes []domain.StatusChange) []StatusChange {
	out := make([]StatusChange, 0, len(changes))
	for _, c := range changes {
		out = append(out, StatusChange{
			Entity:    string(c.Entity),
			EntityID:  ID(c.EntityID),
			From:      c.From,
			To:        c.To,
			ChangedAt: c.ChangedAt,
		})
	}
	return out
}

func FromCategories(cs []*domain.Category) []Category {
	out := make([]Category, 0, len(cs))
	for _, c := range cs {
		out = append(out, Category{ID: ID(c.ID), Name: c.Name, Description: c.Description})
	}
	return out
}

// ErrorOf builds the body for err.
func ErrorOf(err error) Error {
	return Error{Error: err.Error(), Code: domain.KindCode(err)}
}

// Decode unmarshals a JSON request body into v, rejecting unknown fields.
func Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.Errorf(domain.ErrValidation, "invalid request body: %v", err)
	}
	return nil
}

// amountOrZero keeps a missing amount distinguishable from a malformed one.
func amountOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
