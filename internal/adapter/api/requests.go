package api

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/usecase/bidding"
	"github.com/simaogato/taskconnect-backend/internal/usecase/rating"
	"github.com/simaogato/taskconnect-backend/internal/usecase/tasks"
	"github.com/simaogato/taskconnect-backend/internal/usecase/users"
)

// TaskRef addresses a single task.
type TaskRef struct {
	TaskID ID `json:"task_id"`
}

// UserRef addresses a single user.
type UserRef struct {
	UserID ID `json:"user_id"`
}

// TransactionRef addresses a single transaction.
type TransactionRef struct {
	TransactionID ID `json:"transaction_id"`
}

type CreateTaskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Budget      *decimal.Decimal `json:"budget"`
	RequesterID ID               `json:"requester_id"`
	CategoryID  ID               `json:"category_id"`
	AddressID   ID               `json:"address_id"`
}

func (r CreateTaskRequest) Input() tasks.CreateTaskInput {
	return tasks.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Budget:      amountOrZero(r.Budget),
		RequesterID: int64(r.RequesterID),
		CategoryID:  int64(r.CategoryID),
		AddressID:   int64(r.AddressID),
	}
}

type SubmitBidRequest struct {
	TaskID   ID               `json:"task_id,omitempty"`
	BidderID ID               `json:"bidder_id"`
	Amount   *decimal.Decimal `json:"amount"`
	Message  string           `json:"message"`
}

func (r SubmitBidRequest) Input() bidding.SubmitBidInput {
	return bidding.SubmitBidInput{
		TaskID:   int64(r.TaskID),
		BidderID: int64(r.BidderID),
		Amount:   amountOrZero(r.Amount),
		Message:  r.Message,
	}
}

type AcceptBidRequest struct {
	TaskID ID `json:"task_id,omitempty"`
	BidID  ID `json:"bid_id"`
}

type WithdrawBidRequest struct {
	TaskID   ID `json:"task_id,omitempty"`
	BidID    ID `json:"bid_id,omitempty"`
	BidderID ID `json:"bidder_id"`
}

type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

func (r AddressRequest) Input() users.AddressInput {
	return users.AddressInput{Street: r.Street, City: r.City, ZipCode: r.ZipCode}
}

type AddAddressRequest struct {
	UserID ID `json:"user_id,omitempty"`
	AddressRequest
}

type RegisterUserRequest struct {
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Bio       string           `json:"bio"`
	Addresses []AddressRequest `json:"addresses"`
}

func (r RegisterUserRequest) Input() users.RegisterInput {
	in := users.RegisterInput{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
	}
	for _, a := range r.Addresses {
		in.Addresses = append(in.Addresses, a.Input())
	}
	return in
}

type SettleTransactionRequest struct {
	TransactionID ID     `json:"transaction_id,omitempty"`
	Status        string `json:"status"`
}

func (r SettleTransactionRequest) TargetStatus() domain.TransactionStatus {
	return domain.TransactionStatus(r.Status)
}

type SubmitReviewRequest struct {
	TaskID     ID     `json:"task_id,omitempty"`
	ReviewerID ID     `json:"reviewer_id"`
	Rating     int    `json:"rating"`
	Comments   string `json:"comments"`
}

func (r SubmitReviewRequest) Input() rating.SubmitReviewInput {
	return rating.SubmitReviewInput{
		TaskID:     int64(r.TaskID),
		ReviewerID: int64(r.ReviewerID),
		Rating:     r.Rating,
		Comments:   r.Comments,
	}
}
