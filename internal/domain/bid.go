package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BidStatus represents the lifecycle status of a bid
type BidStatus string

const (
	BidStatusPending   BidStatus = "PENDING"   // Initial state when a tasker makes an offer
	BidStatusAccepted  BidStatus = "ACCEPTED"  // The requester chose this bid
	BidStatusRejected  BidStatus = "REJECTED"  // The requester declined this bid
	BidStatusCancelled BidStatus = "CANCELLED" // The tasker withdrew the bid
)

// MaxBidMessageLength bounds Bid.Message.
const MaxBidMessageLength = 500

// BidLifecycle holds the legal bid status changes.
//
//	PENDING  -> ACCEPTED | REJECTED | CANCELLED
//	ACCEPTED -> PENDING
//	REJECTED, CANCELLED are terminal
//
// ACCEPTED -> PENDING is kept as the only way out of ACCEPTED; no operation
// in this repository performs it.
var BidLifecycle = NewStatusMachine("bid",
	map[BidStatus][]BidStatus{
		BidStatusPending:  {BidStatusAccepted, BidStatusRejected, BidStatusCancelled},
		BidStatusAccepted: {BidStatusPending},
	},
	BidStatusRejected, BidStatusCancelled,
)

// Bid represents a tasker's offer against a task.
// TaskID, BidderID and Amount never change after creation, and Status only
// changes through TransitionTo.
type Bid struct {
	ID        int64
	TaskID    int64
	BidderID  int64
	Amount    decimal.Decimal
	Message   string
	Status    BidStatus
	CreatedAt time.Time
}

// TransitionTo moves the bid to s through BidLifecycle.
func (b *Bid) TransitionTo(s BidStatus) error {
	next, err := BidLifecycle.Transition(b.Status, s)
	if err != nil {
		return err
	}
	b.Status = next
	return nil
}

// IsPending reports whether the bid is still awaiting a decision.
func (b *Bid) IsPending() bool {
	return b.Status == BidStatusPending
}
