package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the status-transition core.
var (
	ErrInvalidState           = errors.New("invalid state")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrTaskNotOpen            = errors.New("task is not open")
	ErrSelfBiddingForbidden   = errors.New("bidder cannot bid on own task")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrBidNotFound            = errors.New("bid not found")
	ErrBidTaskMismatch        = errors.New("bid does not belong to task")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// Error kinds returned by collaborator lookups and input checks.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrAlreadyExists = errors.New("already exists")
)

// Error carries one of the kinds above together with a contextual message.
// errors.Is(err, kind) reports whether err is of the given kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindCode returns the stable, client-facing code for err's kind, or
// "INTERNAL" when err is not one of the known kinds.
func KindCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrTaskNotOpen):
		return "TASK_NOT_OPEN"
	case errors.Is(err, ErrSelfBiddingForbidden):
		return "SELF_BIDDING_FORBIDDEN"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrBidNotFound):
		return "BID_NOT_FOUND"
	case errors.Is(err, ErrBidTaskMismatch):
		return "BID_TASK_MISMATCH"
	case errors.Is(err, ErrConcurrentModification):
		return "CONCURRENT_MODIFICATION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrAlreadyExists):
		return "ALREADY_EXISTS"
	default:
		return "INTERNAL"
	}
}

// IsRetryable reports whether a caller may re-read state and try again.
// Only a lost optimistic-concurrency race qualifies.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
