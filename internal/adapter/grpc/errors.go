package grpc

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// ErrorDomain is the ErrorInfo domain attached to every mapped error.
const ErrorDomain = "taskconnect"

// codeOf picks the gRPC code for a domain error kind
func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrBidNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrBidTaskMismatch):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrSelfBiddingForbidden):
		return codes.PermissionDenied
	case errors.Is(err, domain.ErrTaskNotOpen), errors.Is(err, domain.ErrInvalidTransition):
		return codes.FailedPrecondition
	case errors.Is(err, domain.ErrConcurrentModification):
		return codes.Aborted
	case errors.Is(err, domain.ErrAlreadyExists):
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// InternalMessage replaces the message of every codes.Internal status sent
// to clients.
const InternalMessage = "internal server error"

// internalError carries a hidden status to the client while Error and Unwrap
// still expose the cause to server-side logging.
type internalError struct {
	cause error
	st    *status.Status
}

func (e *internalError) Error() string              { return e.cause.Error() }
func (e *internalError) Unwrap() error              { return e.cause }
func (e *internalError) GRPCStatus() *status.Status { return e.st }

// mapError converts domain errors to gRPC status errors. The kind code travels
// as the Reason of an ErrorInfo detail so clients can tell kinds apart that
// share a gRPC code.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codeOf(err)
	msg := err.Error()
	if code == codes.Internal {
		msg = InternalMessage
	}

	st := status.New(code, msg)
	if withInfo, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: domain.KindCode(err),
		Domain: ErrorDomain,
	}); detailErr == nil {
		st = withInfo
	}
	if code == codes.Internal {
		return &internalError{cause: err, st: st}
	}
	return st.Err()
}

// ReasonOf extracts the kind code from a status error returned by the server.
func ReasonOf(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return info.GetReason()
		}
	}
	return ""
}
