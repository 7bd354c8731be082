package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/taskconnect-backend/internal/adapter/api"
	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// Server implements the TaskConnectService gRPC server
type Server struct {
	*api.Services
}

var _ TaskConnectServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(services *api.Services) *Server {
	return &Server{Services: services}
}

// decode converts a request message into its api type
func decode(in *structpb.Struct, v any) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := api.Decode(data, v); err != nil {
		return mapError(err)
	}
	return nil
}

// respond converts a result into a response message, or err into a status
func respond(v any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, mapError(err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func taskResult(t *domain.Task, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromTask(t), nil)
}

// CreateTask handles the CreateTask RPC
func (s *Server) CreateTask(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.CreateTaskRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return taskResult(s.Tasks.CreateTask(ctx, req.Input()))
}

// GetTask handles the GetTask RPC
func (s *Server) GetTask(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TaskRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return taskResult(s.Tasks.GetTask(ctx, int64(req.TaskID)))
}

// ListBids handles the ListBids RPC
func (s *Server) ListBids(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TaskRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	bids, err := s.Tasks.ListBids(ctx, int64(req.TaskID))
	if err != nil {
		return nil, mapError(err)
	}
	return respond(map[string]any{"bids": api.FromBids(bids)}, nil)
}

// GetTaskHistory handles the GetTaskHistory RPC
func (s *Server) GetTaskHistory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TaskRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	changes, err := s.Tasks.History(ctx, int64(req.TaskID))
	if err != nil {
		return nil, mapError(err)
	}
	return respond(map[string]any{"changes": api.FromHistory(changes)}, nil)
}

// CompleteTask handles the CompleteTask RPC
func (s *Server) CompleteTask(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TaskRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return taskResult(api.Write(ctx, s.Services, func(ctx context.Context) (*domain.Task, error) {
		return s.Tasks.CompleteTask(ctx, int64(req.TaskID))
	}))
}

// CancelTask handles the CancelTask RPC
func (s *Server) CancelTask(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TaskRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return taskResult(api.Write(ctx, s.Services, func(ctx context.Context) (*domain.Task, error) {
		return s.Tasks.CancelTask(ctx, int64(req.TaskID))
	}))
}

// SubmitBid handles the SubmitBid RPC
func (s *Server) SubmitBid(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.SubmitBidRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	bid, err := api.Write(ctx, s.Services, func(ctx context.Context) (*domain.Bid, error) {
		return s.Bidding.SubmitBid(ctx, req.Input())
	})
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromBid(bid), nil)
}

// AcceptBid handles the AcceptBid RPC
func (s *Server) AcceptBid(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.AcceptBidRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return taskResult(api.Write(ctx, s.Services, func(ctx context.Context) (*domain.Task, error) {
		return s.Acceptance.AcceptBid(ctx, int64(req.TaskID), int64(req.BidID))
	}))
}

// WithdrawBid handles the WithdrawBid RPC
func (s *Server) WithdrawBid(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.WithdrawBidRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	bid, err := api.Write(ctx, s.Services, func(ctx context.Context) (*domain.Bid, error) {
		return s.Bidding.WithdrawBid(ctx, int64(req.TaskID), int64(req.BidID), int64(req.BidderID))
	})
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromBid(bid), nil)
}

// RegisterUser handles the RegisterUser RPC
func (s *Server) RegisterUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.RegisterUserRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	details, err := s.Users.Register(ctx, req.Input())
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromUser(details), nil)
}

// GetUser handles the GetUser RPC
func (s *Server) GetUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.UserRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	details, err := s.Users.GetUser(ctx, int64(req.UserID))
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromUser(details), nil)
}

// AddAddress handles the AddAddress RPC
func (s *Server) AddAddress(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.AddAddressRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	details, err := s.Users.AddAddress(ctx, int64(req.UserID), req.AddressRequest.Input())
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromUser(details), nil)
}

// ListCategories handles the ListCategories RPC
func (s *Server) ListCategories(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	categories, err := s.Categories.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return respond(map[string]any{"categories": api.FromCategories(categories)}, nil)
}

// OpenTransaction handles the OpenTransaction RPC
func (s *Server) OpenTransaction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TaskRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	tx, err := s.Payments.OpenTransaction(ctx, int64(req.TaskID))
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromTransaction(tx), nil)
}

// SettleTransaction handles the SettleTransaction RPC
func (s *Server) SettleTransaction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.SettleTransactionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	tx, err := api.Write(ctx, s.Services, func(ctx context.Context) (*domain.Transaction, error) {
		return s.Payments.Settle(ctx, int64(req.TransactionID), req.TargetStatus())
	})
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromTransaction(tx), nil)
}

// GetTaskTransaction handles the GetTaskTransaction RPC
func (s *Server) GetTaskTransaction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TaskRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	tx, err := s.Payments.GetTaskTransaction(ctx, int64(req.TaskID))
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromTransaction(tx), nil)
}

// SubmitReview handles the SubmitReview RPC
func (s *Server) SubmitReview(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.SubmitReviewRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	review, err := s.Ratings.SubmitReview(ctx, req.Input())
	if err != nil {
		return nil, mapError(err)
	}
	return respond(api.FromReview(review), nil)
}
