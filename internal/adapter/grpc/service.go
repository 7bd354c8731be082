package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "taskconnect.v1.TaskConnectService"

// TaskConnectServer is the server API for the TaskConnect service. Every
// message is a google.protobuf.Struct holding the JSON form defined in
// package api.
type TaskConnectServer interface {
	CreateTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBids(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTaskHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompleteTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitBid(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AcceptBid(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WithdrawBid(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RegisterUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddAddress(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	OpenTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SettleTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTaskTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitReview(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(TaskConnectServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func method(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(TaskConnectServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the TaskConnect service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskConnectServer)(nil),
	Methods: []grpc.MethodDesc{
		method("CreateTask", TaskConnectServer.CreateTask),
		method("GetTask", TaskConnectServer.GetTask),
		method("ListBids", TaskConnectServer.ListBids),
		method("GetTaskHistory", TaskConnectServer.GetTaskHistory),
		method("CompleteTask", TaskConnectServer.CompleteTask),
		method("CancelTask", TaskConnectServer.CancelTask),
		method("SubmitBid", TaskConnectServer.SubmitBid),
		method("AcceptBid", TaskConnectServer.AcceptBid),
		method("WithdrawBid", TaskConnectServer.WithdrawBid),
		method("RegisterUser", TaskConnectServer.RegisterUser),
		method("GetUser", TaskConnectServer.GetUser),
		method("AddAddress", TaskConnectServer.AddAddress),
		method("ListCategories", TaskConnectServer.ListCategories),
		method("OpenTransaction", TaskConnectServer.OpenTransaction),
		method("SettleTransaction", TaskConnectServer.SettleTransaction),
		method("GetTaskTransaction", TaskConnectServer.GetTaskTransaction),
		method("SubmitReview", TaskConnectServer.SubmitReview),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskconnect/v1/service.proto",
}

// RegisterTaskConnectServer registers srv on s.
func RegisterTaskConnectServer(s grpc.ServiceRegistrar, srv TaskConnectServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls the TaskConnect service by method name.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client on top of an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with in and returns the response message.
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
