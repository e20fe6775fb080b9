// Package taskboard describes the taskboard.v1.TaskBoard gRPC service.
// Messages travel as JSON using the codec registered by package codec.
package taskboard

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/taskboard-server/internal/api/grpc/codec"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "taskboard.v1.TaskBoard"

// FullMethod returns the full gRPC method name of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// TaskBoardServer is the server API for the TaskBoard service.
//
// FetchTasks and the task mutations return the full list; ListTasks and the
// filter calls return the filtered list.
type TaskBoardServer interface {
	OpenSession(context.Context, *Empty) (*OpenSessionResponse, error)
	Register(context.Context, *RegisterRequest) (*SessionResponse, error)
	Login(context.Context, *LoginRequest) (*SessionResponse, error)
	Me(context.Context, *Empty) (*SessionResponse, error)
	Logout(context.Context, *Empty) (*SessionResponse, error)
	FetchTasks(context.Context, *Empty) (*TaskListResponse, error)
	ListTasks(context.Context, *Empty) (*TaskListResponse, error)
	GetBoard(context.Context, *Empty) (*BoardResponse, error)
	AddTask(context.Context, *AddTaskRequest) (*TaskResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*TaskListResponse, error)
	UpdateTaskStatus(context.Context, *UpdateTaskStatusRequest) (*TaskListResponse, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*TaskListResponse, error)
	SetSearchQuery(context.Context, *SetSearchQueryRequest) (*TaskListResponse, error)
	SetStatusFilter(context.Context, *SetStatusFilterRequest) (*TaskListResponse, error)
	SetPriorityFilter(context.Context, *SetPriorityFilterRequest) (*TaskListResponse, error)
	ClearFilters(context.Context, *Empty) (*TaskListResponse, error)
}

func unary[Req, Resp any](method string, call func(TaskBoardServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TaskBoardServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TaskBoardServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for the TaskBoard service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskBoardServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("OpenSession", TaskBoardServer.OpenSession),
		unary("Register", TaskBoardServer.Register),
		unary("Login", TaskBoardServer.Login),
		unary("Me", TaskBoardServer.Me),
		unary("Logout", TaskBoardServer.Logout),
		unary("FetchTasks", TaskBoardServer.FetchTasks),
		unary("ListTasks", TaskBoardServer.ListTasks),
		unary("GetBoard", TaskBoardServer.GetBoard),
		unary("AddTask", TaskBoardServer.AddTask),
		unary("UpdateTask", TaskBoardServer.UpdateTask),
		unary("UpdateTaskStatus", TaskBoardServer.UpdateTaskStatus),
		unary("DeleteTask", TaskBoardServer.DeleteTask),
		unary("SetSearchQuery", TaskBoardServer.SetSearchQuery),
		unary("SetStatusFilter", TaskBoardServer.SetStatusFilter),
		unary("SetPriorityFilter", TaskBoardServer.SetPriorityFilter),
		unary("ClearFilters", TaskBoardServer.ClearFilters),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskboard/v1/taskboard.json",
}

// RegisterTaskBoardServer registers srv with s.
func RegisterTaskBoardServer(s grpc.ServiceRegistrar, srv TaskBoardServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// TaskBoardClient is the client API for the TaskBoard service.
type TaskBoardClient struct {
	cc grpc.ClientConnInterface
}

func NewTaskBoardClient(cc grpc.ClientConnInterface) *TaskBoardClient {
	return &TaskBoardClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TaskBoardClient) OpenSession(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*OpenSessionResponse, error) {
	return invoke[OpenSessionResponse](ctx, c.cc, "OpenSession", in, opts)
}

func (c *TaskBoardClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "Register", in, opts)
}

func (c *TaskBoardClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "Login", in, opts)
}

func (c *TaskBoardClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "Me", in, opts)
}

func (c *TaskBoardClient) Logout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "Logout", in, opts)
}

func (c *TaskBoardClient) FetchTasks(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TaskListResponse, error) {
	return invoke[TaskListResponse](ctx, c.cc, "FetchTasks", in, opts)
}

func (c *TaskBoardClient) ListTasks(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TaskListResponse, error) {
	return invoke[TaskListResponse](ctx, c.cc, "ListTasks", in, opts)
}

func (c *TaskBoardClient) GetBoard(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*BoardResponse, error) {
	return invoke[BoardResponse](ctx, c.cc, "GetBoard", in, opts)
}

func (c *TaskBoardClient) AddTask(ctx context.Context, in *AddTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[TaskResponse](ctx, c.cc, "AddTask", in, opts)
}

func (c *TaskBoardClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*TaskListResponse, error) {
	return invoke[TaskListResponse](ctx, c.cc, "UpdateTask", in, opts)
}

func (c *TaskBoardClient) UpdateTaskStatus(ctx context.Context, in *UpdateTaskStatusRequest, opts ...grpc.CallOption) (*TaskListResponse, error) {
	return invoke[TaskListResponse](ctx, c.cc, "UpdateTaskStatus", in, opts)
}

func (c *TaskBoardClient) DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*TaskListResponse, error) {
	return invoke[TaskListResponse](ctx, c.cc, "DeleteTask", in, opts)
}

func (c *TaskBoardClient) SetSearchQuery(ctx context.Context, in *SetSearchQueryRequest, opts ...grpc.CallOption) (*TaskListResponse, error) {
	return invoke[TaskListResponse](ctx, c.cc, "SetSearchQuery", in, opts)
}

func (c *TaskBoardClient) SetStatusFilter(ctx context.Context, in *SetStatusFilterRequest, opts ...grpc.CallOption) (*TaskListResponse, error) {
	return invoke[TaskListResponse](ctx, c.cc, "SetStatusFilter", in, opts)
}

func (c *TaskBoardClient) SetPriorityFilter(ctx context.Context, in *SetPriorityFilterRequest, opts ...grpc.CallOption) (*TaskListResponse, error) {
	return invoke[TaskListResponse](ctx, c.cc, "SetPriorityFilter", in, opts)
}

func (c *TaskBoardClient) ClearFilters(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TaskListResponse, error) {
	return invoke[TaskListResponse](ctx, c.cc, "ClearFilters", in, opts)
}
