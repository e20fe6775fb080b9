package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/taskboard-server/internal/api/grpc/taskboard"
	"github.com/dtroode/taskboard-server/internal/logger"
	"github.com/dtroode/taskboard-server/internal/model"
	"github.com/dtroode/taskboard-server/internal/service"
)

// NotificationTrailer carries notifications of a failed call as
// "<level>: <message>" values.
const NotificationTrailer = "x-notification"

// WorkspaceProvider returns the workspace of a client.
type WorkspaceProvider interface {
	Get(ctx context.Context, clientID uuid.UUID) (*service.Workspace, error)
}

var _ taskboard.TaskBoardServer = (*TaskBoard)(nil)

// TaskBoard handles gRPC endpoints of the TaskBoard service.
type TaskBoard struct {
	workspaces     WorkspaceProvider
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewTaskBoard creates a new TaskBoard handler.
func NewTaskBoard(
	workspaces WorkspaceProvider,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *TaskBoard {
	return &TaskBoard{
		workspaces:     workspaces,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		logger:         logger,
	}
}

// OpenSession issues a token for a new client namespace.
func (h *TaskBoard) OpenSession(_ context.Context, _ *taskboard.Empty) (*taskboard.OpenSessionResponse, error) {
	clientID := uuid.New()

	token, err := h.tokenManager.GenerateClientToken(clientID)
	if err != nil {
		h.logger.Error("TaskBoard handler: failed to generate client token", "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("TaskBoard handler: session opened", "client_id", clientID.String())

	return &taskboard.OpenSessionResponse{
		ClientID:    clientID.String(),
		ClientToken: token,
	}, nil
}

// Register creates an account and signs the client in.
func (h *TaskBoard) Register(ctx context.Context, req *taskboard.RegisterRequest) (*taskboard.SessionResponse, error) {
	ws, err := h.workspace(ctx)
	if err != nil {
		return nil, err
	}

	var resp *taskboard.SessionResponse
	notifications, err := h.do(ctx, ws, func(session *service.Session, tasks *service.Tasks) error {
		if _, err := session.Register(ctx, req.Email, req.Password, req.DisplayName); err != nil {
			return err
		}
		tasks.FetchTasks(ctx)
		resp = sessionResponse(session)
		return nil
	})
	if err != nil {
		return nil, h.fail(ctx, ws, "Register", notifications, err)
	}

	resp.Notifications = notifications
	return resp, nil
}

// Login signs the client in with an existing account.
func (h *TaskBoard) Login(ctx context.Context, req *taskboard.LoginRequest) (*taskboard.SessionResponse, error) {
	ws, err := h.workspace(ctx)
	if err != nil {
		return nil, err
	}

	var resp *taskboard.SessionResponse
	notifications, err := h.do(ctx, ws, func(session *service.Session, tasks *service.Tasks) error {
		if _, err := session.Login(ctx, req.Email, req.Password); err != nil {
			return err
		}
		tasks.FetchTasks(ctx)
		resp = sessionResponse(session)
		return nil
	})
	if err != nil {
		return nil, h.fail(ctx, ws, "Login", notifications, err)
	}

	resp.Notifications = notifications
	return resp, nil
}

// Me describes the client's session.
func (h *TaskBoard) Me(ctx context.Context, _ *taskboard.Empty) (*taskboard.SessionResponse, error) {
	ws, err := h.workspace(ctx)
	if err != nil {
		return nil, err
	}

	return h.session(ctx, ws, "Me", nil)
}

// Logout signs the client out and drops its task list.
func (h *TaskBoard) Logout(ctx context.Context, _ *taskboard.Empty) (*taskboard.SessionResponse, error) {
	ws, err := h.workspace(ctx)
	if err != nil {
		return nil, err
	}

	return h.session(ctx, ws, "Logout", func(session *service.Session, tasks *service.Tasks) {
		session.Logout(ctx)
		tasks.FetchTasks(ctx)
	})
}

// FetchTasks reloads the task list from storage.
func (h *TaskBoard) FetchTasks(ctx context.Context, _ *taskboard.Empty) (*taskboard.TaskListResponse, error) {
	return h.taskList(ctx, "FetchTasks", false, func(tasks *service.Tasks) error {
		tasks.FetchTasks(ctx)
		return nil
	})
}

// ListTasks returns the tasks passing the current filter.
func (h *TaskBoard) ListTasks(ctx context.Context, _ *taskboard.Empty) (*taskboard.TaskListResponse, error) {
	return h.taskList(ctx, "ListTasks", true, nil)
}

// GetBoard returns the filtered tasks grouped by status.
func (h *TaskBoard) GetBoard(ctx context.Context, _ *taskboard.Empty) (*taskboard.BoardResponse, error) {
	ws, err := h.workspace(ctx)
	if err != nil {
		return nil, err
	}

	resp := &taskboard.BoardResponse{}
	notifications, err := h.do(ctx, ws, func(_ *service.Session, tasks *service.Tasks) error {
		resp.Board = tasks.TasksByStatus()
		resp.Filter = tasks.Filter()
		return nil
	})
	if err != nil {
		return nil, h.fail(ctx, ws, "GetBoard", notifications, err)
	}

	resp.Notifications = notifications
	return resp, nil
}

// AddTask creates a task at the top of the list.
func (h *TaskBoard) AddTask(ctx context.Context, req *taskboard.AddTaskRequest) (*taskboard.TaskResponse, error) {
	ws, err := h.workspace(ctx)
	if err != nil {
		return nil, err
	}

	var task model.Task
	notifications, err := h.do(ctx, ws, func(_ *service.Session, tasks *service.Tasks) error {
		var err error
		task, err = tasks.AddTask(ctx, model.NewTask{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			Status:      req.Status,
			DueDate:     req.DueDate,
		})
		return err
	})
	if err != nil {
		return nil, h.fail(ctx, ws, "AddTask", notifications, err)
	}

	return &taskboard.TaskResponse{
		Task:          task,
		Notifications: notifications,
	}, nil
}

// UpdateTask changes the set fields of a task.
func (h *TaskBoard) UpdateTask(ctx context.Context, req *taskboard.UpdateTaskRequest) (*taskboard.TaskListResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}

	return h.taskList(ctx, "UpdateTask", false, func(tasks *service.Tasks) error {
		return tasks.UpdateTask(ctx, req.ID, model.TaskUpdate{
			Title:        req.Title,
			Description:  req.Description,
			Priority:     req.Priority,
			Status:       req.Status,
			DueDate:      req.DueDate,
			ClearDueDate: req.ClearDueDate,
		})
	})
}

// UpdateTaskStatus moves a task to another column.
func (h *TaskBoard) UpdateTaskStatus(ctx context.Context, req *taskboard.UpdateTaskStatusRequest) (*taskboard.TaskListResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "unknown status %q", req.Status)
	}

	return h.taskList(ctx, "UpdateTaskStatus", false, func(tasks *service.Tasks) error {
		tasks.UpdateTaskStatus(ctx, req.ID, req.Status)
		return nil
	})
}

// DeleteTask removes a task.
func (h *TaskBoard) DeleteTask(ctx context.Context, req *taskboard.DeleteTaskRequest) (*taskboard.TaskListResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}

	return h.taskList(ctx, "DeleteTask", false, func(tasks *service.Tasks) error {
		return tasks.DeleteTask(ctx, req.ID)
	})
}

// SetSearchQuery filters tasks by title or description.
func (h *TaskBoard) SetSearchQuery(ctx context.Context, req *taskboard.SetSearchQueryRequest) (*taskboard.TaskListResponse, error) {
	return h.taskList(ctx, "SetSearchQuery", true, func(tasks *service.Tasks) error {
		tasks.SetSearchQuery(req.Query)
		return nil
	})
}

// SetStatusFilter filters tasks by status.
func (h *TaskBoard) SetStatusFilter(ctx context.Context, req *taskboard.SetStatusFilterRequest) (*taskboard.TaskListResponse, error) {
	return h.taskList(ctx, "SetStatusFilter", true, func(tasks *service.Tasks) error {
		return tasks.SetStatusFilter(req.Status)
	})
}

// SetPriorityFilter filters tasks by priority.
func (h *TaskBoard) SetPriorityFilter(ctx context.Context, req *taskboard.SetPriorityFilterRequest) (*taskboard.TaskListResponse, error) {
	return h.taskList(ctx, "SetPriorityFilter", true, func(tasks *service.Tasks) error {
		return tasks.SetPriorityFilter(req.Priority)
	})
}

// ClearFilters resets the filter to match every task.
func (h *TaskBoard) ClearFilters(ctx context.Context, _ *taskboard.Empty) (*taskboard.TaskListResponse, error) {
	return h.taskList(ctx, "ClearFilters", true, func(tasks *service.Tasks) error {
		tasks.ClearFilters()
		return nil
	})
}

func (h *TaskBoard) workspace(ctx context.Context) (*service.Workspace, error) {
	clientID, ok := h.contextManager.GetClientIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing client id")
	}

	ws, err := h.workspaces.Get(ctx, clientID)
	if err != nil {
		h.logger.Error("TaskBoard handler: failed to load workspace",
			"client_id", clientID.String(),
			"error", err.Error())
		return nil, status.Error(codes.Unavailable, "session is unavailable")
	}

	return ws, nil
}

// taskList runs fn against the task store and returns the full or the
// filtered list.
func (h *TaskBoard) taskList(ctx context.Context, method string, filtered bool, fn func(tasks *service.Tasks) error) (*taskboard.TaskListResponse, error) {
	ws, err := h.workspace(ctx)
	if err != nil {
		return nil, err
	}

	resp := &taskboard.TaskListResponse{}
	notifications, err := h.do(ctx, ws, func(_ *service.Session, tasks *service.Tasks) error {
		if fn != nil {
			if err := fn(tasks); err != nil {
				return err
			}
		}
		if filtered {
			resp.Tasks = tasks.FilteredTasks()
		} else {
			resp.Tasks = tasks.Tasks()
		}
		resp.Filter = tasks.Filter()
		return nil
	})
	if err != nil {
		return nil, h.fail(ctx, ws, method, notifications, err)
	}

	resp.Notifications = notifications
	return resp, nil
}

// session runs fn, if any, and describes the resulting session.
func (h *TaskBoard) session(ctx context.Context, ws *service.Workspace, method string, fn func(session *service.Session, tasks *service.Tasks)) (*taskboard.SessionResponse, error) {
	var resp *taskboard.SessionResponse
	notifications, err := h.do(ctx, ws, func(session *service.Session, tasks *service.Tasks) error {
		if fn != nil {
			fn(session, tasks)
		}
		resp = sessionResponse(session)
		return nil
	})
	if err != nil {
		return nil, h.fail(ctx, ws, method, notifications, err)
	}

	resp.Notifications = notifications
	return resp, nil
}

// do runs fn on the workspace and drains the notifications it raised before
// another call of the same client can take them.
func (h *TaskBoard) do(ctx context.Context, ws *service.Workspace, fn func(session *service.Session, tasks *service.Tasks) error) ([]model.Notification, error) {
	var notifications []model.Notification
	err := ws.Do(ctx, func(session *service.Session, tasks *service.Tasks) error {
		err := fn(session, tasks)
		notifications = ws.Notifications()
		return err
	})
	return notifications, err
}

func sessionResponse(session *service.Session) *taskboard.SessionResponse {
	resp := &taskboard.SessionResponse{}
	if user, ok := session.CurrentUser(); ok {
		resp.Authenticated = true
		resp.User = &user
	}
	return resp
}

// fail hands pending notifications to the client through the trailer and
// converts err to a status.
func (h *TaskBoard) fail(ctx context.Context, ws *service.Workspace, method string, notifications []model.Notification, err error) error {
	h.logger.Debug("TaskBoard handler: call failed",
		"method", method,
		"client_id", ws.ClientID().String(),
		"error", err.Error())

	if len(notifications) > 0 {
		md := metadata.MD{}
		for _, n := range notifications {
			md.Append(NotificationTrailer, fmt.Sprintf("%s: %s", n.Level, n.Message))
		}
		_ = grpc.SetTrailer(ctx, md)
	}

	return handleError(err)
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return status.Error(codes.InvalidArgument, "task id is required")
	}
	return nil
}
