package taskboard

import (
	"time"

	"github.com/dtroode/taskboard-server/internal/model"
)

// Empty is the request of calls that take no arguments.
type Empty struct{}

type OpenSessionResponse struct {
	ClientID    string `json:"clientId"`
	ClientToken string `json:"clientToken"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the caller's session after the call.
type SessionResponse struct {
	Authenticated bool                 `json:"authenticated"`
	User          *model.User          `json:"user,omitempty"`
	Notifications []model.Notification `json:"notifications"`
}

type AddTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    model.Priority `json:"priority"`
	Status      model.Status   `json:"status"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
}

type TaskResponse struct {
	Task          model.Task           `json:"task"`
	Notifications []model.Notification `json:"notifications"`
}

// UpdateTaskRequest changes only the fields that are set.
type UpdateTaskRequest struct {
	ID           string          `json:"id"`
	Title        *string         `json:"title,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Priority     *model.Priority `json:"priority,omitempty"`
	Status       *model.Status   `json:"status,omitempty"`
	DueDate      *time.Time      `json:"dueDate,omitempty"`
	ClearDueDate bool            `json:"clearDueDate,omitempty"`
}

type UpdateTaskStatusRequest struct {
	ID     string       `json:"id"`
	Status model.Status `json:"status"`
}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type SetSearchQueryRequest struct {
	Query string `json:"query"`
}

type SetStatusFilterRequest struct {
	Status model.Status `json:"status"`
}

type SetPriorityFilterRequest struct {
	Priority model.Priority `json:"priority"`
}

// TaskListResponse carries a task list and the filter in effect.
type TaskListResponse struct {
	Tasks         []model.Task         `json:"tasks"`
	Filter        model.Filter         `json:"filter"`
	Notifications []model.Notification `json:"notifications"`
}

type BoardResponse struct {
	Board         model.Board          `json:"board"`
	Filter        model.Filter         `json:"filter"`
	Notifications []model.Notification `json:"notifications"`
}
