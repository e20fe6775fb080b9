package model

import "time"

// TasksKeyPrefix prefixes the storage key of a user's task list.
const TasksKeyPrefix = "tasks_"

// TasksKey returns the storage key of the task list owned by userID.
func TasksKey(userID string) string {
	return TasksKeyPrefix + userID
}

// Priority is a task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	// PriorityAll is the wildcard priority filter.
	PriorityAll Priority = "all"
)

// Valid reports whether p is a concrete priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the board column of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	// StatusAll is the wildcard status filter.
	StatusAll Status = "all"
)

// Valid reports whether s is a concrete status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the human readable column name.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Task is a single to-do item owned by one user.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UserID      string     `json:"userId"`
}

// NewTask holds the caller supplied fields of a task being created.
type NewTask struct {
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     *time.Time
}

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Priority     *Priority
	Status       *Status
	DueDate      *time.Time
	ClearDueDate bool
}

// Board groups tasks by status column.
type Board struct {
	Todo       []Task `json:"todo"`
	InProgress []Task `json:"in-progress"`
	Done       []Task `json:"done"`
}
