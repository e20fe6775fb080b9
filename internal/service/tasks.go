package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskboard-server/internal/logger"
	"github.com/dtroode/taskboard-server/internal/model"
)

const (
	msgTaskCreated     = "Task created successfully!"
	msgTaskUpdated     = "Task updated successfully!"
	msgTaskDeleted     = "Task deleted successfully!"
	msgTaskMovedPrefix = "Task moved to "
	msgLoginRequired   = "You must be logged in to create tasks"
	msgLoadFailed      = "Failed to load tasks"
	msgCreateFailed    = "Failed to create task"
	msgUpdateFailed    = "Failed to update task"
	msgStatusFailed    = "Failed to update task status"
	msgDeleteFailed    = "Failed to delete task"
)

// UserSource exposes the signed-in user to the task store.
type UserSource interface {
	CurrentUser() (model.User, bool)
}

// Tasks holds the task list of the signed-in user together with the
// client's filter state. Every mutation rewrites the whole list under
// model.TasksKey. It is not safe for concurrent use.
type Tasks struct {
	storage  model.LocalStorage
	users    UserSource
	notifier model.Notifier
	logger   *logger.Logger

	now   func() time.Time
	newID func() (uuid.UUID, error)

	tasks   []model.Task
	filter  model.Filter
	lastErr error
}

func NewTasks(
	storage model.LocalStorage,
	users UserSource,
	notifier model.Notifier,
	logger *logger.Logger,
) *Tasks {
	return &Tasks{
		storage:  storage,
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewV7,
		tasks:    []model.Task{},
		filter:   model.DefaultFilter(),
	}
}

// FetchTasks reloads the list of the current user. Failures are recorded in
// LastError and reported through the notifier.
func (t *Tasks) FetchTasks(ctx context.Context) {
	t.lastErr = nil

	user, ok := t.users.CurrentUser()
	if !ok {
		t.tasks = []model.Task{}
		return
	}

	tasks, err := t.load(ctx, user.ID)
	if err != nil {
		t.logger.Error("Tasks service: failed to load tasks",
			"user_id", user.ID,
			"error", err.Error())
		t.tasks = []model.Task{}
		_ = t.fail(err, msgLoadFailed)
		return
	}

	t.tasks = tasks
	t.logger.Debug("Tasks service: tasks loaded",
		"user_id", user.ID,
		"count", len(tasks))
}

// AddTask creates a task for the current user and puts it first.
func (t *Tasks) AddTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	t.lastErr = nil

	user, ok := t.users.CurrentUser()
	if !ok {
		return model.Task{}, t.fail(model.ErrNotAuthenticated, msgLoginRequired)
	}

	task, err := t.build(in, user.ID)
	if err != nil {
		return model.Task{}, t.fail(err, msgCreateFailed)
	}

	next := make([]model.Task, 0, len(t.tasks)+1)
	next = append(next, task)
	next = append(next, t.tasks...)

	if err := t.save(ctx, user.ID, next); err != nil {
		return model.Task{}, t.fail(err, msgCreateFailed)
	}

	t.tasks = next
	t.logger.Info("Tasks service: task created",
		"user_id", user.ID,
		"task_id", task.ID)
	t.notifier.Notify(model.NotificationSuccess, msgTaskCreated)

	return task, nil
}

// UpdateTask merges update into the task with id. An unknown id is a no-op.
func (t *Tasks) UpdateTask(ctx context.Context, id string, update model.TaskUpdate) error {
	t.lastErr = nil

	if err := validateUpdate(update); err != nil {
		return t.fail(err, msgUpdateFailed)
	}

	user, ok := t.users.CurrentUser()
	if !ok {
		return t.fail(model.ErrNotAuthenticated, msgUpdateFailed)
	}

	idx := t.index(id)
	if idx < 0 {
		return nil
	}

	next := slices.Clone(t.tasks)
	next[idx] = applyUpdate(next[idx], update)

	if err := t.save(ctx, user.ID, next); err != nil {
		return t.fail(err, msgUpdateFailed)
	}

	t.tasks = next
	t.logger.Info("Tasks service: task updated",
		"user_id", user.ID,
		"task_id", id)
	t.notifier.Notify(model.NotificationSuccess, msgTaskUpdated)

	return nil
}

// UpdateTaskStatus moves a task to another column. Failures are recorded in
// LastError and reported through the notifier.
func (t *Tasks) UpdateTaskStatus(ctx context.Context, id string, status model.Status) {
	t.lastErr = nil

	if !status.Valid() {
		_ = t.fail(fmt.Errorf("%w: unknown status %q", model.ErrInvalidArgument, status), msgStatusFailed)
		return
	}

	user, ok := t.users.CurrentUser()
	if !ok {
		_ = t.fail(model.ErrNotAuthenticated, msgStatusFailed)
		return
	}

	idx := t.index(id)
	if idx < 0 {
		return
	}

	next := slices.Clone(t.tasks)
	next[idx].Status = status

	if err := t.save(ctx, user.ID, next); err != nil {
		_ = t.fail(err, msgStatusFailed)
		return
	}

	t.tasks = next
	t.logger.Info("Tasks service: task moved",
		"user_id", user.ID,
		"task_id", id,
		"status", status)
	t.notifier.Notify(model.NotificationInfo, msgTaskMovedPrefix+status.Label())
}

// DeleteTask removes the task with id. An unknown id is a no-op.
func (t *Tasks) DeleteTask(ctx context.Context, id string) error {
	t.lastErr = nil

	user, ok := t.users.CurrentUser()
	if !ok {
		return t.fail(model.ErrNotAuthenticated, msgDeleteFailed)
	}

	idx := t.index(id)
	if idx < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(t.tasks), idx, idx+1)

	if err := t.save(ctx, user.ID, next); err != nil {
		return t.fail(err, msgDeleteFailed)
	}

	t.tasks = next
	t.logger.Info("Tasks service: task deleted",
		"user_id", user.ID,
		"task_id", id)
	t.notifier.Notify(model.NotificationSuccess, msgTaskDeleted)

	return nil
}

func (t *Tasks) SetSearchQuery(query string) {
	t.filter.SearchQuery = query
}

func (t *Tasks) SetStatusFilter(status model.Status) error {
	if status != model.StatusAll && !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrInvalidArgument, status)
	}
	t.filter.Status = status
	return nil
}

func (t *Tasks) SetPriorityFilter(priority model.Priority) error {
	if priority != model.PriorityAll && !priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", model.ErrInvalidArgument, priority)
	}
	t.filter.Priority = priority
	return nil
}

func (t *Tasks) ClearFilters() {
	t.filter = model.DefaultFilter()
}

// Tasks returns a copy of the full list, newest first.
func (t *Tasks) Tasks() []model.Task {
	return slices.Clone(t.tasks)
}

func (t *Tasks) Filter() model.Filter {
	return t.filter
}

func (t *Tasks) LastError() error {
	return t.lastErr
}

// FilteredTasks returns the tasks passing the current filter in list order.
func (t *Tasks) FilteredTasks() []model.Task {
	out := make([]model.Task, 0, len(t.tasks))
	for _, task := range t.tasks {
		if t.filter.Matches(task) {
			out = append(out, task)
		}
	}
	return out
}

// TasksByStatus partitions FilteredTasks into board columns.
func (t *Tasks) TasksByStatus() model.Board {
	board := model.Board{
		Todo:       []model.Task{},
		InProgress: []model.Task{},
		Done:       []model.Task{},
	}

	for _, task := range t.FilteredTasks() {
		switch task.Status {
		case model.StatusTodo:
			board.Todo = append(board.Todo, task)
		case model.StatusInProgress:
			board.InProgress = append(board.InProgress, task)
		case model.StatusDone:
			board.Done = append(board.Done, task)
		}
	}

	return board
}

func (t *Tasks) load(ctx context.Context, userID string) ([]model.Task, error) {
	data, err := t.storage.Get(ctx, model.TasksKey(userID))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("%w: failed to read tasks: %w", model.ErrOperationFailure, err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: tasks of %s: %v", model.ErrLoadFailure, userID, err)
	}

	for _, task := range tasks {
		if task.UserID != userID {
			return nil, fmt.Errorf("%w: task %s belongs to another user", model.ErrLoadFailure, task.ID)
		}
		if !task.Status.Valid() {
			return nil, fmt.Errorf("%w: task %s has unknown status %q", model.ErrLoadFailure, task.ID, task.Status)
		}
		if !task.Priority.Valid() {
			return nil, fmt.Errorf("%w: task %s has unknown priority %q", model.ErrLoadFailure, task.ID, task.Priority)
		}
	}

	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (t *Tasks) save(ctx context.Context, userID string, tasks []model.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	if err := t.storage.Set(ctx, model.TasksKey(userID), data); err != nil {
		t.logger.Error("Tasks service: failed to save tasks",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("%w: failed to save tasks: %w", model.ErrOperationFailure, err)
	}

	return nil
}

func (t *Tasks) build(in model.NewTask, userID string) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", model.ErrInvalidArgument)
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return model.Task{}, fmt.Errorf("%w: unknown priority %q", model.ErrInvalidArgument, priority)
	}

	status := in.Status
	if status == "" {
		status = model.StatusTodo
	}
	if !status.Valid() {
		return model.Task{}, fmt.Errorf("%w: unknown status %q", model.ErrInvalidArgument, status)
	}

	id, err := t.newID()
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to generate task id: %w", err)
	}

	task := model.Task{
		ID:          id.String(),
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		Status:      status,
		CreatedAt:   t.now().UTC(),
		UserID:      userID,
	}
	if in.DueDate != nil {
		due := *in.DueDate
		task.DueDate = &due
	}

	return task, nil
}

func (t *Tasks) index(id string) int {
	return slices.IndexFunc(t.tasks, func(task model.Task) bool {
		return task.ID == id
	})
}

func (t *Tasks) fail(err error, message string) error {
	t.lastErr = err
	t.notifier.Notify(model.NotificationError, message)
	return err
}

func validateUpdate(update model.TaskUpdate) error {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrInvalidArgument)
	}
	if update.Priority != nil && !update.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", model.ErrInvalidArgument, *update.Priority)
	}
	if update.Status != nil && !update.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrInvalidArgument, *update.Status)
	}
	return nil
}

func applyUpdate(task model.Task, update model.TaskUpdate) model.Task {
	if update.Title != nil {
		task.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	switch {
	case update.ClearDueDate:
		task.DueDate = nil
	case update.DueDate != nil:
		due := *update.DueDate
		task.DueDate = &due
	}
	return task
}
