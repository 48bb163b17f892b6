package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/repository"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskService handles task business logic. Every operation is scoped to an owner.
type TaskService struct {
	store repository.Store
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store) *TaskService {
	return &TaskService{store: store}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Description string
	Completed   *bool
	Owner       string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Owner     string
	Completed *bool
	Sort      *repository.SortOption
	Limit     int
	Skip      int
}

type taskUpdates struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// CreateTask validates and stores a task owned by input.Owner
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		Description: strings.TrimSpace(input.Description),
		Owner:       input.Owner,
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := (FieldErrors{}).Add(ValidateDescription(task.Description)).Err(); err != nil {
		return nil, err
	}

	if err := s.store.Tasks().Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns the owner's tasks filtered, sorted and bounded by input
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	tasks, err := s.store.Tasks().List(ctx, repository.TaskFilter{
		Owner:     input.Owner,
		Completed: input.Completed,
		Sort:      input.Sort,
		Limit:     input.Limit,
		Skip:      input.Skip,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return tasks, nil
}

// GetTask returns a task of owner
func (s *TaskService) GetTask(ctx context.Context, id, owner string) (*models.Task, error) {
	task, err := s.store.Tasks().FindOwned(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update limited to TaskUpdatableFields.
// Disallowed keys fail before the task is loaded.
func (s *TaskService) UpdateTask(ctx context.Context, id, owner string, raw map[string]json.RawMessage) (*models.Task, error) {
	var updates taskUpdates
	if err := decodeUpdates(raw, TaskUpdatableFields, &updates); err != nil {
		return nil, err
	}

	task, err := s.GetTask(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if updates.Description != nil {
		task.Description = strings.TrimSpace(*updates.Description)
	}
	if updates.Completed != nil {
		task.Completed = *updates.Completed
	}

	if err := (FieldErrors{}).Add(ValidateDescription(task.Description)).Err(); err != nil {
		return nil, err
	}

	if err := s.store.Tasks().Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task of owner and returns it
func (s *TaskService) DeleteTask(ctx context.Context, id, owner string) (*models.Task, error) {
	task, err := s.store.Tasks().DeleteOwned(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}
