package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tickdown/tickdown/internal/metrics"
	"github.com/tickdown/tickdown/internal/model"
	"github.com/tickdown/tickdown/internal/repository"
)

// Task errors.
var (
	ErrTaskNameRequired = errors.New("task name must not be empty")
	ErrTaskNameTooLong  = errors.New("task name too long")
	ErrDueInPast        = errors.New("due must be a future timestamp")
	ErrTaskNotFound     = errors.New("task not found")
)

// TaskService handles task business logic. Every operation is scoped to
// the owning user; a task belonging to someone else behaves exactly like
// a task that does not exist.
type TaskService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
	now     func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *repository.Repository, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		repo:    repo,
		metrics: recorder,
		now:     time.Now,
	}
}

// CreateTask creates a task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID, name string, due int64) (*model.Task, error) {
	name = strings.TrimSpace(name)
	if err := s.validateName(name); err != nil {
		return nil, err
	}
	if err := s.validateDue(due); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &model.Task{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Name:      name,
		Due:       due,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.metrics.IncTaskCreated()

	return task, nil
}

// GetTask retrieves a task owned by userID.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.repo.GetTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

// ListTasks returns all tasks owned by userID, soonest due first.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdateTaskInput defines input for updating a task. Name and Due are
// independently optional; nil leaves the stored value unchanged.
type UpdateTaskInput struct {
	UserID string
	TaskID string
	Name   *string
	Due    *int64
}

// UpdateTask updates a task's mutable fields. Validation failures leave
// the stored task untouched.
func (s *TaskService) UpdateTask(ctx context.Context, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.repo.GetTask(ctx, input.UserID, input.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := s.validateName(name); err != nil {
			return nil, err
		}
		task.Name = name
	}

	if input.Due != nil {
		if err := s.validateDue(*input.Due); err != nil {
			return nil, err
		}
		task.Due = *input.Due
	}

	task.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.metrics.IncTaskUpdated()

	return task, nil
}

// DeleteTask removes a task owned by userID.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := s.repo.DeleteTask(ctx, userID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.metrics.IncTaskDeleted()

	return nil
}

func (s *TaskService) validateName(name string) error {
	if name == "" {
		return ErrTaskNameRequired
	}
	if len(name) > model.MaxTaskNameLength {
		return ErrTaskNameTooLong
	}
	return nil
}

func (s *TaskService) validateDue(due int64) error {
	if due <= s.now().Unix() {
		return ErrDueInPast
	}
	return nil
}
