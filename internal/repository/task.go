package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tickdown/tickdown/internal/model"
)

// ErrTaskNotFound is returned when a task does not exist or is not owned
// by the requesting user. The two cases are deliberately not
// distinguishable: every query is scoped by user_id.
var ErrTaskNotFound = errors.New("task not found")

// CreateTask inserts a new task owned by task.UserID.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, name, due, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Name,
		task.Due,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetTask retrieves a single task owned by userID.
func (r *Repository) GetTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	query := `
		SELECT id, user_id, name, due, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	var task model.Task
	err := r.pool.QueryRow(ctx, query, taskID, userID).Scan(
		&task.ID,
		&task.UserID,
		&task.Name,
		&task.Due,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// ListTasks retrieves all tasks owned by userID, soonest deadline first.
func (r *Repository) ListTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	query := `
		SELECT id, user_id, name, due, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY due ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*model.Task, 0)
	for rows.Next() {
		var task model.Task
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Name,
			&task.Due,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask persists changed name and/or due for a task owned by
// task.UserID. The user_id condition makes the ownership check and the
// write a single atomic statement.
func (r *Repository) UpdateTask(ctx context.Context, task *model.Task) error {
	query := `
		UPDATE tasks
		SET name = $3, due = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Name,
		task.Due,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// DeleteTask removes a task owned by userID.
func (r *Repository) DeleteTask(ctx context.Context, userID, taskID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// CountTasks returns the number of tasks owned by userID.
func (r *Repository) CountTasks(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}
