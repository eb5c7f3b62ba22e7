package dto

import (
	"time"

	"github.com/tickdown/tickdown/internal/model"
)

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Due  int64  `json:"due" validate:"required,gt=0"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Name and Due are independently optional.
type UpdateTaskRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Due  *int64  `json:"due,omitempty" validate:"omitempty,gt=0"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Due       int64     `json:"due"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskListResponse represents the task collection for one user.
type TaskListResponse struct {
	Data []TaskResponse `json:"data"`
}

// ToTaskResponse converts a Task model to TaskResponse DTO.
func ToTaskResponse(task *model.Task) *TaskResponse {
	return &TaskResponse{
		ID:        task.ID,
		Name:      task.Name,
		Due:       task.Due,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of Task models to TaskListResponse.
func ToTaskListResponse(tasks []*model.Task) *TaskListResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = *ToTaskResponse(task)
	}
	return &TaskListResponse{Data: responses}
}
