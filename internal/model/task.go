// Package model defines domain entities for the application.
package model

import "time"

// MaxTaskNameLength is the maximum allowed length for a task name.
const MaxTaskNameLength = 100

// Task is a named item with a countdown deadline, owned by exactly one user.
// Due is an epoch timestamp in seconds and must be in the future at creation.
type Task struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Due       int64     `json:"due"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
