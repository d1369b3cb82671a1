package models

import "time"

// Task is a single to-do item as stored and as returned to clients.
type Task struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// TaskInput is the request body for creating and updating a task.
// Update only looks at Completed.
type TaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}
