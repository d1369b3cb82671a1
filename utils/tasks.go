package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"todo-backend/models"
)

// TaskStore keeps tasks in a SQL database.
type TaskStore struct {
	db *sqlx.DB
}

func NewTaskStore(db *sqlx.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Ping is used by the readiness probe.
func (s *TaskStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save inserts a task without an id and updates an existing one otherwise.
// CreatedAt is written only on insert.
func (s *TaskStore) Save(ctx context.Context, task models.Task) (models.Task, error) {
	if task.ID == 0 {
		return s.insert(ctx, task)
	}
	return s.update(ctx, task)
}

func (s *TaskStore) insert(ctx context.Context, task models.Task) (models.Task, error) {
	query := s.db.Rebind(`
	INSERT INTO tasks (title, description, completed, created_at)
	VALUES (?, ?, ?, ?)
	RETURNING id
	`)

	err := s.db.QueryRowxContext(ctx, query, task.Title, task.Description, task.Completed, task.CreatedAt).Scan(&task.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (s *TaskStore) update(ctx context.Context, task models.Task) (models.Task, error) {
	query := s.db.Rebind(`
	UPDATE tasks
	SET title = ?, description = ?, completed = ?
	WHERE id = ?
	`)

	res, err := s.db.ExecContext(ctx, query, task.Title, task.Description, task.Completed, task.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", task.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Task{}, fmt.Errorf("update task %d: %w", task.ID, sql.ErrNoRows)
	}
	return task, nil
}

// FindByID returns false when the task does not exist.
func (s *TaskStore) FindByID(ctx context.Context, id int64) (models.Task, bool, error) {
	query := s.db.Rebind(`
	SELECT id, title, description, completed, created_at
	FROM tasks
	WHERE id = ?
	`)

	var task models.Task
	err := s.db.GetContext(ctx, &task, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, false, nil
	}
	if err != nil {
		return models.Task{}, false, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, true, nil
}

// ExistsByID checks if a task with the given ID exists
func (s *TaskStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int
	query := s.db.Rebind("SELECT COUNT(*) FROM tasks WHERE id = ?")
	if err := s.db.GetContext(ctx, &count, query, id); err != nil {
		return false, fmt.Errorf("check task %d: %w", id, err)
	}
	return count > 0, nil
}

// DeleteByID deletes a task by ID. Deleting a missing task is a no-op.
func (s *TaskStore) DeleteByID(ctx context.Context, id int64) error {
	query := s.db.Rebind("DELETE FROM tasks WHERE id = ?")
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// FindAllByCompleted retrieves one page of tasks with the given completed
// flag, ordered by id, and the total count of such tasks.
func (s *TaskStore) FindAllByCompleted(ctx context.Context, completed bool, page, size int) ([]models.Task, int64, error) {
	var total int64
	countQuery := s.db.Rebind("SELECT COUNT(*) FROM tasks WHERE completed = ?")
	if err := s.db.GetContext(ctx, &total, countQuery, completed); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	if page < 0 {
		page = 0
	}
	if size < 0 {
		size = 0
	}
	// an offset past math.MaxInt can only land beyond the last row
	if size == 0 || page > math.MaxInt/size {
		return []models.Task{}, total, nil
	}

	query := s.db.Rebind(`
	SELECT id, title, description, completed, created_at
	FROM tasks
	WHERE completed = ?
	ORDER BY id ASC
	LIMIT ? OFFSET ?
	`)

	tasks := []models.Task{}
	if err := s.db.SelectContext(ctx, &tasks, query, completed, size, page*size); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

// SeedTasks inserts count numbered dummy tasks in a single transaction.
func (s *TaskStore) SeedTasks(ctx context.Context, count int) error {
	if count <= 0 {
		return nil
	}

	var lastID int64
	if err := s.db.GetContext(ctx, &lastID, "SELECT COALESCE(MAX(id), 0) FROM tasks"); err != nil {
		return fmt.Errorf("fetch last task id: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
	INSERT INTO tasks (title, description, completed, created_at)
	VALUES (?, ?, ?, ?)
	`))
	if err != nil {
		return fmt.Errorf("prepare seed insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := 1; i <= count; i++ {
		n := lastID + int64(i)
		description := fmt.Sprintf("Description for task %d", n)
		if _, err := stmt.ExecContext(ctx, fmt.Sprintf("Task %d", n), description, false, now); err != nil {
			return fmt.Errorf("insert seed task %d: %w", n, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
