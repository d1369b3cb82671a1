package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"todo-backend/models"
)

// TaskRepository is the persistence port the service drives.
type TaskRepository interface {
	// Save inserts the task when ID is zero and updates it by ID otherwise.
	Save(ctx context.Context, task models.Task) (models.Task, error)
	// FindByID reports false when no task has the given id.
	FindByID(ctx context.Context, id int64) (models.Task, bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
	// FindAllByCompleted returns one page of matching tasks and the number
	// of matches across all pages.
	FindAllByCompleted(ctx context.Context, completed bool, page, size int) ([]models.Task, int64, error)
}

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
	log  *slog.Logger
}

type Option func(*TaskService)

// WithClock replaces the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *TaskService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewTaskService(repo TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) Create(ctx context.Context, in models.TaskInput) (models.Task, error) {
	var title string
	if in.Title != nil {
		title = *in.Title
	}
	s.log.Info("creating task", "title", title)

	if strings.TrimSpace(title) == "" {
		return models.Task{}, requiredField("Title is a required field")
	}

	task, err := s.repo.Save(ctx, models.Task{
		Title:       title,
		Description: in.Description,
		Completed:   false,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return models.Task{}, err
	}

	s.log.Info("task created", "id", task.ID, "title", task.Title)
	return task, nil
}

// Update changes only the completed flag. Title and description in the
// input are ignored. The task is saved even when the flag is unchanged.
func (s *TaskService) Update(ctx context.Context, id int64, in models.TaskInput) (models.Task, error) {
	s.log.Info("updating task", "id", id)

	task, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if !ok {
		return models.Task{}, taskNotFound(id)
	}

	if task.Completed != in.Completed {
		task.Completed = in.Completed
	}

	task, err = s.repo.Save(ctx, task)
	if err != nil {
		return models.Task{}, err
	}

	s.log.Info("task updated", "id", task.ID, "completed", task.Completed)
	return task, nil
}

func (s *TaskService) List(ctx context.Context, completed bool, page, size int) ([]models.Task, models.Pagination, error) {
	s.log.Info("retrieving tasks", "completed", completed, "page", page, "size", size)

	tasks, total, err := s.repo.FindAllByCompleted(ctx, completed, page, size)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return tasks, models.NewPagination(total, page, size), nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	s.log.Info("deleting task", "id", id)

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return taskNotFound(id)
	}
	return s.repo.DeleteByID(ctx, id)
}
