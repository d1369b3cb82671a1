package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"todo-backend/models"
	"todo-backend/service"
)

type fakeRepo struct {
	mu sync.Mutex

	nextID int64
	tasks  map[int64]models.Task

	// page returned by FindAllByCompleted when set, instead of scanning tasks
	page      []models.Task
	pageTotal int64

	saves, finds, exists, deletes, lists int
	lastListArgs                        [3]any

	err error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, tasks: make(map[int64]models.Task)}
}

func (r *fakeRepo) Save(_ context.Context, task models.Task) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saves++
	if r.err != nil {
		return models.Task{}, r.err
	}
	if task.ID == 0 {
		task.ID = r.nextID
		r.nextID++
	}
	r.tasks[task.ID] = task
	return task, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (models.Task, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finds++
	if r.err != nil {
		return models.Task{}, false, r.err
	}
	task, ok := r.tasks[id]
	return task, ok, nil
}

func (r *fakeRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exists++
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.tasks[id]
	return ok, nil
}

func (r *fakeRepo) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deletes++
	delete(r.tasks, id)
	return nil
}

func (r *fakeRepo) FindAllByCompleted(_ context.Context, completed bool, page, size int) ([]models.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lists++
	r.lastListArgs = [3]any{completed, page, size}
	if r.err != nil {
		return nil, 0, r.err
	}
	if r.page != nil {
		return r.page, r.pageTotal, nil
	}

	var matched []models.Task
	for _, t := range r.tasks {
		if t.Completed == completed {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	start := page * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (r *fakeRepo) put(t models.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
	if t.ID >= r.nextID {
		r.nextID = t.ID + 1
	}
}

func strPtr(v string) *string { return &v }

func TestCreate_BlankTitle(t *testing.T) {
	t.Parallel()

	for name, title := range map[string]*string{
		"nil":        nil,
		"empty":      strPtr(""),
		"whitespace": strPtr("   "),
		"tabs":       strPtr("\t\n "),
	} {
		title := title
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeRepo()
			svc := service.NewTaskService(repo)

			_, err := svc.Create(context.Background(), models.TaskInput{Title: title, Description: strPtr("d")})
			if !errors.Is(err, service.ErrRequiredField) {
				t.Fatalf("expected ErrRequiredField, got %v", err)
			}
			if err.Error() != "Title is a required field" {
				t.Fatalf("message=%q", err.Error())
			}
			if repo.saves != 0 {
				t.Fatalf("expected no save, got %d", repo.saves)
			}
		})
	}
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := service.NewTaskService(repo)
	start := time.Now().UTC()

	task, err := svc.Create(context.Background(), models.TaskInput{Title: strPtr("Buy milk"), Completed: true})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if task.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if task.Title != "Buy milk" {
		t.Fatalf("title=%q", task.Title)
	}
	if task.Description != nil {
		t.Fatalf("expected nil description, got %q", *task.Description)
	}
	if task.Completed {
		t.Fatalf("new task must not be completed")
	}
	if task.CreatedAt.Before(start) {
		t.Fatalf("createdAt %s is before call start %s", task.CreatedAt, start)
	}
	if repo.saves != 1 {
		t.Fatalf("expected exactly one save, got %d", repo.saves)
	}
}

func TestCreate_KeepsDescriptionAndUsesClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	repo := newFakeRepo()
	svc := service.NewTaskService(repo, service.WithClock(func() time.Time { return fixed }))

	task, err := svc.Create(context.Background(), models.TaskInput{Title: strPtr("Write report"), Description: strPtr("quarterly")})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Description == nil || *task.Description != "quarterly" {
		t.Fatalf("description=%v", task.Description)
	}
	if !task.CreatedAt.Equal(fixed) {
		t.Fatalf("createdAt=%s want %s", task.CreatedAt, fixed)
	}
}

func TestCreate_StoreErrorPassesThrough(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	repo := newFakeRepo()
	repo.err = boom
	svc := service.NewTaskService(repo)

	_, err := svc.Create(context.Background(), models.TaskInput{Title: strPtr("task")})
	if err != boom {
		t.Fatalf("expected store error unchanged, got %v", err)
	}
}

func TestUpdate_SetsCompleted(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name          string
		stored, input bool
	}{
		{"false_to_true", false, true},
		{"true_to_false", true, false},
		{"unchanged_false", false, false},
		{"unchanged_true", true, true},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeRepo()
			created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			repo.put(models.Task{ID: 1, Title: "Existing Task", Completed: tc.stored, CreatedAt: created})
			svc := service.NewTaskService(repo)

			task, err := svc.Update(context.Background(), 1, models.TaskInput{Completed: tc.input})
			if err != nil {
				t.Fatalf("Update returned error: %v", err)
			}
			if task.ID != 1 {
				t.Fatalf("id=%d", task.ID)
			}
			if task.Completed != tc.input {
				t.Fatalf("completed=%v want %v", task.Completed, tc.input)
			}
			if !task.CreatedAt.Equal(created) {
				t.Fatalf("createdAt changed to %s", task.CreatedAt)
			}
			if repo.finds != 1 || repo.saves != 1 {
				t.Fatalf("finds=%d saves=%d, want 1 and 1", repo.finds, repo.saves)
			}
		})
	}
}

func TestUpdate_IgnoresTitleAndDescription(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.put(models.Task{ID: 3, Title: "old", Description: strPtr("old description")})
	svc := service.NewTaskService(repo)

	task, err := svc.Update(context.Background(), 3, models.TaskInput{
		Title:       strPtr("new"),
		Description: strPtr("new description"),
		Completed:   true,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if task.Title != "old" || task.Description == nil || *task.Description != "old description" {
		t.Fatalf("title/description changed: %+v", task)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := service.NewTaskService(repo)

	_, err := svc.Update(context.Background(), 999, models.TaskInput{Completed: true})
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "Task not found with id: 999" {
		t.Fatalf("message=%q", err.Error())
	}
	if repo.finds != 1 {
		t.Fatalf("expected one lookup, got %d", repo.finds)
	}
	if repo.saves != 0 {
		t.Fatalf("expected no save, got %d", repo.saves)
	}
}

func TestList_PaginationFromStore(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.page = []models.Task{
		{ID: 1, Title: "Task 1", Description: strPtr("Description 1"), Completed: true},
		{ID: 2, Title: "Task 2", Description: strPtr("Description 2"), Completed: true},
	}
	repo.pageTotal = 10
	svc := service.NewTaskService(repo)

	tasks, p, err := svc.List(context.Background(), true, 0, 5)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != 1 || tasks[1].ID != 2 {
		t.Fatalf("store order not kept: %d, %d", tasks[0].ID, tasks[1].ID)
	}
	want := models.Pagination{TotalElements: 10, CurrentPage: 0, PageSize: 5, TotalPages: 2}
	if p != want {
		t.Fatalf("pagination=%+v want %+v", p, want)
	}
	if repo.lastListArgs != [3]any{true, 0, 5} {
		t.Fatalf("store called with %v", repo.lastListArgs)
	}
}

func TestList_TotalPagesRoundsUp(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		total      int64
		size, want int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{4, 3, 2},
		{10, 5, 2},
		{11, 5, 3},
		{7, 0, 0},
	} {
		repo := newFakeRepo()
		repo.page = []models.Task{}
		repo.pageTotal = tc.total
		svc := service.NewTaskService(repo)

		_, p, err := svc.List(context.Background(), false, 1, tc.size)
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if p.TotalPages != tc.want {
			t.Fatalf("total=%d size=%d: totalPages=%d want %d", tc.total, tc.size, p.TotalPages, tc.want)
		}
		if p.CurrentPage != 1 || p.PageSize != tc.size || p.TotalElements != tc.total {
			t.Fatalf("unexpected pagination %+v", p)
		}
	}
}

func TestList_EmptyPageIsNotNil(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := service.NewTaskService(repo)

	tasks, p, err := svc.List(context.Background(), true, 0, 5)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tasks)
	}
	if p.TotalElements != 0 || p.TotalPages != 0 {
		t.Fatalf("unexpected pagination %+v", p)
	}
}

func TestDelete_Existing(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.put(models.Task{ID: 1, Title: "task"})
	svc := service.NewTaskService(repo)

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if repo.exists != 1 || repo.deletes != 1 {
		t.Fatalf("exists=%d deletes=%d, want 1 and 1", repo.exists, repo.deletes)
	}
	if _, ok := repo.tasks[1]; ok {
		t.Fatalf("task still stored")
	}
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := service.NewTaskService(repo)

	err := svc.Delete(context.Background(), 999)
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "Task not found with id: 999" {
		t.Fatalf("message=%q", err.Error())
	}
	if repo.exists != 1 {
		t.Fatalf("expected one existence check, got %d", repo.exists)
	}
	if repo.deletes != 0 {
		t.Fatalf("expected no delete, got %d", repo.deletes)
	}
}
