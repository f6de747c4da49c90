package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

var baseTime = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

// stepClock returns a later instant on every call so creation order is
// reflected in createdAt.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	ctx        context.Context
	tasks      *TaskService
	categories *CategoryService
	taskRepo   *repository.TaskRepository
}

func newFixture(t *testing.T, cache StatsCache) *fixture {
	t.Helper()

	db, err := repository.NewDB(repository.DriverSQLite, ":memory:", nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	clock := &stepClock{now: baseTime}
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	tasks := NewTaskService(taskRepo, categoryRepo, cache)
	tasks.now = clock.Now
	categories := NewCategoryService(categoryRepo, taskRepo)
	categories.now = clock.Now

	return &fixture{
		ctx:        context.Background(),
		tasks:      tasks,
		categories: categories,
		taskRepo:   taskRepo,
	}
}

func (f *fixture) mustCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	c, err := f.categories.Create(f.ctx, CategoryInput{Name: name})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c
}

func (f *fixture) mustTask(t *testing.T, name, category string) *model.Task {
	t.Helper()
	input := TaskInput{Name: name, Description: name + " description"}
	if category != "" {
		input.Category = &category
	}
	task, err := f.tasks.Create(f.ctx, input)
	if err != nil {
		t.Fatalf("create task %q: %v", name, err)
	}
	return task
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
