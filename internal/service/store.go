package service

import (
	"context"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// TaskStore is the storage collaborator used by the task and category services.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	Save(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	Find(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	Count(ctx context.Context, filter repository.TaskFilter) (int64, error)
	CountByCategory(ctx context.Context) ([]model.CategoryStat, error)
	UpdateByIDs(ctx context.Context, ids []string, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id string) (*model.Task, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// CategoryStore is the storage collaborator for categories.
type CategoryStore interface {
	Create(ctx context.Context, category *model.Category) error
	Save(ctx context.Context, category *model.Category) error
	ListActive(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Category, error)
	FindActiveByName(ctx context.Context, name string) (*model.Category, error)
	FindActiveByNameFold(ctx context.Context, name, excludeID string) (*model.Category, error)
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// StatsCache keeps the last computed task statistics.
type StatsCache interface {
	Get(ctx context.Context) (*model.Stats, bool)
	Set(ctx context.Context, stats *model.Stats)
	Invalidate(ctx context.Context)
}

var (
	_ TaskStore     = (*repository.TaskRepository)(nil)
	_ CategoryStore = (*repository.CategoryRepository)(nil)
)
