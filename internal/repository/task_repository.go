package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// TaskFilter narrows task queries. Zero-value fields are ignored and the
// remaining ones are combined with AND.
type TaskFilter struct {
	Text       string
	Status     model.TaskStatus
	Category   string
	Categories []string
	// DueOn matches tasks due on that calendar day.
	DueOn *time.Time
	// DueOnOrUnset matches tasks due on that day or without a due date.
	DueOnOrUnset *time.Time
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	task.RefreshKeys()
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	task.RefreshKeys()
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

// Find returns tasks matching filter, newest first.
func (r *TaskRepository) Find(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.apply(r.db.WithContext(ctx), filter).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Count(ctx context.Context, filter TaskFilter) (int64, error) {
	var count int64
	if err := r.apply(r.db.WithContext(ctx).Model(&model.Task{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

// CountByCategory groups tasks by category name, largest groups first.
func (r *TaskRepository) CountByCategory(ctx context.Context) ([]model.CategoryStat, error) {
	var stats []model.CategoryStat
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("count tasks by category: %w", err)
	}
	return stats, nil
}

// UpdateByIDs applies fields to every task in ids and returns the number of
// matched rows.
func (r *TaskRepository) UpdateByIDs(ctx context.Context, ids []string, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id IN ?", ids).Updates(fields)
	if res.Error != nil {
		return 0, fmt.Errorf("update tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes a task and returns the removed row.
func (r *TaskRepository) Delete(ctx context.Context, id string) (*model.Task, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(task).Error; err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TaskRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TaskRepository) apply(db *gorm.DB, f TaskFilter) *gorm.DB {
	if f.Text != "" {
		pattern := "%" + escapeLike(model.FoldKey(f.Text)) + "%"
		db = db.Where("search_text LIKE ? ESCAPE '!'", pattern)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if len(f.Categories) > 0 {
		db = db.Where("category IN ?", f.Categories)
	}
	if f.DueOn != nil {
		start, end := dayBounds(*f.DueOn)
		db = db.Where("due_date >= ? AND due_date < ?", start, end)
	}
	if f.DueOnOrUnset != nil {
		start, end := dayBounds(*f.DueOnOrUnset)
		db = db.Where("(due_date IS NULL OR (due_date >= ? AND due_date < ?))", start, end)
	}
	return db
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
