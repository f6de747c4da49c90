package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DueDate     *string  `json:"dueDate"`
	Category    *string  `json:"category"`
	Priority    *string  `json:"priority"`
	Tags        []string `json:"tags"`
	Notes       *string  `json:"notes"`
}

// TaskPatch lists the fields a task update may change. Completed is
// accepted but always recomputed from Status.
type TaskPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
	Category    *string `json:"category"`
	Completed   *bool   `json:"completed"`
}

// BulkTaskPatch lists the fields a bulk update may change.
type BulkTaskPatch struct {
	Status    *string `json:"status"`
	Category  *string `json:"category"`
	Completed *bool   `json:"completed"`
}

// SearchQuery holds optional task search filters.
type SearchQuery struct {
	Text     string
	Status   string
	Category string
	DueDate  string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     TaskStore
	categoryRepo CategoryStore
	cache        StatsCache
	now          func() time.Time

	// generation counts mutations; stats computed across one are not cached.
	mu         sync.Mutex
	generation uint64
}

func NewTaskService(taskRepo TaskStore, categoryRepo CategoryStore, cache StatsCache) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, cache: cache, now: time.Now}
}

// List returns all tasks, newest first.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.find(ctx, repository.TaskFilter{})
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorate(task)
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, input TaskInput) (_ *model.Task, err error) {
	defer observe("task_create", time.Now(), &err)

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" || description == "" {
		return nil, invalid("Task name and description are required")
	}

	now := s.now()
	task := model.Task{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Status:      model.StatusTodo,
		Category:    model.GeneralCategory,
		Priority:    model.PriorityMedium,
		Tags:        cleanTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Category != nil {
		if category := strings.TrimSpace(*input.Category); category != "" {
			if err := s.checkCategory(ctx, category); err != nil {
				return nil, err
			}
			task.Category = category
		}
	}
	if input.DueDate != nil {
		if task.DueDate, err = parseDueDate(*input.DueDate, now); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil && *input.Priority != "" {
		task.Priority = model.Priority(strings.TrimSpace(*input.Priority))
	}
	if input.Notes != nil {
		task.Notes = strings.TrimSpace(*input.Notes)
	}
	task.SyncCompleted()
	if err := validateTask(&task); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.decorate(&task)
	return &task, nil
}

func (s *TaskService) Update(ctx context.Context, id string, patch TaskPatch) (_ *model.Task, err error) {
	defer observe("task_update", time.Now(), &err)

	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if patch.Category != nil {
		category := strings.TrimSpace(*patch.Category)
		if category == "" {
			category = model.GeneralCategory
		}
		if err := s.checkCategory(ctx, category); err != nil {
			return nil, err
		}
		task.Category = category
	}
	if patch.Name != nil {
		task.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		task.Status = model.TaskStatus(strings.TrimSpace(*patch.Status))
	}
	if patch.DueDate != nil {
		if task.DueDate, err = parseDueDate(*patch.DueDate, now); err != nil {
			return nil, err
		}
	}
	// Status wins over any supplied completed flag.
	task.SyncCompleted()
	if err := validateTask(task); err != nil {
		return nil, err
	}

	task.UpdatedAt = now
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.decorate(task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) (_ *model.Task, err error) {
	defer observe("task_delete", time.Now(), &err)

	task, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "Task", Key: id}
		}
		return nil, err
	}
	s.invalidate(ctx)
	return task, nil
}

// ClearAll deletes every task.
func (s *TaskService) ClearAll(ctx context.Context) (_ int64, err error) {
	defer observe("task_clear", time.Now(), &err)

	n, err := s.taskRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *TaskService) ByStatus(ctx context.Context, status string) ([]model.Task, error) {
	st, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, repository.TaskFilter{Status: st})
}

// ByCategory lists tasks carrying categoryName, which must be General or an
// active category.
func (s *TaskService) ByCategory(ctx context.Context, categoryName string) ([]model.Task, error) {
	ok, err := resolveActiveCategory(ctx, s.categoryRepo, categoryName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "Category", Key: categoryName}
	}
	return s.find(ctx, repository.TaskFilter{Category: categoryName})
}

// Today lists tasks due on the current UTC date or without a due date.
func (s *TaskService) Today(ctx context.Context) ([]model.Task, error) {
	return s.DueOn(ctx, s.now())
}

// DueOn lists tasks due on the UTC date of day or without a due date.
func (s *TaskService) DueOn(ctx context.Context, day time.Time) ([]model.Task, error) {
	start := startOfDay(day)
	return s.find(ctx, repository.TaskFilter{DueOnOrUnset: &start})
}

// Search combines the provided filters with AND. Text matches name or
// description ignoring case.
func (s *TaskService) Search(ctx context.Context, q SearchQuery) ([]model.Task, error) {
	filter := repository.TaskFilter{
		Text:     strings.TrimSpace(q.Text),
		Status:   model.TaskStatus(strings.TrimSpace(q.Status)),
		Category: strings.TrimSpace(q.Category),
	}
	if strings.TrimSpace(q.DueDate) != "" {
		day, err := parseDay(q.DueDate)
		if err != nil {
			return nil, err
		}
		filter.DueOn = day
	}
	return s.find(ctx, filter)
}

// BulkUpdate applies patch to every task in ids and returns the number of
// matched tasks.
func (s *TaskService) BulkUpdate(ctx context.Context, ids []string, patch BulkTaskPatch) (_ int64, err error) {
	defer observe("task_bulk_update", time.Now(), &err)

	if len(ids) == 0 {
		return 0, invalid("Task IDs array is required")
	}

	fields := map[string]interface{}{}
	if patch.Category != nil {
		category := strings.TrimSpace(*patch.Category)
		if category == "" {
			category = model.GeneralCategory
		}
		if err := s.checkCategory(ctx, category); err != nil {
			return 0, err
		}
		fields["category"] = category
	}
	if patch.Status != nil {
		status, err := parseStatus(*patch.Status)
		if err != nil {
			return 0, err
		}
		fields["status"] = status
		fields["completed"] = status == model.StatusCompleted
	}
	if len(fields) == 0 {
		return 0, nil
	}
	fields["updated_at"] = s.now()

	n, err := s.taskRepo.UpdateByIDs(ctx, ids, fields)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *TaskService) BulkDelete(ctx context.Context, ids []string) (_ int64, err error) {
	defer observe("task_bulk_delete", time.Now(), &err)

	if len(ids) == 0 {
		return 0, invalid("Task IDs array is required")
	}
	n, err := s.taskRepo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return n, nil
}

// Stats counts tasks by status and category.
func (s *TaskService) Stats(ctx context.Context) (*model.Stats, error) {
	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx); ok {
			return stats, nil
		}
	}
	gen := s.currentGeneration()

	var stats model.Stats
	counts := []struct {
		dst    *int64
		status model.TaskStatus
	}{
		{&stats.Total, ""},
		{&stats.Completed, model.StatusCompleted},
		{&stats.InProgress, model.StatusInProgress},
		{&stats.Todo, model.StatusTodo},
	}
	for _, c := range counts {
		n, err := s.taskRepo.Count(ctx, repository.TaskFilter{Status: c.status})
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	stats.CompletionRate = completionRate(stats.Completed, stats.Total)

	byCategory, err := s.taskRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	stats.CategoryStats = byCategory
	if stats.CategoryStats == nil {
		stats.CategoryStats = []model.CategoryStat{}
	}

	if s.cache != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.cache.Set(ctx, &stats)
		}
		s.mu.Unlock()
	}
	return &stats, nil
}

func completionRate(completed, total int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Round(float64(completed) / float64(total) * 100))
}

func (s *TaskService) checkCategory(ctx context.Context, name string) error {
	ok, err := resolveActiveCategory(ctx, s.categoryRepo, name)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("Invalid category selected")
	}
	return nil
}

// resolveActiveCategory reports whether name is General or the exact name of
// an active category.
func resolveActiveCategory(ctx context.Context, repo CategoryStore, name string) (bool, error) {
	if name == model.GeneralCategory {
		return true, nil
	}
	_, err := repo.FindActiveByName(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *TaskService) find(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	tasks, err := s.taskRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	for i := range tasks {
		s.decorate(&tasks[i])
	}
	return tasks, nil
}

func (s *TaskService) load(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "Task", Key: id}
		}
		return nil, err
	}
	return task, nil
}

// decorate fills the derived fields of a task snapshot.
func (s *TaskService) decorate(t *model.Task) {
	t.SyncCompleted()
	if t.Tags == nil {
		t.Tags = []string{}
	}
	t.IsOverdue = t.DueDate != nil && !t.Completed && t.DueDate.Before(startOfDay(s.now()))
}

func (s *TaskService) invalidate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *TaskService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
