package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// CategoryInput carries the fields accepted when creating a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// CategoryPatch lists the fields a category update may change. Nil fields
// are left untouched.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"isActive"`
}

// CategoryService enforces name uniqueness and reference guards for categories.
type CategoryService struct {
	repo  CategoryStore
	tasks TaskStore
	now   func() time.Time
}

func NewCategoryService(repo CategoryStore, tasks TaskStore) *CategoryService {
	return &CategoryService{repo: repo, tasks: tasks, now: time.Now}
}

// ListActive returns active categories ordered by name.
func (s *CategoryService) ListActive(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListActive(ctx)
}

// ListActiveWithCounts attaches the number of referencing tasks to each
// active category.
func (s *CategoryService) ListActiveWithCounts(ctx context.Context) ([]model.CategoryWithCount, error) {
	categories, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.CategoryWithCount, 0, len(categories))
	for _, c := range categories {
		count, err := s.tasks.Count(ctx, repository.TaskFilter{Category: c.Name})
		if err != nil {
			return nil, err
		}
		out = append(out, model.CategoryWithCount{Category: c, TaskCount: count})
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	return s.find(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (_ *model.Category, err error) {
	defer observe("category_create", time.Now(), &err)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("Category name is required")
	}
	if err := s.ensureUnique(ctx, name, ""); err != nil {
		return nil, err
	}

	now := s.now()
	category := model.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Color:       strings.TrimSpace(input.Color),
		Icon:        input.Icon,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if category.Color == "" {
		category.Color = model.DefaultCategoryColor
	}
	if category.Icon == "" {
		category.Icon = model.DefaultCategoryIcon
	}
	if err := validateCategory(&category); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update applies patch to the category. A renamed category does not rename
// the tasks that reference its old name.
func (s *CategoryService) Update(ctx context.Context, id string, patch CategoryPatch) (_ *model.Category, err error) {
	defer observe("category_update", time.Now(), &err)

	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name != "" {
			if err := s.ensureUnique(ctx, name, category.ID); err != nil {
				return nil, err
			}
		}
		category.Name = name
	}
	if patch.Description != nil {
		category.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Color != nil {
		category.Color = strings.TrimSpace(*patch.Color)
	}
	if patch.Icon != nil {
		category.Icon = *patch.Icon
	}
	if patch.IsActive != nil {
		category.IsActive = *patch.IsActive
		// Reactivation must not create a second active category with the same name.
		if category.IsActive && patch.Name == nil {
			if err := s.ensureUnique(ctx, category.Name, category.ID); err != nil {
				return nil, err
			}
		}
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	category.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete hard-deletes a category that no task references.
func (s *CategoryService) Delete(ctx context.Context, id string) (_ *model.Category, err error) {
	defer observe("category_delete", time.Now(), &err)

	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.tasks.Count(ctx, repository.TaskFilter{Category: category.Name})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{
			Message: fmt.Sprintf("Cannot delete category. It has %d associated task(s). Please reassign or delete the tasks first.", count),
			Count:   count,
		}
	}

	if err := s.repo.Delete(ctx, category.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "Category", Key: id}
		}
		return nil, err
	}
	return category, nil
}

// Deactivate hides a category without checking for referencing tasks.
func (s *CategoryService) Deactivate(ctx context.Context, id string) (_ *model.Category, err error) {
	defer observe("category_deactivate", time.Now(), &err)

	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	category.IsActive = false
	category.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// BulkDelete removes all categories in ids, or none of them when any task
// references one of their names.
func (s *CategoryService) BulkDelete(ctx context.Context, ids []string) (_ int64, err error) {
	defer observe("category_bulk_delete", time.Now(), &err)

	if len(ids) == 0 {
		return 0, invalid("Category IDs array is required")
	}

	categories, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	if len(categories) > 0 {
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		count, err := s.tasks.Count(ctx, repository.TaskFilter{Categories: names})
		if err != nil {
			return 0, err
		}
		if count > 0 {
			return 0, &ConflictError{
				Message: fmt.Sprintf("Cannot delete categories. They have %d associated task(s). Please reassign or delete the tasks first.", count),
				Count:   count,
			}
		}
	}

	return s.repo.DeleteByIDs(ctx, ids)
}

func (s *CategoryService) ensureUnique(ctx context.Context, name, excludeID string) error {
	_, err := s.repo.FindActiveByNameFold(ctx, name, excludeID)
	switch {
	case err == nil:
		return &DuplicateError{Entity: "Category", Name: name}
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *CategoryService) find(ctx context.Context, id string) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "Category", Key: id}
		}
		return nil, err
	}
	return category, nil
}
