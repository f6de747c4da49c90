package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"task-tracker/internal/model"
)

func TestCreateCategoryDefaults(t *testing.T) {
	f := newFixture(t, nil)

	c, err := f.categories.Create(f.ctx, CategoryInput{Name: "  Work  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Work" {
		t.Errorf("Name = %q, want trimmed %q", c.Name, "Work")
	}
	if c.Color != model.DefaultCategoryColor {
		t.Errorf("Color = %q, want %q", c.Color, model.DefaultCategoryColor)
	}
	if c.Icon != model.DefaultCategoryIcon {
		t.Errorf("Icon = %q, want %q", c.Icon, model.DefaultCategoryIcon)
	}
	if c.Description != "" {
		t.Errorf("Description = %q, want empty", c.Description)
	}
	if !c.IsActive {
		t.Error("new category should be active")
	}
	if c.ID == "" {
		t.Error("expected an id to be assigned")
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name  string
		input CategoryInput
	}{
		{"empty name", CategoryInput{Name: ""}},
		{"blank name", CategoryInput{Name: "   "}},
		{"short color", CategoryInput{Name: "A", Color: "#fff"}},
		{"no hash", CategoryInput{Name: "B", Color: "FF0000"}},
		{"bad digits", CategoryInput{Name: "C", Color: "#GG0000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.categories.Create(f.ctx, tt.input)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	if _, err := f.categories.Create(f.ctx, CategoryInput{Name: "Lower", Color: "#ff00aa"}); err != nil {
		t.Errorf("lowercase hex color should be accepted: %v", err)
	}
}

func TestCreateCategoryDuplicateIgnoresCase(t *testing.T) {
	f := newFixture(t, nil)
	f.mustCategory(t, "Work")

	_, err := f.categories.Create(f.ctx, CategoryInput{Name: "work"})
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
}

func TestCreateCategoryDuplicateFoldsUnicode(t *testing.T) {
	f := newFixture(t, nil)
	f.mustCategory(t, "Études")
	other := f.mustCategory(t, "Straße")

	for _, name := range []string{"études", "ÉTUDES"} {
		_, err := f.categories.Create(f.ctx, CategoryInput{Name: name})
		var de *DuplicateError
		if !errors.As(err, &de) {
			t.Errorf("Create(%q): expected DuplicateError, got %v", name, err)
		}
	}

	_, err := f.categories.Update(f.ctx, other.ID, CategoryPatch{Name: strPtr("éTUDES")})
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Errorf("rename onto a folded duplicate: expected DuplicateError, got %v", err)
	}
}

func TestCreateCategoryAfterDeactivateAllowsName(t *testing.T) {
	f := newFixture(t, nil)
	c := f.mustCategory(t, "Home")
	if _, err := f.categories.Deactivate(f.ctx, c.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	if _, err := f.categories.Create(f.ctx, CategoryInput{Name: "HOME"}); err != nil {
		t.Fatalf("inactive categories should not block names: %v", err)
	}
}

func TestListActiveSortedByName(t *testing.T) {
	f := newFixture(t, nil)
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		f.mustCategory(t, name)
	}
	hidden := f.mustCategory(t, "Beta")
	if _, err := f.categories.Deactivate(f.ctx, hidden.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	list, err := f.categories.ListActive(f.ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	var names []string
	for _, c := range list {
		names = append(names, c.Name)
	}
	if got := strings.Join(names, ","); got != "Alpha,Mid,Zeta" {
		t.Errorf("ListActive = %s, want Alpha,Mid,Zeta", got)
	}
}

func TestUpdateCategory(t *testing.T) {
	f := newFixture(t, nil)
	work := f.mustCategory(t, "Work")
	f.mustCategory(t, "Home")

	t.Run("rename to taken name", func(t *testing.T) {
		_, err := f.categories.Update(f.ctx, work.ID, CategoryPatch{Name: strPtr("HOME")})
		var de *DuplicateError
		if !errors.As(err, &de) {
			t.Fatalf("expected DuplicateError, got %v", err)
		}
	})

	t.Run("rename to own name in other case", func(t *testing.T) {
		c, err := f.categories.Update(f.ctx, work.ID, CategoryPatch{Name: strPtr("WORK ")})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if c.Name != "WORK" {
			t.Errorf("Name = %q, want WORK", c.Name)
		}
	})

	t.Run("partial fields", func(t *testing.T) {
		c, err := f.categories.Update(f.ctx, work.ID, CategoryPatch{Color: strPtr("#00FF00"), Description: strPtr(" office ")})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if c.Color != "#00FF00" || c.Description != "office" {
			t.Errorf("got color %q description %q", c.Color, c.Description)
		}
		if c.Name != "WORK" {
			t.Errorf("Name changed unexpectedly to %q", c.Name)
		}
	})

	t.Run("invalid color", func(t *testing.T) {
		_, err := f.categories.Update(f.ctx, work.ID, CategoryPatch{Color: strPtr("red")})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := f.categories.Update(f.ctx, work.ID, CategoryPatch{Name: strPtr(" ")})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := f.categories.Update(f.ctx, "missing", CategoryPatch{Name: strPtr("X")})
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}

func TestUpdateCategoryReactivationChecksDuplicates(t *testing.T) {
	f := newFixture(t, nil)
	old := f.mustCategory(t, "Errands")
	if _, err := f.categories.Deactivate(f.ctx, old.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	f.mustCategory(t, "errands")

	_, err := f.categories.Update(f.ctx, old.ID, CategoryPatch{IsActive: boolPtr(true)})
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
}

func TestRenameDoesNotCascadeToTasks(t *testing.T) {
	f := newFixture(t, nil)
	c := f.mustCategory(t, "Work")
	task := f.mustTask(t, "A", "Work")

	if _, err := f.categories.Update(f.ctx, c.ID, CategoryPatch{Name: strPtr("Job")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := f.tasks.Get(f.ctx, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Category != "Work" {
		t.Errorf("task category = %q, want the old name Work", got.Category)
	}
}

func TestDeleteCategory(t *testing.T) {
	f := newFixture(t, nil)
	empty := f.mustCategory(t, "Empty")
	busy := f.mustCategory(t, "Busy")
	f.mustTask(t, "one", "Busy")
	f.mustTask(t, "two", "Busy")

	if _, err := f.categories.Delete(f.ctx, empty.ID); err != nil {
		t.Fatalf("Delete unreferenced: %v", err)
	}

	_, err := f.categories.Delete(f.ctx, busy.ID)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Count != 2 {
		t.Errorf("Count = %d, want 2", ce.Count)
	}

	_, err = f.categories.Delete(f.ctx, empty.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestDeactivateMissingCategory(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.categories.Deactivate(f.ctx, "nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestWorkCategoryScenario(t *testing.T) {
	f := newFixture(t, nil)

	work, err := f.categories.Create(f.ctx, CategoryInput{Name: "Work", Color: "#FF0000"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	f.mustTask(t, "A", "Work")

	counts, err := f.categories.ListActiveWithCounts(f.ctx)
	if err != nil {
		t.Fatalf("ListActiveWithCounts: %v", err)
	}
	if len(counts) != 1 || counts[0].Name != "Work" || counts[0].TaskCount != 1 {
		t.Fatalf("ListActiveWithCounts = %+v, want Work with 1 task", counts)
	}

	_, err = f.categories.Delete(f.ctx, work.ID)
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Count != 1 {
		t.Fatalf("expected ConflictError with count 1, got %v", err)
	}

	deactivated, err := f.categories.Deactivate(f.ctx, work.ID)
	if err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if deactivated.IsActive {
		t.Error("Deactivate should clear IsActive")
	}

	list, err := f.categories.ListActive(f.ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("ListActive = %+v, want empty", list)
	}
}

func TestBulkDeleteCategories(t *testing.T) {
	f := newFixture(t, nil)
	a := f.mustCategory(t, "A")
	b := f.mustCategory(t, "B")
	c := f.mustCategory(t, "C")
	f.mustTask(t, "t1", "B")
	f.mustTask(t, "t2", "C")
	f.mustTask(t, "t3", "C")

	_, err := f.categories.BulkDelete(f.ctx, []string{a.ID, b.ID, c.ID})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Count != 3 {
		t.Errorf("Count = %d, want aggregate 3", ce.Count)
	}
	list, _ := f.categories.ListActive(f.ctx)
	if len(list) != 3 {
		t.Fatalf("a blocked bulk delete must delete nothing, %d categories left", len(list))
	}

	n, err := f.categories.BulkDelete(f.ctx, []string{a.ID, "unknown"})
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}

	_, err = f.categories.BulkDelete(f.ctx, nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty ids, got %v", err)
	}
}

func TestCategoryMetrics(t *testing.T) {
	f := newFixture(t, nil)

	success := operationCount.WithLabelValues("category_create", "success")
	failure := operationCount.WithLabelValues("category_create", "error")
	beforeOK, beforeErr := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	f.mustCategory(t, "Metrics")
	f.categories.Create(f.ctx, CategoryInput{Name: "metrics"})

	if got := testutil.ToFloat64(success) - beforeOK; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(failure) - beforeErr; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}
