package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"task-tracker/internal/model"
)

const (
	maxTaskNameLen        = 100
	maxTaskDescriptionLen = 500
	maxTaskNotesLen       = 1000
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// validateTask checks the stored fields of a task after input has been
// applied. Due dates are checked separately when they are set.
func validateTask(t *model.Task) error {
	var details []string
	switch n := utf8.RuneCountInString(t.Name); {
	case n == 0:
		details = append(details, "Task name is required")
	case n > maxTaskNameLen:
		details = append(details, fmt.Sprintf("Task name cannot exceed %d characters", maxTaskNameLen))
	}
	switch n := utf8.RuneCountInString(t.Description); {
	case n == 0:
		details = append(details, "Task description is required")
	case n > maxTaskDescriptionLen:
		details = append(details, fmt.Sprintf("Task description cannot exceed %d characters", maxTaskDescriptionLen))
	}
	if !t.Status.Valid() {
		details = append(details, "Status must be either to-do, in-progress, or completed")
	}
	if !t.Priority.Valid() {
		details = append(details, "Priority must be either low, medium, or high")
	}
	if utf8.RuneCountInString(t.Notes) > maxTaskNotesLen {
		details = append(details, fmt.Sprintf("Notes cannot exceed %d characters", maxTaskNotesLen))
	}
	if len(details) > 0 {
		return invalid("Validation Error", details...)
	}
	return nil
}

func validateCategory(c *model.Category) error {
	var details []string
	if c.Name == "" {
		details = append(details, "Category name is required")
	}
	if !colorPattern.MatchString(c.Color) {
		details = append(details, "Color must be a valid hex color code")
	}
	if len(details) > 0 {
		return invalid("Validation Error", details...)
	}
	return nil
}

// parseDueDate parses YYYY-MM-DD or RFC 3339 input into a UTC calendar date
// and rejects days before today. An empty string yields nil.
func parseDueDate(raw string, now time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, invalid("Validation Error", "Due date must be a date in YYYY-MM-DD format")
		}
	}
	day := startOfDay(parsed)
	if day.Before(startOfDay(now)) {
		return nil, invalid("Validation Error", "Due date cannot be in the past")
	}
	return &day, nil
}

// parseDay parses a filter date without the past-date check.
func parseDay(raw string) (*time.Time, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, strings.TrimSpace(raw))
		if err != nil {
			return nil, invalid("Invalid date", "dueDate must be a date in YYYY-MM-DD format")
		}
	}
	day := startOfDay(parsed)
	return &day, nil
}

// startOfDay truncates t to midnight of its UTC calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseStatus(raw string) (model.TaskStatus, error) {
	status := model.TaskStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", invalid("Invalid status")
	}
	return status, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
