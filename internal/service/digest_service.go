package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"task-tracker/internal/model"
)

// Notifier delivers a rendered digest.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// DigestService builds human-readable summaries of the day's open tasks.
type DigestService struct {
	tasks *TaskService
}

func NewDigestService(tasks *TaskService) *DigestService {
	return &DigestService{tasks: tasks}
}

// Build renders an HTML digest of open tasks due on the UTC date of now or
// undated, followed by the overall statistics.
func (s *DigestService) Build(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.tasks.DueOn(ctx, now)
	if err != nil {
		return "", err
	}
	stats, err := s.tasks.Stats(ctx)
	if err != nil {
		return "", err
	}

	var pending []model.Task
	for _, task := range tasks {
		if !task.Completed {
			pending = append(pending, task)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		if rank(pending[i].Priority) != rank(pending[j].Priority) {
			return rank(pending[i].Priority) > rank(pending[j].Priority)
		}
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.UTC().Format("2006-01-02")))

	builder.WriteString("🔥 <b>Today</b>\n")
	if len(pending) == 0 {
		builder.WriteString("— nothing open for today\n")
	} else {
		for _, task := range pending {
			builder.WriteString(formatTask(task))
		}
	}

	builder.WriteString(fmt.Sprintf("\n📊 %d total · %d to-do · %d in progress · %d completed (%d%%)\n",
		stats.Total, stats.Todo, stats.InProgress, stats.Completed, stats.CompletionRate))

	return strings.TrimSpace(builder.String()), nil
}

// Send builds the digest and hands it to n.
func (s *DigestService) Send(ctx context.Context, n Notifier, now time.Time) error {
	text, err := s.Build(ctx, now)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	if err := n.Notify(ctx, text); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

func rank(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 2
	case model.PriorityMedium:
		return 1
	}
	return 0
}

func formatTask(task model.Task) string {
	var sb strings.Builder

	icon := "🟢"
	switch {
	case task.IsOverdue:
		icon = "⚠️"
	case task.Status == model.StatusInProgress:
		icon = "⏳"
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(task.Name)))
	if task.Category != "" && task.Category != model.GeneralCategory {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(task.Category)))
	}
	if task.Priority == model.PriorityHigh {
		sb.WriteString(" ❗")
	}
	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(task.Description)))
	}

	sb.WriteByte('\n')
	return sb.String()
}
