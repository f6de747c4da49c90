package model

import "time"

// GeneralCategory is the default task category. It is never stored as a row.
const GeneralCategory = "General"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "to-do"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a single unit of work.
type Task struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Description string     `gorm:"type:varchar(500);not null" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(16);index;default:'to-do'" json:"status"`
	Completed   bool       `gorm:"index;default:false" json:"completed"`
	DueDate     *time.Time `gorm:"index" json:"dueDate"`
	Category    string     `gorm:"type:varchar(100);index;default:'General'" json:"category"`
	Priority    Priority   `gorm:"type:varchar(8);default:'medium'" json:"priority"`
	Tags        []string   `gorm:"type:text;serializer:json" json:"tags"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	SearchText  string     `gorm:"type:text" json:"-"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// IsOverdue is computed when the task is read; it is never stored.
	IsOverdue bool `gorm:"-" json:"isOverdue"`
}

// SyncCompleted recomputes the derived Completed flag from Status.
func (t *Task) SyncCompleted() {
	t.Completed = t.Status == StatusCompleted
}

// CategoryStat is the number of tasks carrying a category name.
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Stats summarises tasks by status and category.
type Stats struct {
	Total          int64          `json:"total"`
	Completed      int64          `json:"completed"`
	InProgress     int64          `json:"inProgress"`
	Todo           int64          `json:"todo"`
	CompletionRate int64          `json:"completionRate"`
	CategoryStats  []CategoryStat `json:"categoryStats"`
}
