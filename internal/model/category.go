package model

import "time"

const (
	DefaultCategoryColor = "#007bff"
	DefaultCategoryIcon  = "📁"
)

// Category groups tasks under a colored, iconed label.
type Category struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);index;not null" json:"name"`
	NameKey     string    `gorm:"type:varchar(400);index" json:"-"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"type:varchar(7);default:'#007bff'" json:"color"`
	Icon        string    `gorm:"type:varchar(16)" json:"icon"`
	IsActive    bool      `gorm:"index;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryWithCount is a Category snapshot with the number of tasks that
// reference it by name.
type CategoryWithCount struct {
	Category
	TaskCount int64 `json:"taskCount"`
}
