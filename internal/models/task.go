package models

import "unicode/utf8"

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "未着手"
	StatusInProgress TaskStatus = "進行中"
	StatusDone       TaskStatus = "完了"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "高"
	PriorityMedium TaskPriority = "中"
	PriorityLow    TaskPriority = "低"
)

// Quadrant bounds. Quadrant 1 is important and urgent, 4 is neither.
const (
	MinQuadrant     = 1
	MaxQuadrant     = 4
	DefaultQuadrant = MaxQuadrant
)

// Field limits enforced by the API.
const (
	MaxTitleLength       = 80
	MaxDescriptionLength = 500
)

// Task represents a task on the board
type Task struct {
	ID          int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description,omitempty"`
	OwnerID     int64        `json:"owner_id" gorm:"column:owner_id;index"`
	CreatedBy   string       `json:"created_by,omitempty" gorm:"column:created_by"`
	DueDate     *string      `json:"due_date" gorm:"column:due_date"`
	Status      TaskStatus   `json:"status" gorm:"not null"`
	Department  string       `json:"department,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Quadrant    int          `json:"quadrant" gorm:"not null;default:4"`
	Owner       *Staff       `json:"owner,omitempty" gorm:"-"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// Done reports whether the task has reached the terminal status.
func (t Task) Done() bool {
	return t.Status == StatusDone
}

// EffectiveQuadrant returns the quadrant the task is displayed in.
// Missing or out-of-range values fall back to quadrant 4.
func (t Task) EffectiveQuadrant() int {
	if t.Quadrant < MinQuadrant || t.Quadrant > MaxQuadrant {
		return DefaultQuadrant
	}
	return t.Quadrant
}

// PriorityRank orders priorities: high=1, medium=2, low=3.
// Unknown values rank as medium.
func PriorityRank(p TaskPriority) int {
	switch p {
	case PriorityHigh, "high":
		return 1
	case PriorityLow, "low":
		return 3
	default:
		return 2
	}
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ValidQuadrant reports whether q is within 1..4.
func ValidQuadrant(q int) bool {
	return q >= MinQuadrant && q <= MaxQuadrant
}

// TitleTooLong reports whether title exceeds MaxTitleLength characters.
func TitleTooLong(title string) bool {
	return utf8.RuneCountInString(title) > MaxTitleLength
}

// DescriptionTooLong reports whether description exceeds MaxDescriptionLength characters.
func DescriptionTooLong(description string) bool {
	return utf8.RuneCountInString(description) > MaxDescriptionLength
}
