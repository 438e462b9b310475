package model

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// ValidTaskStatus reports whether s is one of the known statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// ValidTaskPriority reports whether p is one of the known priorities.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task is the unit of assignable work. Created by an admin; the assigned
// employee may only move it through the status lifecycle.
type Task struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Title        string       `json:"title" gorm:"size:200;not null"`
	Description  string       `json:"description" gorm:"type:text"`
	CreatedByID  uint         `json:"created_by_id" gorm:"not null;index"`
	AssignedToID *uint        `json:"assigned_to_id" gorm:"index"`
	Status       TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority     TaskPriority `json:"priority" gorm:"type:varchar(20);not null;default:'medium';index"`
	DueDate      time.Time    `json:"due_date" gorm:"not null"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	CompletedAt  *time.Time   `json:"completed_at"`

	// Relations
	CreatedBy  User  `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	AssignedTo *User `json:"-" gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
}

// IsOverdue reports whether the task is past its due date and still open.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled {
		return false
	}
	return now.After(t.DueDate)
}

// DurationDays returns the number of whole days between creation and due date.
func (t *Task) DurationDays() int {
	return int(t.DueDate.Sub(t.CreatedAt).Hours() / 24)
}
