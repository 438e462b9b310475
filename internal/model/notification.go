package model

import "time"

// Notification is an append-only record informing a user of a task-related
// event. Created synchronously as part of the write that triggers it.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	TaskID    *uint     `json:"task_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Task *Task `json:"-" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
