package model

import "time"

// TaskEvaluation is a one-time rating attached to a completed task.
// The unique index on TaskID enforces at most one evaluation per task.
type TaskEvaluation struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	TaskID        uint      `json:"task_id" gorm:"uniqueIndex;not null"`
	Rating        int       `json:"rating" gorm:"not null"`
	Feedback      string    `json:"feedback" gorm:"type:text"`
	EvaluatedByID uint      `json:"evaluated_by_id" gorm:"not null;index"`
	EvaluatedAt   time.Time `json:"evaluated_at" gorm:"autoCreateTime"`

	// Relations
	Task        Task `json:"-" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	EvaluatedBy User `json:"-" gorm:"foreignKey:EvaluatedByID;constraint:OnDelete:CASCADE"`
}
