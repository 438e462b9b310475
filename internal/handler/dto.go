package handler

import (
	"time"

	"taskflow/internal/model"
)

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	Avatar    string     `json:"avatar"`
}

// TaskResponse is the representation of a task with its creator and assignee
// serialized by value.
type TaskResponse struct {
	ID           uint               `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	CreatedBy    UserResponse       `json:"created_by"`
	AssignedTo   *UserResponse      `json:"assigned_to"`
	Status       model.TaskStatus   `json:"status"`
	Priority     model.TaskPriority `json:"priority"`
	DueDate      time.Time          `json:"due_date"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	CompletedAt  *time.Time         `json:"completed_at"`
	IsOverdue    bool               `json:"is_overdue"`
	DurationDays int                `json:"duration_days"`
}

// EvaluationResponse is the representation of a task evaluation.
type EvaluationResponse struct {
	ID          uint         `json:"id"`
	Task        TaskResponse `json:"task"`
	Rating      int          `json:"rating"`
	Feedback    string       `json:"feedback"`
	EvaluatedBy UserResponse `json:"evaluated_by"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
}

// NotificationResponse is the representation of a notification.
type NotificationResponse struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	IsRead    bool          `json:"is_read"`
	Task      *TaskResponse `json:"task"`
	CreatedAt time.Time     `json:"created_at"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
	}
}

func newTaskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		CreatedBy:    newUserResponse(&t.CreatedBy),
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		CompletedAt:  t.CompletedAt,
		IsOverdue:    t.IsOverdue(time.Now()),
		DurationDays: t.DurationDays(),
	}
	if t.AssignedTo != nil {
		assignee := newUserResponse(t.AssignedTo)
		resp.AssignedTo = &assignee
	}
	return resp
}

func newTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i]))
	}
	return out
}

func newEvaluationResponse(e *model.TaskEvaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:          e.ID,
		Task:        newTaskResponse(&e.Task),
		Rating:      e.Rating,
		Feedback:    e.Feedback,
		EvaluatedBy: newUserResponse(&e.EvaluatedBy),
		EvaluatedAt: e.EvaluatedAt,
	}
}

func newNotificationResponse(n *model.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.Task != nil {
		task := newTaskResponse(n.Task)
		resp.Task = &task
	}
	return resp
}
