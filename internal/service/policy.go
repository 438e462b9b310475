package service

import "taskflow/internal/model"

// Actor identifies the authenticated caller for authorization decisions.
// It is built from token claims so policy checks need no user lookup.
type Actor struct {
	ID   uint
	Role model.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// IsEmployee reports whether the actor holds the employee role.
func (a Actor) IsEmployee() bool {
	return a.Role == model.RoleEmployee
}

// CanCreateTask allows only admins to create tasks.
func CanCreateTask(a Actor) bool {
	return a.IsAdmin()
}

// CanViewTask allows admins to see any task and employees to see only tasks
// assigned to them. Update shares this visibility gate.
func CanViewTask(a Actor, t *model.Task) bool {
	if a.IsAdmin() {
		return true
	}
	return t.AssignedToID != nil && *t.AssignedToID == a.ID
}

// CanUpdateAllTaskFields allows only admins to touch fields other than status.
func CanUpdateAllTaskFields(a Actor) bool {
	return a.IsAdmin()
}

// CanDeleteTask allows deletion only by the admin who created the task.
func CanDeleteTask(a Actor, t *model.Task) bool {
	return a.IsAdmin() && t.CreatedByID == a.ID
}

// CanEvaluateTask allows only admins to evaluate tasks.
func CanEvaluateTask(a Actor) bool {
	return a.IsAdmin()
}

// CanListEmployees allows only admins to list employees.
func CanListEmployees(a Actor) bool {
	return a.IsAdmin()
}
