// Package policy holds the permission rules for boards and tasks as pure
// decision functions. Nothing here touches the store; services consult the
// policy before any mutation so a denied request leaves no partial state.
package policy

import "github.com/amanmukri03/trello-backend/internal/models"

// CanCreateBoard allows board creation for Admin and Manager roles.
func CanCreateBoard(role models.Role) bool {
	return role.IsElevated()
}

// CanMutateBoard allows renaming, describing and deleting a board only for
// its creator, regardless of role. Route-level gating separately restricts
// these entry points to Admin/Manager as a first filter.
func CanMutateBoard(board *models.Board, userID uint64) bool {
	return board.CreatedByID == userID
}

// CanCreateTask allows task creation for Admin and Manager roles.
func CanCreateTask(role models.Role) bool {
	return role.IsElevated()
}

// CanDeleteTask allows task deletion for Admin and Manager roles.
func CanDeleteTask(role models.Role) bool {
	return role.IsElevated()
}

// CanUpdateTask allows updates for Admin/Manager and for the assigned user.
func CanUpdateTask(role models.Role, task *models.Task, userID uint64) bool {
	if role.IsElevated() {
		return true
	}
	return task.AssignedToID != nil && *task.AssignedToID == userID
}

// CanControlTimer allows starting and stopping the timer for Admin/Manager
// and for the assigned user.
func CanControlTimer(role models.Role, task *models.Task, userID uint64) bool {
	if role.IsElevated() {
		return true
	}
	return task.AssignedToID != nil && *task.AssignedToID == userID
}

// TaskField names a patchable task attribute.
type TaskField string

const (
	FieldTitle       TaskField = "title"
	FieldDescription TaskField = "description"
	FieldColumnID    TaskField = "columnId"
	FieldAssignedTo  TaskField = "assignedTo"
	FieldPriority    TaskField = "priority"
	FieldDueDate     TaskField = "dueDate"
	FieldIsCompleted TaskField = "isCompleted"
	FieldCompletedAt TaskField = "completedAt"
)

// memberFields are the only attributes an assigned member may touch: moving
// a task between columns and flipping its completion state.
var memberFields = map[TaskField]bool{
	FieldColumnID:    true,
	FieldIsCompleted: true,
	FieldCompletedAt: true,
}

// DisallowedFields returns the requested fields the caller may not touch.
// Elevated roles are unrestricted. Any non-empty result rejects the whole
// update; there is no partial apply.
func DisallowedFields(role models.Role, fields []TaskField) []TaskField {
	if role.IsElevated() {
		return nil
	}

	var denied []TaskField
	for _, f := range fields {
		if !memberFields[f] {
			denied = append(denied, f)
		}
	}
	return denied
}
