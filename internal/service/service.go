// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All REST calls go through this interface.
// Commands and the dashboard controller never import the HTTP client directly.
type Service interface {
	// List returns the owner's tasks filtered and sorted server-side.
	// Zero values for status and sort default to StatusAll and SortCreated.
	List(ctx context.Context, ownerID string, status StatusFilter, sort SortOption) ([]Task, error)

	// Get returns a single task by ID.
	Get(ctx context.Context, ownerID string, taskID int) (Task, error)

	// Create creates a new task and returns the server-assigned record.
	Create(ctx context.Context, ownerID string, in CreateInput) (Task, error)

	// Update applies a partial update and returns the updated record.
	Update(ctx context.Context, ownerID string, taskID int, in UpdateInput) (Task, error)

	// Delete removes a task. The server answers 204 No Content on success.
	Delete(ctx context.Context, ownerID string, taskID int) error

	// ToggleComplete flips the task's completed flag server-side and
	// returns the updated record.
	ToggleComplete(ctx context.Context, ownerID string, taskID int) (Task, error)
}
