// Package service defines the backend-agnostic interface for task operations.
package service

// StatusFilter selects which tasks a listing returns.
type StatusFilter string

// SortOption selects the server-side ordering of a listing.
type SortOption string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"

	SortCreated SortOption = "created"
	SortTitle   SortOption = "title"
)

// Limits enforced client-side before any create/update request is sent.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// Task represents a single task record as the server owns it.
// CreatedAt and UpdatedAt are opaque ISO-8601 strings; the client
// only reformats them for display.
type Task struct {
	ID          int     `json:"id"`
	OwnerID     string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CreateInput is the request shape for creating a task.
// A nil Description means absent, which is distinct from empty.
type CreateInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateInput is the request shape for a partial update.
// Nil fields are omitted from the request entirely.
type UpdateInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}
