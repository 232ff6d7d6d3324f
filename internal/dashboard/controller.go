// Package dashboard owns the in-memory task collection and orchestrates the
// mutate-then-resync cycle against the task service.
package dashboard

import (
	"context"
	"sync"

	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// SessionProvider supplies the authenticated principal, if any.
// session.Store satisfies it; tests substitute a stub.
type SessionProvider interface {
	Current() *session.Session
}

// Snapshot is a copy of the controller's displayable state.
type Snapshot struct {
	Tasks        []service.Task
	IsLoading    bool
	Err          string
	StatusFilter service.StatusFilter
	SortOption   service.SortOption
	Editing      *service.Task
}

// Controller holds the authoritative local task list. Every mutation goes
// through the service and is reconciled by a full Refresh; the last Refresh
// response to resolve wins. Callers drive it from a single goroutine; the
// mutex only protects snapshot reads against state writes around the
// suspension points, not across them.
type Controller struct {
	svc      service.Service
	sessions SessionProvider

	mu           sync.Mutex
	tasks        []service.Task
	isLoading    bool
	loadErr      string
	statusFilter service.StatusFilter
	sortOption   service.SortOption
	editing      *service.Task

	listeners []func()
}

// NewController creates a controller with default filter and sort.
func NewController(svc service.Service, sessions SessionProvider) *Controller {
	return &Controller{
		svc:          svc,
		sessions:     sessions,
		statusFilter: service.StatusAll,
		sortOption:   service.SortCreated,
	}
}

// Mount wires Refresh to filter/sort changes and performs the initial load.
func (c *Controller) Mount(ctx context.Context) {
	c.Subscribe(func() { c.Refresh(ctx) })
	c.Refresh(ctx)
}

// Subscribe registers a listener invoked after every filter or sort change.
func (c *Controller) Subscribe(fn func()) {
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) notify() {
	for _, fn := range c.listeners {
		fn()
	}
}

// ownerID returns the authenticated principal's id, or "" when signed out.
func (c *Controller) ownerID() string {
	sess := c.sessions.Current()
	if sess == nil {
		return ""
	}
	return sess.User.ID
}

// Refresh re-fetches the full task list with the current filter and sort and
// replaces the local collection wholesale. It is a no-op without an
// authenticated owner. Errors land in the snapshot's Err field, never in the
// caller; this is the only place the controller catches service errors.
func (c *Controller) Refresh(ctx context.Context) {
	owner := c.ownerID()
	if owner == "" {
		return
	}

	c.mu.Lock()
	c.isLoading = true
	c.loadErr = ""
	status := c.statusFilter
	sort := c.sortOption
	c.mu.Unlock()

	tasks, err := c.svc.List(ctx, owner, status, sort)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.isLoading = false
	if err != nil {
		c.loadErr = err.Error()
		if c.loadErr == "" {
			c.loadErr = "Failed to load tasks"
		}
		return
	}
	c.tasks = tasks
}

// Create submits a new task and resyncs. The error propagates to the caller
// (the submitting form displays it); the list view's error state is untouched.
func (c *Controller) Create(ctx context.Context, in service.CreateInput) error {
	owner := c.ownerID()
	if owner == "" {
		return nil
	}
	if _, err := c.svc.Create(ctx, owner, in); err != nil {
		return err
	}
	c.Refresh(ctx)
	return nil
}

// Update submits a partial update for the task selected with BeginEdit,
// clears edit mode and resyncs. No-op when nothing is being edited.
func (c *Controller) Update(ctx context.Context, in service.UpdateInput) error {
	owner := c.ownerID()

	c.mu.Lock()
	editing := c.editing
	c.mu.Unlock()

	if owner == "" || editing == nil {
		return nil
	}
	if _, err := c.svc.Update(ctx, owner, editing.ID, in); err != nil {
		return err
	}

	c.mu.Lock()
	c.editing = nil
	c.mu.Unlock()

	c.Refresh(ctx)
	return nil
}

// Delete removes a task and resyncs.
func (c *Controller) Delete(ctx context.Context, taskID int) error {
	owner := c.ownerID()
	if owner == "" {
		return nil
	}
	if err := c.svc.Delete(ctx, owner, taskID); err != nil {
		return err
	}
	c.Refresh(ctx)
	return nil
}

// Toggle flips a task's completed flag server-side and resyncs.
func (c *Controller) Toggle(ctx context.Context, taskID int) error {
	owner := c.ownerID()
	if owner == "" {
		return nil
	}
	if _, err := c.svc.ToggleComplete(ctx, owner, taskID); err != nil {
		return err
	}
	c.Refresh(ctx)
	return nil
}

// BeginEdit selects a task for editing. Pure local state, no network effect.
func (c *Controller) BeginEdit(t service.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = &t
}

// CancelEdit clears the editing selection.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
}

// SetStatusFilter changes the status filter and notifies subscribers.
func (c *Controller) SetStatusFilter(f service.StatusFilter) {
	c.mu.Lock()
	same := c.statusFilter == f
	c.statusFilter = f
	c.mu.Unlock()
	if !same {
		c.notify()
	}
}

// SetSortOption changes the sort order and notifies subscribers.
func (c *Controller) SetSortOption(s service.SortOption) {
	c.mu.Lock()
	same := c.sortOption == s
	c.sortOption = s
	c.mu.Unlock()
	if !same {
		c.notify()
	}
}

// Snapshot returns a copy of the current displayable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks := make([]service.Task, len(c.tasks))
	copy(tasks, c.tasks)

	var editing *service.Task
	if c.editing != nil {
		e := *c.editing
		editing = &e
	}

	return Snapshot{
		Tasks:        tasks,
		IsLoading:    c.isLoading,
		Err:          c.loadErr,
		StatusFilter: c.statusFilter,
		SortOption:   c.sortOption,
		Editing:      editing,
	}
}
