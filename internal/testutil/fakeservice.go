// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taskdeck/internal/service"
)

// ErrNotFound is returned when a task does not exist or belongs to
// a different owner.
var ErrNotFound = errors.New("Task not found")

// ListCall records the parameters of one List invocation.
type ListCall struct {
	OwnerID string
	Status  service.StatusFilter
	Sort    service.SortOption
}

// FakeService is an in-memory implementation of service.Service for testing.
// It applies status filtering and sorting the same way the real backend does,
// so controller tests observe realistic resync behavior.
type FakeService struct {
	mu     sync.RWMutex
	nextID int
	tasks  map[int]service.Task

	// ListCalls records every List invocation in order.
	ListCalls []ListCall

	// Error injection for testing
	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
	ToggleErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		tasks:  make(map[int]service.Task),
	}
}

// AddTask seeds a task and returns its assigned id.
func (f *FakeService) AddTask(ownerID, title string, completed bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	now := time.Now().UTC().Format(time.RFC3339)
	f.tasks[id] = service.Task{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id
}

// Task returns a seeded or created task by id.
func (f *FakeService) Task(id int) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	return t, ok
}

// List implements service.Service.
func (f *FakeService) List(ctx context.Context, ownerID string, status service.StatusFilter, sortOpt service.SortOption) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls = append(f.ListCalls, ListCall{OwnerID: ownerID, Status: status, Sort: sortOpt})
	f.mu.Unlock()

	if f.ListErr != nil {
		return nil, f.ListErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var result []service.Task
	for _, t := range f.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		switch status {
		case service.StatusPending:
			if t.Completed {
				continue
			}
		case service.StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		result = append(result, t)
	}

	if sortOpt == service.SortTitle {
		sort.Slice(result, func(i, j int) bool {
			return strings.ToLower(result[i].Title) < strings.ToLower(result[j].Title)
		})
	} else {
		// created_at desc, newest first; ids break ties
		sort.Slice(result, func(i, j int) bool {
			if result[i].CreatedAt != result[j].CreatedAt {
				return result[i].CreatedAt > result[j].CreatedAt
			}
			return result[i].ID > result[j].ID
		})
	}
	return result, nil
}

// Get implements service.Service.
func (f *FakeService) Get(ctx context.Context, ownerID string, taskID int) (service.Task, error) {
	if f.GetErr != nil {
		return service.Task{}, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	t, ok := f.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return service.Task{}, ErrNotFound
	}
	return t, nil
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, ownerID string, in service.CreateInput) (service.Task, error) {
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	now := time.Now().UTC().Format(time.RFC3339)
	t := service.Task{
		ID:          id,
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks[id] = t
	return t, nil
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, ownerID string, taskID int, in service.UpdateInput) (service.Task, error) {
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return service.Task{}, ErrNotFound
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	t.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	f.tasks[taskID] = t
	return t, nil
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, ownerID string, taskID int) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

// ToggleComplete implements service.Service.
func (f *FakeService) ToggleComplete(ctx context.Context, ownerID string, taskID int) (service.Task, error) {
	if f.ToggleErr != nil {
		return service.Task{}, f.ToggleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return service.Task{}, ErrNotFound
	}
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	f.tasks[taskID] = t
	return t, nil
}

// LastListCall returns the most recent List invocation, failing if none.
func (f *FakeService) LastListCall() (ListCall, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.ListCalls) == 0 {
		return ListCall{}, fmt.Errorf("no List calls recorded")
	}
	return f.ListCalls[len(f.ListCalls)-1], nil
}
