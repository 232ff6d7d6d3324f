package dashboard

import (
	"errors"
	"strings"
	"unicode/utf8"

	"taskdeck/internal/service"
)

// FormMode selects between creating a new task and editing an existing one.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

// Validation failures surfaced before any network call.
var (
	ErrTitleRequired      = errors.New("Title is required")
	ErrTitleTooLong       = errors.New("Title must be 200 characters or less")
	ErrDescriptionTooLong = errors.New("Description must be 1000 characters or less")
)

// Form models the task entry form: field state plus pre-submit validation.
// Switching modes or targets resets the fields to the target task's values
// (edit) or clears them (create); the Task record itself is never mutated.
type Form struct {
	mode        FormMode
	target      *service.Task
	Title       string
	Description string
}

// NewForm creates a form in create mode with empty fields.
func NewForm() *Form {
	return &Form{mode: ModeCreate}
}

// Mode returns the current form mode.
func (f *Form) Mode() FormMode {
	return f.mode
}

// Target returns the task being edited, or nil in create mode.
func (f *Form) Target() *service.Task {
	return f.target
}

// BeginEdit switches to edit mode for the given task, resetting the
// fields to that task's current values.
func (f *Form) BeginEdit(t service.Task) {
	f.mode = ModeEdit
	f.target = &t
	f.Title = t.Title
	if t.Description != nil {
		f.Description = *t.Description
	} else {
		f.Description = ""
	}
}

// Reset switches back to create mode with cleared fields.
func (f *Form) Reset() {
	f.mode = ModeCreate
	f.target = nil
	f.Title = ""
	f.Description = ""
}

// Validate checks the fields without sending anything. The trimmed title
// must be non-empty and within the length limit; the description is
// optional but bounded. Limits count characters, not bytes, so
// multibyte input is not penalized.
func (f *Form) Validate() error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > service.MaxTitleLen {
		return ErrTitleTooLong
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.Description)) > service.MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

// CreateInput builds the create request from the validated fields.
// A trimmed-empty description is submitted as absent, not as "".
func (f *Form) CreateInput() service.CreateInput {
	return service.CreateInput{
		Title:       strings.TrimSpace(f.Title),
		Description: f.description(),
	}
}

// UpdateInput builds the update request from the validated fields.
func (f *Form) UpdateInput() service.UpdateInput {
	title := strings.TrimSpace(f.Title)
	return service.UpdateInput{
		Title:       &title,
		Description: f.description(),
	}
}

func (f *Form) description() *string {
	desc := strings.TrimSpace(f.Description)
	if desc == "" {
		return nil
	}
	return &desc
}
