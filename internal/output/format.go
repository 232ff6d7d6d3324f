// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskdeck/internal/service"
)

// Separator is the separator line for detail sections.
const Separator = "------------"

// FormatTask formats a task line for the list view.
// Format: "{ID:>4}  [x|' '] {TITLE}  ({DATE})"
func FormatTask(w io.Writer, task service.Task) {
	check := " "
	if task.Completed {
		check = "x"
	}
	title := normalizeTitle(task.Title)
	if date := formatDate(task.CreatedAt); date != "" {
		fmt.Fprintf(w, "%4d  [%s] %s  (%s)\n", task.ID, check, title, date)
		return
	}
	fmt.Fprintf(w, "%4d  [%s] %s\n", task.ID, check, title)
}

// FormatTaskDetail formats the full record for the show command.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "id:        %d\n", task.ID)
	fmt.Fprintf(w, "title:     %s\n", normalizeTitle(task.Title))
	if task.Description != nil {
		fmt.Fprintf(w, "desc:      %s\n", normalizeTitle(*task.Description))
	}
	fmt.Fprintf(w, "completed: %t\n", task.Completed)
	if date := formatDate(task.CreatedAt); date != "" {
		fmt.Fprintf(w, "created:   %s\n", date)
	}
	if date := formatDate(task.UpdatedAt); date != "" {
		fmt.Fprintf(w, "updated:   %s\n", date)
	}
	fmt.Fprintln(w, Separator)
}

// formatDate renders a server timestamp as a short date.
// Timestamps are opaque strings; anything unparseable is dropped.
func formatDate(ts string) string {
	if ts == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// normalizeTitle normalizes a title for single-line display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
