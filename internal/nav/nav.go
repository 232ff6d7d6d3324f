// Package nav provides the navigation capability consumed by the HTTP client
// and the auth commands. In a browser this would be a location change; in the
// CLI it becomes a message telling the user where they ended up.
package nav

import (
	"fmt"
	"io"
)

// Well-known destinations.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Navigator redirects the user to a named path.
type Navigator interface {
	RedirectTo(path string)
}

// Writer is a Navigator that renders redirects as messages on a writer.
type Writer struct {
	Out io.Writer
}

// RedirectTo implements Navigator.
func (w *Writer) RedirectTo(path string) {
	if w.Out == nil {
		return
	}
	switch path {
	case LoginPath:
		fmt.Fprintln(w.Out, "session expired: run 'taskdeck login' to sign in again")
	default:
		fmt.Fprintf(w.Out, "-> %s\n", path)
	}
}

// Nop is a Navigator that does nothing.
type Nop struct{}

// RedirectTo implements Navigator.
func (Nop) RedirectTo(string) {}
