// Package exitcode defines the taskdeck process exit codes.
package exitcode

const (
	// Success means the command completed.
	Success = 0

	// UserError covers bad arguments, unknown commands and input that
	// failed validation before reaching the task API.
	UserError = 1

	// AuthError means the user is not signed in or the stored
	// credentials are no longer accepted.
	AuthError = 2

	// BackendError means the task API failed or was unreachable.
	BackendError = 3
)
