package console

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C or Ctrl+D).
	ErrAborted = errors.New("console: aborted")
	// ErrNoService is returned when the console is built without a service.
	ErrNoService = errors.New("console: service is required")
)
