package scheduler

import "errors"

// Error definitions for the scheduler package.
var (
	// ErrCancellationUnsupported rejects jobs when the active backend
	// cannot abort an in-flight render call.
	ErrCancellationUnsupported = errors.New("backend does not support cooperative cancellation")
	// ErrCancelled is what observers of a cancelled job receive. The
	// cancelling party's connection is already gone; to everyone else
	// the job simply failed.
	ErrCancelled = errors.New("synthesis job cancelled")
)
