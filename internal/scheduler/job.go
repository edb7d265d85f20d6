package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nmori/voicevox-engine/internal/wave"
)

// State is a job's position in its lifecycle:
// Queued -> Running -> {Completed | Cancelled | Failed}.
type State int

const (
	StateQueued State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Job is one tracked synthesis invocation. A job is keyed by its id
// and by the (session, backend version) pair it was submitted under.
type Job struct {
	ID             uuid.UUID
	Session        string
	BackendVersion string

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	state  State
	result wave.Waveform
	err    error
}

// State returns the job's current state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Cancel aborts the job. Delivered while the backend call is in
// flight, not only between steps; once delivered, the job's eventual
// result is discarded. Cancelling a finished job is a no-op.
func (j *Job) Cancel() {
	j.mu.Lock()
	if j.state == StateQueued || j.state == StateRunning {
		j.state = StateCancelled
	}
	j.mu.Unlock()
	j.cancel()
}

// Wait blocks until the job settles and returns its waveform.
// Cancelled jobs yield ErrCancelled and never a waveform, even if the
// backend call happened to finish.
func (j *Job) Wait(ctx context.Context) (wave.Waveform, error) {
	select {
	case <-ctx.Done():
		return wave.Waveform{}, ctx.Err()
	case <-j.done:
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.state {
	case StateCompleted:
		return j.result, nil
	case StateCancelled:
		return wave.Waveform{}, ErrCancelled
	default:
		return wave.Waveform{}, fmt.Errorf("synthesis job failed: %w", j.err)
	}
}

// markRunning transitions Queued -> Running unless the job was
// already cancelled.
func (j *Job) markRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateQueued {
		return false
	}
	j.state = StateRunning
	return true
}

// settle records the render outcome. A cancelled job discards it.
func (j *Job) settle(w wave.Waveform, err error) {
	j.mu.Lock()
	switch {
	case j.state == StateCancelled:
		// Result, if any, is dropped on the floor.
	case err != nil:
		j.state = StateFailed
		j.err = err
	default:
		j.state = StateCompleted
		j.result = w
	}
	j.mu.Unlock()
	close(j.done)
}
