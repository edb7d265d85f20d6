// Package scheduler runs synthesis jobs that can be aborted when the
// requesting client disconnects mid-flight. Cancellation is
// cooperative: the backend call receives a context and must honor it;
// a backend that cannot is rejected up front instead of being killed
// from outside.
package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/nmori/voicevox-engine/internal/engine"
	"github.com/nmori/voicevox-engine/internal/wave"
)

// RenderFunc is the cancellable unit of work: typically a pipeline
// synthesis call bound to a query and style.
type RenderFunc func(ctx context.Context) (wave.Waveform, error)

// Scheduler tracks in-flight jobs per session and delivers
// disconnect-driven cancellation. Jobs on the same backend are
// independent; cancelling one never touches another. Synthesis
// invoked outside the scheduler coexists untouched.
type Scheduler struct {
	backend engine.Synthesizer
	log     *slog.Logger

	mu   sync.Mutex
	jobs map[uuid.UUID]*Job
}

// New creates a scheduler for one resolved backend.
func New(backend engine.Synthesizer, log *slog.Logger) *Scheduler {
	return &Scheduler{
		backend: backend,
		log:     log.With(slog.String("component", "scheduler")),
		jobs:    make(map[uuid.UUID]*Job),
	}
}

// Submit registers a job bound to the caller's connection context and
// starts it. When connCtx ends before the job settles — the client
// disconnected — the backend call is aborted and the job reports
// Cancelled. Fails immediately with ErrCancellationUnsupported if the
// backend cannot abort in-flight calls.
func (s *Scheduler) Submit(connCtx context.Context, session string, render RenderFunc) (*Job, error) {
	if !s.backend.SupportsCancellation() {
		return nil, ErrCancellationUnsupported
	}

	renderCtx, cancel := context.WithCancel(context.WithoutCancel(connCtx))
	job := &Job{
		ID:             uuid.New(),
		Session:        session,
		BackendVersion: s.backend.Version(),
		cancel:         cancel,
		done:           make(chan struct{}),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	// Disconnect watcher. Stops once the job settles.
	go func() {
		select {
		case <-connCtx.Done():
			s.log.Info("client disconnected, cancelling job",
				slog.String("job_id", job.ID.String()),
				slog.String("session", session))
			job.Cancel()
		case <-job.done:
		}
	}()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.jobs, job.ID)
			s.mu.Unlock()
		}()

		if !job.markRunning() {
			// Cancelled while still queued.
			job.settle(wave.Waveform{}, nil)
			return
		}
		job.settle(render(renderCtx))
	}()

	return job, nil
}

// CancelSession aborts every live job of a (session, backend version)
// pair.
func (s *Scheduler) CancelSession(session, backendVersion string) {
	s.mu.Lock()
	var victims []*Job
	for _, job := range s.jobs {
		if job.Session == session && job.BackendVersion == backendVersion {
			victims = append(victims, job)
		}
	}
	s.mu.Unlock()

	for _, job := range victims {
		job.Cancel()
	}
}

// Live returns the number of tracked (unsettled) jobs.
func (s *Scheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
