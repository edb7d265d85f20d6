package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmori/voicevox-engine/internal/engine"
	"github.com/nmori/voicevox-engine/internal/wave"
)

func newTestScheduler(opts ...engine.MockOption) *Scheduler {
	return New(engine.NewMock(opts...), slog.New(slog.DiscardHandler))
}

func fixedWave(n int) wave.Waveform {
	return wave.Waveform{SampleRate: 24000, Channels: 1, Samples: make([]float32, n)}
}

func TestSubmit_Completes(t *testing.T) {
	s := newTestScheduler()

	job, err := s.Submit(context.Background(), "session-a", func(ctx context.Context) (wave.Waveform, error) {
		return fixedWave(300), nil
	})
	require.NoError(t, err)

	w, err := job.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300, w.Duration())
	assert.Equal(t, StateCompleted, job.State())
}

func TestSubmit_CancellationUnsupported(t *testing.T) {
	s := newTestScheduler(engine.WithoutCancellation())

	_, err := s.Submit(context.Background(), "session-a", func(ctx context.Context) (wave.Waveform, error) {
		return fixedWave(1), nil
	})
	assert.ErrorIs(t, err, ErrCancellationUnsupported)
}

func TestSubmit_DisconnectCancelsRunningJob(t *testing.T) {
	s := newTestScheduler()

	connCtx, disconnect := context.WithCancel(context.Background())
	started := make(chan struct{})

	job, err := s.Submit(connCtx, "session-a", func(ctx context.Context) (wave.Waveform, error) {
		close(started)
		<-ctx.Done()
		return wave.Waveform{}, ctx.Err()
	})
	require.NoError(t, err)

	<-started
	assert.Equal(t, StateRunning, job.State())
	disconnect()

	_, err = job.Wait(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, StateCancelled, job.State())
}

func TestCancelledJobDiscardsLateResult(t *testing.T) {
	s := newTestScheduler()

	started := make(chan struct{})
	release := make(chan struct{})

	// The render ignores its context and still produces a waveform.
	job, err := s.Submit(context.Background(), "session-a", func(ctx context.Context) (wave.Waveform, error) {
		close(started)
		<-release
		return fixedWave(4800), nil
	})
	require.NoError(t, err)

	<-started
	job.Cancel()
	close(release)

	w, err := job.Wait(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Zero(t, w.Duration(), "a cancelled job must never deliver its result")
	assert.Equal(t, StateCancelled, job.State())
}

func TestCancelOneJobLeavesOthersAlone(t *testing.T) {
	s := newTestScheduler()

	block := make(chan struct{})
	victim, err := s.Submit(context.Background(), "session-a", func(ctx context.Context) (wave.Waveform, error) {
		select {
		case <-ctx.Done():
			return wave.Waveform{}, ctx.Err()
		case <-block:
			return fixedWave(1), nil
		}
	})
	require.NoError(t, err)

	survivor, err := s.Submit(context.Background(), "session-b", func(ctx context.Context) (wave.Waveform, error) {
		select {
		case <-ctx.Done():
			return wave.Waveform{}, ctx.Err()
		case <-block:
			return fixedWave(100), nil
		}
	})
	require.NoError(t, err)

	victim.Cancel()
	close(block)

	_, err = victim.Wait(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)

	w, err := survivor.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, w.Duration())
}

func TestCancelSession(t *testing.T) {
	s := newTestScheduler()

	hang := func(ctx context.Context) (wave.Waveform, error) {
		<-ctx.Done()
		return wave.Waveform{}, ctx.Err()
	}

	a1, err := s.Submit(context.Background(), "session-a", hang)
	require.NoError(t, err)
	a2, err := s.Submit(context.Background(), "session-a", hang)
	require.NoError(t, err)
	b, err := s.Submit(context.Background(), "session-b", func(ctx context.Context) (wave.Waveform, error) {
		return fixedWave(10), nil
	})
	require.NoError(t, err)

	s.CancelSession("session-a", a1.BackendVersion)

	_, err = a1.Wait(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	_, err = a2.Wait(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = b.Wait(context.Background())
	assert.NoError(t, err)
}

func TestJobFailureIsNotCancellation(t *testing.T) {
	s := newTestScheduler()

	boom := errors.New("backend exploded")
	job, err := s.Submit(context.Background(), "session-a", func(ctx context.Context) (wave.Waveform, error) {
		return wave.Waveform{}, boom
	})
	require.NoError(t, err)

	_, err = job.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCancelled)
	assert.Equal(t, StateFailed, job.State())
}

func TestWait_CallerContext(t *testing.T) {
	s := newTestScheduler()

	release := make(chan struct{})
	job, err := s.Submit(context.Background(), "session-a", func(ctx context.Context) (wave.Waveform, error) {
		<-release
		return fixedWave(1), nil
	})
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = job.Wait(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	_, err = job.Wait(context.Background())
	assert.NoError(t, err)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateQueued, "queued"},
		{StateRunning, "running"},
		{StateCompleted, "completed"},
		{StateCancelled, "cancelled"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
