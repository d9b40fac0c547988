package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalSchedule(t *testing.T) {
	s := NewIntervalSchedule(30 * time.Minute)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, at.Add(30*time.Minute), s.Next(at))
	assert.Equal(t, "@every 30m0s", s.String())
}

func TestDailySchedule(t *testing.T) {
	s := NewDailySchedule(2, 30, nil)

	// Before the wall-clock time: same day.
	at := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC), s.Next(at))

	// After it: tomorrow.
	at = time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 2, 30, 0, 0, time.UTC), s.Next(at))

	// Exactly at it: tomorrow, never the same instant.
	at = time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 2, 30, 0, 0, time.UTC), s.Next(at))

	assert.Equal(t, "@daily 02:30 UTC", s.String())
}

func TestRegister_Validation(t *testing.T) {
	s := New(nil, nil)
	job := JobFunc{JobName: "sweep", Fn: func(ctx context.Context) error { return nil }}

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Hour)), ErrNilJob)
	assert.ErrorIs(t, s.Register(job, nil), ErrNilSchedule)

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))
	assert.ErrorIs(t, s.Register(job, NewIntervalSchedule(time.Hour)), ErrDuplicate)
}

func TestStartStop_Lifecycle(t *testing.T) {
	s := New(nil, nil)

	assert.ErrorIs(t, s.Stop(), ErrNotRunning)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrRunning)

	require.NoError(t, s.Stop())
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
}

func TestRunNow(t *testing.T) {
	s := New(nil, nil)

	var runs atomic.Int32
	job := JobFunc{JobName: "generate", Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "generate")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "generate", result.JobName)
	assert.Equal(t, int32(1), runs.Load())

	last, ok := s.LastRun("generate")
	require.True(t, ok)
	assert.True(t, last.Success)
}

func TestRunNow_UnknownJob(t *testing.T) {
	s := New(nil, nil)

	_, err := s.RunNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRunNow_JobErrorIsRecorded(t *testing.T) {
	s := New(nil, nil)

	boom := errors.New("boom")
	job := JobFunc{JobName: "flaky", Fn: func(ctx context.Context) error { return boom }}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "flaky")
	assert.ErrorIs(t, err, boom)
	assert.False(t, result.Success)

	last, ok := s.LastRun("flaky")
	require.True(t, ok)
	assert.False(t, last.Success)
	assert.ErrorIs(t, last.Error, boom)
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(nil, nil)

	ran := make(chan struct{})
	var once atomic.Bool
	job := JobFunc{JobName: "tick", Fn: func(ctx context.Context) error {
		if once.CompareAndSwap(false, true) {
			close(ran)
		}
		return nil
	}}
	require.NoError(t, s.Register(job, NewIntervalSchedule(500*time.Millisecond)))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job never ran")
	}
}
