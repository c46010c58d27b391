package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_EnqueueRunsJobs(t *testing.T) {
	w := NewWorker(2)

	var ran atomic.Int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		w.Enqueue(func(context.Context) error {
			ran.Add(1)
			done <- struct{}{}
			return nil
		})
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
	w.Shutdown()

	assert.Equal(t, int32(3), ran.Load())
	stats := w.GetStats()
	assert.Equal(t, int64(3), stats.CompletedJobs)
	assert.Zero(t, stats.FailedJobs)
	assert.Equal(t, 2, stats.Workers)
}

func TestWorker_FailuresAndPanicsAreCounted(t *testing.T) {
	w := NewWorker(1)

	done := make(chan struct{}, 2)
	w.Enqueue(func(context.Context) error {
		defer func() { done <- struct{}{} }()
		return errors.New("boom")
	})
	w.Enqueue(func(context.Context) error {
		defer func() { done <- struct{}{} }()
		panic("kaboom")
	})
	<-done
	<-done
	w.Shutdown()

	assert.Equal(t, int64(2), w.GetStats().FailedJobs)
}

func TestWorker_ScheduleCronAndTrigger(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	require.Error(t, w.ScheduleCron("bad", "every now and then", func(context.Context) error { return nil }))

	ran := make(chan struct{}, 1)
	job := func(context.Context) error {
		ran <- struct{}{}
		return errors.New("partial failure")
	}
	require.NoError(t, w.ScheduleCron("overdue_sweep", "0 * * * *", job))

	assert.False(t, w.Trigger("unknown", job))
	assert.True(t, w.Trigger("overdue_sweep", job))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered job did not run")
	}

	require.Eventually(t, func() bool {
		s := w.Schedules()
		return len(s) == 1 && s[0].Runs == 1
	}, 2*time.Second, 10*time.Millisecond)

	s := w.Schedules()[0]
	assert.Equal(t, "overdue_sweep", s.Name)
	assert.Equal(t, "partial failure", s.LastError)
	require.NotNil(t, s.NextRun)
	assert.Zero(t, s.NextRun.Minute())
}
