package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorker_EnqueueRunsJob(t *testing.T) {
	w := NewWorker(2)
	defer w.Shutdown()

	done := make(chan struct{})
	w.Enqueue(func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job did not run")
	}
}

func TestWorker_StatsCountFailures(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	w.Enqueue(func(ctx context.Context) error {
		return errors.New("boom")
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w.GetStats().FailedJobs == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	stats := w.GetStats()
	assert.Equal(t, int64(1), stats.FailedJobs)
	assert.Equal(t, int64(1), stats.CompletedJobs)
}

func TestWorker_EnqueueAsyncRunsJob(t *testing.T) {
	w := NewWorker(0)
	defer w.Shutdown()

	done := make(chan struct{})
	w.EnqueueAsync(func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async job did not run")
	}
}
