package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"streamhub/proj/internal/lib/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	bgTasks := New(logger.Discard(), 3, 10)
	bgTasks.Run()
	var taskRunned atomic.Bool
	bgTasks.Add(func() {
		taskRunned.Store(true)
	})
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.True(t, taskRunned.Load())
	assert.True(t, bgTasks.IsEmpty())
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	bgTasks := New(logger.Discard(), 1, 10)
	bgTasks.Run()
	var done atomic.Int32
	bgTasks.Add(func() { panic("boom") })
	bgTasks.Add(func() { done.Add(1) })
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.EqualValues(t, 1, done.Load())
}

func TestAddAfterShutdownIsDropped(t *testing.T) {
	bgTasks := New(logger.Discard(), 1, 1)
	bgTasks.Run()
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.NotPanics(t, func() { bgTasks.Add(func() {}) })
	assert.NoError(t, bgTasks.Shutdown(context.Background()))
}

func TestShutdownTimeout(t *testing.T) {
	bgTasks := New(logger.Discard(), 1, 1)
	bgTasks.Run()
	release := make(chan struct{})
	bgTasks.Add(func() { <-release })
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bgTasks.Shutdown(ctx), context.DeadlineExceeded)
	close(release)
}
