package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bidouilles/multimaster/internal/testutil/mocks"
	"github.com/bidouilles/multimaster/internal/worker"
)

func TestRefreshUserStatsJob(t *testing.T) {
	ctx := context.Background()

	sessions := new(mocks.MockSessionRepository)
	users := new(mocks.MockUserRepository)

	sessions.On("UserAggregates", ctx, "user1").Return(3, 90, 75.0, nil)
	users.On("UpdateAggregates", ctx, "user1", 3, 90, 75.0).Return(nil)

	job := &worker.RefreshUserStatsJob{Sessions: sessions, Users: users, UserID: "user1"}
	assert.Equal(t, "refresh-user-stats:user1", job.Name())

	require.NoError(t, job.Run(ctx))
	sessions.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestRefreshUserStatsJobAggregateFailure(t *testing.T) {
	ctx := context.Background()

	sessions := new(mocks.MockSessionRepository)
	users := new(mocks.MockUserRepository)

	sessions.On("UserAggregates", ctx, "user1").Return(0, 0, 0.0, errors.New("db closed"))

	job := &worker.RefreshUserStatsJob{Sessions: sessions, Users: users, UserID: "user1"}
	require.Error(t, job.Run(ctx))
	users.AssertNotCalled(t, "UpdateAggregates", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

type recordingJob struct {
	mu   sync.Mutex
	runs int
	done chan struct{}
}

func (j *recordingJob) Name() string { return "recording" }

func (j *recordingJob) Run(ctx context.Context) error {
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	close(j.done)
	return nil
}

func TestPoolRunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	job := &recordingJob{done: make(chan struct{})}
	require.NoError(t, pool.Submit(job))

	select {
	case <-job.done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestPoolSubmitFailsWhenQueueFull(t *testing.T) {
	// Never started, so nothing drains the queue.
	pool := worker.NewPool(1, 1)

	blocked := &recordingJob{done: make(chan struct{})}
	require.NoError(t, pool.Submit(blocked))

	err := pool.Submit(&recordingJob{done: make(chan struct{})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue full")
}
