package jobs

import (
	"github.com/bidouilles/multimaster/internal/repository"
	"github.com/bidouilles/multimaster/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool        *worker.Pool
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, sessionRepo repository.SessionRepository, userRepo repository.UserRepository) JobQueue {
	return &WorkerQueue{
		pool:        pool,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

func (q *WorkerQueue) EnqueueStatsRefresh(userID string) error {
	return q.pool.Submit(&worker.RefreshUserStatsJob{
		Sessions: q.sessionRepo,
		Users:    q.userRepo,
		UserID:   userID,
	})
}
