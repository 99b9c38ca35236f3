package worker

import (
	"context"
	"fmt"

	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/repository"
)

// RefreshUserStatsJob recomputes a user's aggregate snapshot (games played,
// best score, average score) from the session log into the users row.
type RefreshUserStatsJob struct {
	Sessions repository.SessionRepository
	Users    repository.UserRepository
	UserID   string
}

func (j *RefreshUserStatsJob) Name() string {
	return fmt.Sprintf("refresh-user-stats:%s", j.UserID)
}

func (j *RefreshUserStatsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	games, best, avg, err := j.Sessions.UserAggregates(ctx, j.UserID)
	if err != nil {
		return fmt.Errorf("compute aggregates for user %s: %w", j.UserID, err)
	}
	if err := j.Users.UpdateAggregates(ctx, j.UserID, games, best, avg); err != nil {
		return fmt.Errorf("store aggregates for user %s: %w", j.UserID, err)
	}

	log.Debug("refreshed stats snapshot: user_id=%s, games=%d, best=%d, avg=%.1f", j.UserID, games, best, avg)
	return nil
}
