package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, id, displayName string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting user: id=%s", id)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
INSERT INTO users (id, display_name)
VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET display_name = excluded.display_name
RETURNING id, display_name, games_played, best_score, average_score, created_at
`, id, displayName).Scan(&u.ID, &u.DisplayName, &u.GamesPlayed, &u.BestScore, &u.AverageScore, &u.CreatedAt)
	if err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, err
	}
	log.Debug("user upserted: id=%s", u.ID)
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%s", id)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, display_name, games_played, best_score, average_score, created_at
FROM users
WHERE id = ?
`, id).Scan(&u.ID, &u.DisplayName, &u.GamesPlayed, &u.BestScore, &u.AverageScore, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpdateAggregates(ctx context.Context, id string, gamesPlayed, bestScore int, averageScore float64) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating user aggregates: id=%s, games=%d, best=%d, avg=%.1f", id, gamesPlayed, bestScore, averageScore)

	_, err := r.db.ExecContext(ctx, `
UPDATE users
SET games_played = ?, best_score = ?, average_score = ?
WHERE id = ?
`, gamesPlayed, bestScore, averageScore, id)
	if err != nil {
		log.Error("failed to update user aggregates: %v", err)
	}
	return err
}
