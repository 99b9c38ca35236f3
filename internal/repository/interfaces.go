package repository

import (
	"context"

	"github.com/bidouilles/multimaster/internal/models"
)

// UserRepository handles user identity and aggregate snapshot data access
type UserRepository interface {
	Upsert(ctx context.Context, id, displayName string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateAggregates(ctx context.Context, id string, gamesPlayed, bestScore int, averageScore float64) error
}

// FactMutator transforms a stored fact inside a transactional update.
// existing is nil when the fact has never been attempted. A nil first
// return value deletes the record (the mastery policy uses this).
type FactMutator func(existing *models.FactDifficulty) (*models.FactDifficulty, error)

// ProfileRepository handles per-user difficulty profile data access.
// UpdateFact is the transactional read-modify-write primitive: the mutator
// runs against the current stored value and the result is written back in
// the same transaction, so concurrent attempts cannot lose updates.
type ProfileRepository interface {
	EnsureProfile(ctx context.Context, userID string) error
	UpdateFact(ctx context.Context, userID string, table, multiplier int, mutate FactMutator) error
	Facts(ctx context.Context, userID string) ([]models.FactDifficulty, error)
	WeakFacts(ctx context.Context, userID string, limit int) ([]models.FactDifficulty, error)
}

// SessionRepository handles the append-only game session log
type SessionRepository interface {
	Insert(ctx context.Context, session models.GameSession) (int64, error)
	ListByUser(ctx context.Context, userID string, filter models.SessionFilter) ([]models.GameSession, error)
	AverageScoreForTable(ctx context.Context, userID string, table int) (float64, error)
	TopPlayers(ctx context.Context, limit int) ([]models.UserRanking, error)
	UserAggregates(ctx context.Context, userID string) (gamesPlayed, bestScore int, averageScore float64, err error)
}
