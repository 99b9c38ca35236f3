package services

import (
	"context"
	"time"

	"github.com/bidouilles/multimaster/internal/errors"
	"github.com/bidouilles/multimaster/internal/jobs"
	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/repository"
)

// AnonymousName is used when the authenticated user has no display name.
const AnonymousName = "Anonyme"

// SessionInput carries the caller-supplied fields of a completed game.
// Identity and the date stamp are filled in by the service.
type SessionInput struct {
	Score               int     `json:"score"`
	Difficulty          string  `json:"difficulty"`
	Tables              []int   `json:"tables"`
	QuestionsAnswered   int     `json:"questions_answered"`
	CorrectAnswers      int     `json:"correct_answers"`
	AverageResponseTime float64 `json:"average_response_time"`
}

// StatsService records completed game sessions and serves derived views.
// Read views degrade to empty/zero results on store failures so the UI
// never breaks on a transient error; only SaveSession surfaces failures.
type StatsService interface {
	SaveSession(ctx context.Context, user *models.User, input SessionInput) error
	GetRecentSessions(ctx context.Context, userID string, limit int) []models.GameSession
	GetSessionsByDifficulty(ctx context.Context, userID, difficulty string) []models.GameSession
	GetAverageScoreForTable(ctx context.Context, userID string, table int) float64
	GetTopPlayers(ctx context.Context, limit int) []models.UserRanking
}

type statsService struct {
	sessionRepo repository.SessionRepository
	queue       jobs.JobQueue
}

// NewStatsService creates a new StatsService. queue may be nil when no
// background refresh is wanted (tests).
func NewStatsService(sessionRepo repository.SessionRepository, queue jobs.JobQueue) StatsService {
	return &statsService{sessionRepo: sessionRepo, queue: queue}
}

func (s *statsService) SaveSession(ctx context.Context, user *models.User, input SessionInput) error {
	log := logger.FromContext(ctx)

	if user == nil || user.ID == "" {
		return errors.NewUnauthorizedError("must be authenticated to save game stats")
	}
	if input.Score < 0 || input.Score > 100 {
		return errors.NewValidationError("score", "must be between 0 and 100")
	}
	if !models.ValidDifficulty(input.Difficulty) {
		return errors.NewValidationError("difficulty", "must be 'easy', 'medium', or 'hard'")
	}

	userName := user.DisplayName
	if userName == "" {
		userName = AnonymousName
	}

	session := models.GameSession{
		UserID:              user.ID,
		UserName:            userName,
		Date:                time.Now(),
		Score:               input.Score,
		Difficulty:          input.Difficulty,
		Tables:              input.Tables,
		QuestionsAnswered:   input.QuestionsAnswered,
		CorrectAnswers:      input.CorrectAnswers,
		AverageResponseTime: input.AverageResponseTime,
	}

	log.Debug("saving session: user_id=%s, score=%d, difficulty=%s", user.ID, input.Score, input.Difficulty)
	if _, err := s.sessionRepo.Insert(ctx, session); err != nil {
		log.Error("failed to save session: %v", err)
		return errors.NewInternalError(err)
	}

	if s.queue != nil {
		if err := s.queue.EnqueueStatsRefresh(user.ID); err != nil {
			// The snapshot catches up on the next save.
			log.Warn("failed to enqueue stats refresh: %v", err)
		}
	}
	return nil
}

func (s *statsService) GetRecentSessions(ctx context.Context, userID string, limit int) []models.GameSession {
	log := logger.FromContext(ctx)
	log.Debug("getting recent sessions: user_id=%s, limit=%d", userID, limit)

	if userID == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	sessions, err := s.sessionRepo.ListByUser(ctx, userID, models.SessionFilter{Limit: limit})
	if err != nil {
		log.Warn("failed to get recent sessions, returning none: %v", err)
		return nil
	}
	return sessions
}

func (s *statsService) GetSessionsByDifficulty(ctx context.Context, userID, difficulty string) []models.GameSession {
	log := logger.FromContext(ctx)
	log.Debug("getting sessions by difficulty: user_id=%s, difficulty=%s", userID, difficulty)

	if userID == "" || !models.ValidDifficulty(difficulty) {
		return nil
	}

	sessions, err := s.sessionRepo.ListByUser(ctx, userID, models.SessionFilter{Difficulty: difficulty})
	if err != nil {
		log.Warn("failed to get sessions by difficulty, returning none: %v", err)
		return nil
	}
	return sessions
}

func (s *statsService) GetAverageScoreForTable(ctx context.Context, userID string, table int) float64 {
	log := logger.FromContext(ctx)
	log.Debug("getting average score: user_id=%s, table=%d", userID, table)

	if userID == "" {
		return 0
	}

	avg, err := s.sessionRepo.AverageScoreForTable(ctx, userID, table)
	if err != nil {
		log.Warn("failed to get average score, returning 0: %v", err)
		return 0
	}
	return avg
}

func (s *statsService) GetTopPlayers(ctx context.Context, limit int) []models.UserRanking {
	log := logger.FromContext(ctx)
	log.Debug("getting top players: limit=%d", limit)

	if limit <= 0 {
		limit = 10
	}

	rankings, err := s.sessionRepo.TopPlayers(ctx, limit)
	if err != nil {
		log.Warn("failed to get top players, returning none: %v", err)
		return nil
	}
	return rankings
}
