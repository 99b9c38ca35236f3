package services

import (
	"context"
	"time"

	"github.com/bidouilles/multimaster/internal/difficulty"
	"github.com/bidouilles/multimaster/internal/errors"
	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/repository"
)

// DifficultyService tracks per-fact mastery and identifies weak points
type DifficultyService interface {
	EnsureProfile(ctx context.Context, userID string) error
	RecordAttempt(ctx context.Context, userID string, table, multiplier int, isCorrect bool) error
	GetWeakPoints(ctx context.Context, userID string) ([]models.FactDifficulty, error)
}

type difficultyService struct {
	profileRepo repository.ProfileRepository
}

// NewDifficultyService creates a new DifficultyService
func NewDifficultyService(profileRepo repository.ProfileRepository) DifficultyService {
	return &difficultyService{profileRepo: profileRepo}
}

func (s *difficultyService) EnsureProfile(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)
	log.Debug("ensuring difficulty profile: user_id=%s", userID)

	if userID == "" {
		return errors.NewValidationError("userID", "cannot be empty")
	}
	if err := s.profileRepo.EnsureProfile(ctx, userID); err != nil {
		log.Error("failed to ensure profile: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *difficultyService) RecordAttempt(ctx context.Context, userID string, table, multiplier int, isCorrect bool) error {
	log := logger.FromContext(ctx)
	log.Debug("recording attempt: user_id=%s, fact=%dx%d, correct=%t", userID, table, multiplier, isCorrect)

	if userID == "" {
		return errors.NewValidationError("userID", "cannot be empty")
	}
	if table < 1 || table > 10 {
		return errors.NewValidationError("table", "must be between 1 and 10")
	}
	if multiplier < 1 || multiplier > 10 {
		return errors.NewValidationError("multiplier", "must be between 1 and 10")
	}

	if err := s.profileRepo.EnsureProfile(ctx, userID); err != nil {
		log.Error("failed to ensure profile before attempt: %v", err)
		return errors.NewInternalError(err)
	}

	now := time.Now()
	err := s.profileRepo.UpdateFact(ctx, userID, table, multiplier, func(existing *models.FactDifficulty) (*models.FactDifficulty, error) {
		var updated models.FactDifficulty
		if existing == nil {
			updated = difficulty.NewFact(table, multiplier, isCorrect, now)
		} else {
			updated = difficulty.ApplyAttempt(*existing, isCorrect, now)
		}
		if difficulty.IsMastered(updated) {
			// Mastered facts leave the profile so they stop biasing
			// selection and stop inflating attempt counts.
			return nil, nil
		}
		return &updated, nil
	})
	if err != nil {
		log.Error("failed to record attempt: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *difficultyService) GetWeakPoints(ctx context.Context, userID string) ([]models.FactDifficulty, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting weak points: user_id=%s", userID)

	if userID == "" {
		return nil, nil
	}

	facts, err := s.profileRepo.WeakFacts(ctx, userID, difficulty.WeakPointLimit)
	if err != nil {
		// Weak points feed question selection; degrade to uniform
		// selection instead of failing the quiz.
		log.Warn("failed to get weak points, returning none: %v", err)
		return nil, nil
	}
	return facts, nil
}
