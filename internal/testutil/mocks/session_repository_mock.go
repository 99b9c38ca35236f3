package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bidouilles/multimaster/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Insert(ctx context.Context, session models.GameSession) (int64, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID string, filter models.SessionFilter) ([]models.GameSession, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameSession), args.Error(1)
}

func (m *MockSessionRepository) AverageScoreForTable(ctx context.Context, userID string, table int) (float64, error) {
	args := m.Called(ctx, userID, table)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockSessionRepository) TopPlayers(ctx context.Context, limit int) ([]models.UserRanking, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserRanking), args.Error(1)
}

func (m *MockSessionRepository) UserAggregates(ctx context.Context, userID string) (int, int, float64, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Get(2).(float64), args.Error(3)
}
