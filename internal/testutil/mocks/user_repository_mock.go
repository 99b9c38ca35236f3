package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bidouilles/multimaster/internal/models"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, id, displayName string) (*models.User, error) {
	args := m.Called(ctx, id, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateAggregates(ctx context.Context, id string, gamesPlayed, bestScore int, averageScore float64) error {
	args := m.Called(ctx, id, gamesPlayed, bestScore, averageScore)
	return args.Error(0)
}
