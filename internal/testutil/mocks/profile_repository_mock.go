package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/repository"
)

// MockProfileRepository is a mock implementation of repository.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) EnsureProfile(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateFact(ctx context.Context, userID string, table, multiplier int, mutate repository.FactMutator) error {
	args := m.Called(ctx, userID, table, multiplier, mutate)
	return args.Error(0)
}

func (m *MockProfileRepository) Facts(ctx context.Context, userID string) ([]models.FactDifficulty, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FactDifficulty), args.Error(1)
}

func (m *MockProfileRepository) WeakFacts(ctx context.Context, userID string, limit int) ([]models.FactDifficulty, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FactDifficulty), args.Error(1)
}
