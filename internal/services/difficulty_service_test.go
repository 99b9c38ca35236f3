package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bidouilles/multimaster/internal/difficulty"
	apperrors "github.com/bidouilles/multimaster/internal/errors"
	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/repository"
	"github.com/bidouilles/multimaster/internal/services"
	"github.com/bidouilles/multimaster/internal/testutil/mocks"
)

func TestEnsureProfile(t *testing.T) {
	ctx := context.Background()
	profileRepo := new(mocks.MockProfileRepository)
	svc := services.NewDifficultyService(profileRepo)

	profileRepo.On("EnsureProfile", ctx, "user1").Return(nil)

	require.NoError(t, svc.EnsureProfile(ctx, "user1"))
	profileRepo.AssertExpectations(t)
}

func TestEnsureProfileEmptyUser(t *testing.T) {
	profileRepo := new(mocks.MockProfileRepository)
	svc := services.NewDifficultyService(profileRepo)

	err := svc.EnsureProfile(context.Background(), "")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestRecordAttemptValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		userID     string
		table      int
		multiplier int
	}{
		{"empty user", "", 3, 4},
		{"table too low", "user1", 0, 4},
		{"table too high", "user1", 11, 4},
		{"multiplier too low", "user1", 3, 0},
		{"multiplier too high", "user1", 3, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profileRepo := new(mocks.MockProfileRepository)
			svc := services.NewDifficultyService(profileRepo)

			err := svc.RecordAttempt(ctx, tt.userID, tt.table, tt.multiplier, true)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
			profileRepo.AssertNotCalled(t, "UpdateFact", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// recordAttemptMutator runs RecordAttempt against a mock repository and
// returns the mutator the service handed to UpdateFact.
func recordAttemptMutator(t *testing.T, isCorrect bool) repository.FactMutator {
	t.Helper()
	ctx := context.Background()

	profileRepo := new(mocks.MockProfileRepository)
	svc := services.NewDifficultyService(profileRepo)

	var mutator repository.FactMutator
	profileRepo.On("EnsureProfile", ctx, "user1").Return(nil)
	profileRepo.On("UpdateFact", ctx, "user1", 7, 8, mock.Anything).
		Run(func(args mock.Arguments) {
			mutator = args.Get(4).(repository.FactMutator)
		}).
		Return(nil)

	require.NoError(t, svc.RecordAttempt(ctx, "user1", 7, 8, isCorrect))
	require.NotNil(t, mutator)
	return mutator
}

func TestRecordAttemptFirstAttempt(t *testing.T) {
	mutator := recordAttemptMutator(t, true)

	updated, err := mutator(nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 7, updated.Table)
	assert.Equal(t, 8, updated.Multiplier)
	assert.Equal(t, 1, updated.Attempts)
	assert.Equal(t, 100.0, updated.SuccessRate)
	assert.Equal(t, 1, updated.ConsecutiveSuccesses)
}

func TestRecordAttemptUpdatesExisting(t *testing.T) {
	mutator := recordAttemptMutator(t, false)

	existing := &models.FactDifficulty{
		Table: 7, Multiplier: 8, SuccessRate: 100, Attempts: 2,
		LastAttempt: time.Now(), ConsecutiveSuccesses: 2,
	}
	updated, err := mutator(existing)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 3, updated.Attempts)
	assert.InDelta(t, 200.0/3.0, updated.SuccessRate, 1e-9)
	assert.Equal(t, 0, updated.ConsecutiveSuccesses)
}

func TestRecordAttemptRemovesMasteredFact(t *testing.T) {
	mutator := recordAttemptMutator(t, true)

	// Third consecutive correct answer at 100% crosses every threshold.
	existing := &models.FactDifficulty{
		Table: 7, Multiplier: 8, SuccessRate: 100, Attempts: 2,
		LastAttempt: time.Now(), ConsecutiveSuccesses: 2,
	}
	updated, err := mutator(existing)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestRecordAttemptRepositoryFailure(t *testing.T) {
	ctx := context.Background()
	profileRepo := new(mocks.MockProfileRepository)
	svc := services.NewDifficultyService(profileRepo)

	profileRepo.On("EnsureProfile", ctx, "user1").Return(nil)
	profileRepo.On("UpdateFact", ctx, "user1", 7, 8, mock.Anything).Return(errors.New("db closed"))

	err := svc.RecordAttempt(ctx, "user1", 7, 8, true)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInternal, appErr.Code)
}

func TestGetWeakPoints(t *testing.T) {
	ctx := context.Background()
	profileRepo := new(mocks.MockProfileRepository)
	svc := services.NewDifficultyService(profileRepo)

	expected := []models.FactDifficulty{
		{Table: 7, Multiplier: 8, SuccessRate: 20, Attempts: 5},
	}
	profileRepo.On("WeakFacts", ctx, "user1", difficulty.WeakPointLimit).Return(expected, nil)

	facts, err := svc.GetWeakPoints(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, expected, facts)
}

func TestGetWeakPointsSoftFailsToEmpty(t *testing.T) {
	ctx := context.Background()
	profileRepo := new(mocks.MockProfileRepository)
	svc := services.NewDifficultyService(profileRepo)

	profileRepo.On("WeakFacts", ctx, "user1", difficulty.WeakPointLimit).Return(nil, errors.New("db closed"))

	facts, err := svc.GetWeakPoints(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestGetWeakPointsEmptyUser(t *testing.T) {
	profileRepo := new(mocks.MockProfileRepository)
	svc := services.NewDifficultyService(profileRepo)

	facts, err := svc.GetWeakPoints(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, facts)
	profileRepo.AssertNotCalled(t, "WeakFacts", mock.Anything, mock.Anything, mock.Anything)
}
