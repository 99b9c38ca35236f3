package services

import (
	"context"

	"github.com/bidouilles/multimaster/internal/errors"
	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/repository"
)

// UserService handles user identity business logic
type UserService interface {
	RegisterUser(ctx context.Context, id, displayName string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) RegisterUser(ctx context.Context, id, displayName string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("registering user: id=%s", id)

	if id == "" {
		return nil, errors.NewValidationError("id", "cannot be empty")
	}

	user, err := s.userRepo.Upsert(ctx, id, displayName)
	if err != nil {
		log.Error("failed to register user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting user: id=%s", id)

	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}
