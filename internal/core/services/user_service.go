package services

import (
	"context"
	"errors"
	"fmt"

	"delivery-tracker/internal/adapters/persistence/models"
	"delivery-tracker/internal/adapters/persistence/repositories"
	"delivery-tracker/internal/core/domain"

	"gorm.io/gorm"
)

// UserService resolves authenticated identities to stored users
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// LoadPrincipal resolves a username taken from a valid token
func (s *UserService) LoadPrincipal(ctx context.Context, username string) (*domain.Principal, error) {
	user, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &domain.Principal{UserID: user.ID, Username: user.Username}, nil
}

// GetProfile returns the public projection of a user
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.UserResponse, error) {
	user, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *UserService) getByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
