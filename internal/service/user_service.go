package service

import (
	"context"

	"github.com/spec-kit/trip-service/internal/auth"
	"github.com/spec-kit/trip-service/internal/domain"
	"github.com/spec-kit/trip-service/internal/repository"
	apperrors "github.com/spec-kit/trip-service/pkg/util"
)

// UserService handles employee account registration.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Register creates a new employee account. The raw password is hashed here
// and never stored.
func (s *UserService) Register(ctx context.Context, name string, cred domain.Credential) (*domain.User, error) {
	if err := cred.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	existing, err := s.users.GetByEmail(ctx, cred.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewBadRequest("email is already in use", nil)
	}

	hash, err := auth.HashPassword(cred.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        cred.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
