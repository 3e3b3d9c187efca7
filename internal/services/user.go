package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/types"
	"github.com/coursewagon/coursewagon-backend/internal/utils"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, notFoundOr(err, "user_not_found", "user not found")
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, notFoundOr(err, "user_not_found", "user not found")
	}
	if firstName = strings.TrimSpace(firstName); firstName != "" {
		user.FirstName = firstName
	}
	if lastName = strings.TrimSpace(lastName); lastName != "" {
		user.LastName = lastName
	}
	if err := s.userRepo.Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return notFoundOr(err, "user_not_found", "user not found")
	}
	if !utils.CheckPassword(user.Password, currentPassword) {
		return apierr.Unauthorized("bad_credentials", "current password is wrong")
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apierr.Validation("weak_password", "%s", err.Error())
	}
	user.Password = hash
	if err := s.userRepo.Update(ctx, nil, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
