package service

import (
	"context"
	"errors"

	"github.com/fathima-sithara/chat-profile-service/internal/events"
	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"github.com/fathima-sithara/chat-profile-service/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo       repository.UserRepository
	lookup     *UserLookup
	events     events.Publisher
	log        *zap.Logger
	bcryptCost int
}

func NewUserService(repo repository.UserRepository, lookup *UserLookup, pub events.Publisher, logger *zap.Logger) *UserService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &UserService{
		repo:       repo,
		lookup:     lookup,
		events:     pub,
		log:        logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.lookup.FindUserByUsername(ctx, username)
}

func (s *UserService) ResetPassword(ctx context.Context, username, newPassword, confirmPassword string) error {
	if newPassword == "" || confirmPassword == "" {
		return invalidInput(ErrInvalidInput, "Please enter and confirm your new password.")
	}
	if newPassword != confirmPassword {
		return invalidInput(ErrInvalidInput, "Passwords do not match.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return invalidInput(ErrInvalidInput, "Password cannot be used.")
	}

	_, err = s.repo.UpdatePassword(ctx, username, string(hash))
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(ErrUserNotFound, "User not found")
	}
	if err != nil {
		return persistence("Error resetting password", err)
	}
	return nil
}

func (s *UserService) UpdateBiography(ctx context.Context, username, biography string) (*models.User, error) {
	u, err := s.repo.UpdateBiography(ctx, username, biography)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(ErrUserNotFound, "User not found")
	}
	if err != nil {
		return nil, persistence("Error updating biography", err)
	}
	s.lookup.Invalidate(ctx, username)

	safe := u.Safe()
	return &safe, nil
}

// DeleteUser removes the account. Chats and messages that mention the user
// are left untouched.
func (s *UserService) DeleteUser(ctx context.Context, username string) (*models.User, error) {
	u, err := s.repo.Delete(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(ErrUserNotFound, "User not found")
	}
	if err != nil {
		return nil, persistence("Error deleting user", err)
	}
	s.lookup.Invalidate(ctx, username)

	ev := events.New(events.UserDeleted)
	ev.Username = username
	publishEvent(ctx, s.events, s.log, ev)

	safe := u.Safe()
	return &safe, nil
}
