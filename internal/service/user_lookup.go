package service

import (
	"context"
	"errors"

	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"github.com/fathima-sithara/chat-profile-service/internal/repository"
	"go.uber.org/zap"
)

// UserCache is satisfied by cache.Client.
type UserCache interface {
	GetUser(ctx context.Context, username string) (*models.User, bool, error)
	SetUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, username string) error
}

// UserLookup serves profile reads cache-aside and existence checks straight
// from the store. Cache errors are logged and never change the result.
type UserLookup struct {
	repo  repository.UserRepository
	cache UserCache
	log   *zap.Logger
}

// NewUserLookup accepts a nil cache.
func NewUserLookup(repo repository.UserRepository, cache UserCache, log *zap.Logger) *UserLookup {
	return &UserLookup{repo: repo, cache: cache, log: log}
}

// FindUserByUsername may answer from the cache, so a user removed elsewhere
// can still be returned until the entry expires. Use RequireUser where the
// user must exist right now.
func (l *UserLookup) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if l.cache != nil {
		u, found, err := l.cache.GetUser(ctx, username)
		if err != nil {
			l.log.Warn("user cache read failed", zap.String("username", username), zap.Error(err))
		} else if found {
			return u, nil
		}
	}

	u, err := l.load(ctx, username)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.SetUser(ctx, u); err != nil {
			l.log.Warn("user cache write failed", zap.String("username", username), zap.Error(err))
		}
	}
	safe := u.Safe()
	return &safe, nil
}

// RequireUser checks the store, never the cache. A miss also drops any
// cached entry for username.
func (l *UserLookup) RequireUser(ctx context.Context, username string) error {
	_, err := l.load(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		l.Invalidate(ctx, username)
	}
	return err
}

func (l *UserLookup) load(ctx context.Context, username string) (*models.User, error) {
	u, err := l.repo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(ErrUserNotFound, "User not found")
	}
	if err != nil {
		return nil, persistence("Error retrieving user", err)
	}
	return u, nil
}

// Invalidate drops the cached entry for username.
func (l *UserLookup) Invalidate(ctx context.Context, username string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.DeleteUser(ctx, username); err != nil {
		l.log.Warn("user cache invalidation failed", zap.String("username", username), zap.Error(err))
	}
}
