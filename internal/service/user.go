package service

import (
	"context"
	"errors"

	"github.com/rollbook/rollbook-api/internal/core"
	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users core.UserRepository
	Cache core.SnapshotCache // optional
}

// UserService handles account provisioning and profile edits.
type UserService struct {
	users core.UserRepository
	cache core.SnapshotCache
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	return &UserService{users: opts.Users, cache: opts.Cache}
}

// Create provisions a new account for an identity-provider pair.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, req)
	if err != nil {
		if apperrors.IsConflict(err) {
			return nil, apperrors.Conflict("account already exists for this identity")
		}
		return nil, err
	}
	return user, nil
}

// UpdateDisplayName edits the caller's display name and invalidates the
// cached snapshot so the change is visible immediately.
func (s *UserService) UpdateDisplayName(ctx context.Context, userID string, req *model.UpdateDisplayNameRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.UpdateDisplayName(ctx, userID, req.DisplayName)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "update display name")
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, userID)
	}
	return user, nil
}
