package service

import (
	"context"

	"github.com/go-demo/meet/internal/model"
	apperrors "github.com/go-demo/meet/internal/pkg/errors"
	"github.com/go-demo/meet/internal/repository"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo *repository.UserRepository
	roomRepo *repository.RoomRepository
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, roomRepo *repository.RoomRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		roomRepo: roomRepo,
		logger:   logger,
	}
}

// GetProfile retrieves a user's public profile
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		s.logger.Error("Failed to get user", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return user.ToProfile(), nil
}

// GetByUsername retrieves a user by username
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		s.logger.Error("Failed to get user", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return user, nil
}

// Search searches users by username prefix
func (s *UserService) Search(ctx context.Context, query string, limit, offset int) ([]*model.User, error) {
	users, err := s.userRepo.Search(ctx, query, limit, offset)
	if err != nil {
		s.logger.Error("Failed to search users", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return users, nil
}

// JoinedRoomIDs lists the IDs of rooms the user is a member of
func (s *UserService) JoinedRoomIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.roomRepo.ListRoomIDsByMember(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list joined rooms", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return ids, nil
}
