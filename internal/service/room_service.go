package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-demo/meet/internal/model"
	"github.com/go-demo/meet/internal/pkg/cache"
	apperrors "github.com/go-demo/meet/internal/pkg/errors"
	"github.com/go-demo/meet/internal/pkg/utils"
	"github.com/go-demo/meet/internal/repository"
	"go.uber.org/zap"
)

// updateAttempts bounds the optimistic retry on revision conflicts
const updateAttempts = 2

// roomDetailTTL bounds staleness for cached room detail views; every
// mutation also invalidates the entry directly.
const roomDetailTTL = 5 * time.Minute

type RoomService struct {
	roomRepo          *repository.RoomRepository
	userRepo          *repository.UserRepository
	cache             *cache.Cache
	defaultExpiration time.Duration
	logger            *zap.Logger
}

// NewRoomService creates a room service. roomCache may be nil, in which
// case detail reads always hit the database.
func NewRoomService(
	roomRepo *repository.RoomRepository,
	userRepo *repository.UserRepository,
	roomCache *cache.Cache,
	defaultExpiration time.Duration,
	logger *zap.Logger,
) *RoomService {
	if defaultExpiration <= 0 {
		defaultExpiration = 24 * time.Hour
	}
	return &RoomService{
		roomRepo:          roomRepo,
		userRepo:          userRepo,
		cache:             roomCache,
		defaultExpiration: defaultExpiration,
		logger:            logger,
	}
}

// resolveRoomSchedule applies the date rules shared by create and update:
// a missing start date means "now", a missing end date means start plus the
// default expiration period, the range must be ordered and not already
// expired, and a start date in the past is clamped to now.
func resolveRoomSchedule(now time.Time, start, end *time.Time, defaultExpiration time.Duration) (time.Time, time.Time, error) {
	startDate := now
	if start != nil {
		startDate = *start
	}

	endDate := startDate.Add(defaultExpiration)
	if end != nil {
		endDate = *end
	}

	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidDateRange
	}
	if !now.Before(endDate) {
		return time.Time{}, time.Time{}, apperrors.ErrRoomExpired
	}
	if startDate.Before(now) {
		startDate = now
	}

	return startDate, endDate, nil
}

// CreateRoomInput represents room creation input
type CreateRoomInput struct {
	Name        string
	Description string
	CreatorID   string
	StartDate   *time.Time
	EndDate     *time.Time
	Interests   []string
}

// Create creates a new room with the requester as its creator. The member
// set starts empty; the creator is not a member of their own room.
func (s *RoomService) Create(ctx context.Context, input *CreateRoomInput) (*model.Room, error) {
	startDate, endDate, err := resolveRoomSchedule(time.Now(), input.StartDate, input.EndDate, s.defaultExpiration)
	if err != nil {
		return nil, err
	}

	interests, ok := utils.NormalizeRoomInterests(input.Interests)
	if !ok {
		return nil, apperrors.ErrInvalidInterestFormat
	}

	room := &model.Room{
		Name:      input.Name,
		CreatorID: input.CreatorID,
		StartDate: startDate,
		EndDate:   endDate,
		Interests: interests,
	}

	if input.Description != "" {
		room.Description = sql.NullString{String: input.Description, Valid: true}
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		s.logger.Error("Failed to create room", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.logger.Info("Room created",
		zap.String("room_id", room.ID),
		zap.String("name", room.Name),
		zap.String("creator_id", input.CreatorID),
		zap.Time("end_date", room.EndDate),
	)

	return room, nil
}

// GetByID retrieves a room by ID
func (s *RoomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperrors.ErrRoomNotFound
		}
		s.logger.Error("Failed to get room", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return room, nil
}

// GetDetail retrieves a room with creator info and the member list
func (s *RoomService) GetDetail(ctx context.Context, id string) (*model.RoomDetail, error) {
	cacheKey := fmt.Sprintf(cache.KeyRoomDetail, id)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var detail model.RoomDetail
			if err := json.Unmarshal([]byte(cached), &detail); err == nil {
				return &detail, nil
			}
		}
	}

	room, err := s.roomRepo.GetByIDWithMemberCount(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperrors.ErrRoomNotFound
		}
		s.logger.Error("Failed to get room", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	detail := &model.RoomDetail{
		Room:        room.Room,
		MemberCount: room.MemberCount,
		Members:     []*model.UserProfile{},
	}

	creator, err := s.userRepo.GetByID(ctx, room.CreatorID)
	if err != nil {
		s.logger.Warn("Failed to get room creator", zap.Error(err))
	} else {
		detail.Creator = creator.ToProfile()
	}

	members, err := s.roomRepo.ListMembers(ctx, id)
	if err != nil {
		s.logger.Error("Failed to list room members", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	for _, m := range members {
		detail.Members = append(detail.Members, m.ToProfile())
	}

	if s.cache != nil {
		if payload, err := json.Marshal(detail); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, roomDetailTTL); err != nil {
				s.logger.Warn("Failed to cache room detail", zap.Error(err))
			}
		}
	}

	return detail, nil
}

// invalidateDetail drops the cached detail view after a mutation
func (s *RoomService) invalidateDetail(ctx context.Context, roomID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, fmt.Sprintf(cache.KeyRoomDetail, roomID)); err != nil {
		s.logger.Warn("Failed to invalidate room detail cache",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
	}
}

// UpdateRoomInput represents room update input. Nil fields mean "no change";
// a blank name or description is also treated as absent, so neither field can
// be cleared through this operation.
type UpdateRoomInput struct {
	RoomID      string
	UserID      string
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Interests   []string
}

// Update updates a room. Only the creator may update; the start date is
// applied only together with an end date, and the resulting range must not be
// expired. The write is revision-guarded and retried once against fresh state
// when a concurrent writer got there first.
func (s *RoomService) Update(ctx context.Context, input *UpdateRoomInput) (*model.Room, error) {
	var interests []string
	if input.Interests != nil {
		normalized, ok := utils.NormalizeRoomInterests(input.Interests)
		if !ok {
			return nil, apperrors.ErrInvalidInterestFormat
		}
		interests = normalized
	}

	for attempt := 0; attempt < updateAttempts; attempt++ {
		room, err := s.roomRepo.GetByID(ctx, input.RoomID)
		if err != nil {
			if err == repository.ErrRoomNotFound {
				return nil, apperrors.ErrRoomNotFound
			}
			s.logger.Error("Failed to get room", zap.Error(err))
			return nil, apperrors.ErrInternal
		}

		if !room.IsCreator(input.UserID) {
			return nil, apperrors.ErrNotRoomCreator
		}

		if input.Name != nil && *input.Name != "" {
			room.Name = *input.Name
		}
		if input.Description != nil && *input.Description != "" {
			room.Description = sql.NullString{String: *input.Description, Valid: true}
		}

		if input.EndDate != nil {
			now := time.Now()
			if !now.Before(*input.EndDate) {
				return nil, apperrors.ErrRoomExpired
			}
			if input.StartDate != nil {
				startDate := *input.StartDate
				if !startDate.Before(*input.EndDate) {
					return nil, apperrors.ErrInvalidDateRange
				}
				if startDate.Before(now) {
					startDate = now
				}
				room.StartDate = startDate
			} else if !room.StartDate.Before(*input.EndDate) {
				// The kept start date must still precede the new end
				return nil, apperrors.ErrInvalidDateRange
			}
			room.EndDate = *input.EndDate
		}

		if interests != nil {
			room.Interests = interests
		}

		err = s.roomRepo.Update(ctx, room)
		if err == nil {
			s.invalidateDetail(ctx, room.ID)
			s.logger.Info("Room updated",
				zap.String("room_id", room.ID),
				zap.Int64("revision", room.Revision),
			)
			return room, nil
		}
		if err == repository.ErrStaleRoom {
			s.logger.Warn("Room update lost revision race, retrying",
				zap.String("room_id", input.RoomID),
			)
			continue
		}
		if err == repository.ErrRoomNotFound {
			return nil, apperrors.ErrRoomNotFound
		}
		s.logger.Error("Failed to update room", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	return nil, apperrors.ErrRoomModified
}

// Delete deletes a room; only the creator may delete it
func (s *RoomService) Delete(ctx context.Context, roomID, userID string) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return apperrors.ErrRoomNotFound
		}
		return apperrors.ErrInternal
	}

	if !room.IsCreator(userID) {
		return apperrors.ErrNotRoomCreator
	}

	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		s.logger.Error("Failed to delete room", zap.Error(err))
		return apperrors.ErrInternal
	}

	s.invalidateDetail(ctx, roomID)

	s.logger.Info("Room deleted",
		zap.String("room_id", roomID),
		zap.String("deleted_by", userID),
	)

	return nil
}

// Join adds the requester to the room's member set and returns the joining
// user. The creator is excluded from the member set entirely.
func (s *RoomService) Join(ctx context.Context, roomID, userID string) (*model.User, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.ErrInternal
	}

	isMember, err := s.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		s.logger.Error("Failed to check membership", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	if isMember {
		return nil, apperrors.ErrAlreadyRoomMember
	}

	if room.IsCreator(userID) {
		return nil, apperrors.ErrCreatorCannotJoin
	}

	member := &model.RoomMember{
		RoomID: roomID,
		UserID: userID,
	}

	if err := s.roomRepo.AddMember(ctx, member); err != nil {
		if err == repository.ErrAlreadyRoomMember {
			return nil, apperrors.ErrAlreadyRoomMember
		}
		s.logger.Error("Failed to join room", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.invalidateDetail(ctx, roomID)

	s.logger.Info("User joined room",
		zap.String("room_id", roomID),
		zap.String("user_id", userID),
	)

	return s.getUser(ctx, userID)
}

// Leave removes the requester from the room's member set and returns the
// leaving user. The creator cannot leave their own room.
func (s *RoomService) Leave(ctx context.Context, roomID, userID string) (*model.User, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.ErrInternal
	}

	isMember, err := s.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		s.logger.Error("Failed to check membership", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	if !isMember {
		return nil, apperrors.ErrNotRoomMember
	}

	if room.IsCreator(userID) {
		return nil, apperrors.ErrCreatorCannotLeave
	}

	if err := s.roomRepo.RemoveMember(ctx, roomID, userID); err != nil {
		if err == repository.ErrNotRoomMember {
			return nil, apperrors.ErrNotRoomMember
		}
		s.logger.Error("Failed to leave room", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.invalidateDetail(ctx, roomID)

	s.logger.Info("User left room",
		zap.String("room_id", roomID),
		zap.String("user_id", userID),
	)

	return s.getUser(ctx, userID)
}

// RemoveMember removes the named user from the room. Only the creator may
// remove members, and the creator themselves can never be the target.
func (s *RoomService) RemoveMember(ctx context.Context, roomID, requesterID, targetUsername string) (*model.RoomDetail, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.ErrInternal
	}

	if !room.IsCreator(requesterID) {
		return nil, apperrors.ErrNotRoomCreator
	}

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		s.logger.Error("Failed to get user", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	if target.ID == room.CreatorID {
		return nil, apperrors.ErrCannotRemoveCreator
	}

	if err := s.roomRepo.RemoveMember(ctx, roomID, target.ID); err != nil {
		if err == repository.ErrNotRoomMember {
			return nil, apperrors.ErrNotRoomMember
		}
		s.logger.Error("Failed to remove member", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.invalidateDetail(ctx, roomID)

	s.logger.Info("Member removed from room",
		zap.String("room_id", roomID),
		zap.String("removed_by", requesterID),
		zap.String("target", target.ID),
	)

	return s.GetDetail(ctx, roomID)
}

// ListActive lists rooms whose end date has not passed
func (s *RoomService) ListActive(ctx context.Context, limit, offset int) ([]*model.RoomWithMemberCount, error) {
	rooms, err := s.roomRepo.ListActive(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list active rooms", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return rooms, nil
}

// ListJoined lists rooms the user is a member of
func (s *RoomService) ListJoined(ctx context.Context, userID string, limit, offset int) ([]*model.RoomWithMemberCount, error) {
	rooms, err := s.roomRepo.ListByMember(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list joined rooms", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return rooms, nil
}

// ListCreated lists rooms the user created
func (s *RoomService) ListCreated(ctx context.Context, userID string, limit, offset int) ([]*model.RoomWithMemberCount, error) {
	rooms, err := s.roomRepo.ListByCreator(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list created rooms", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return rooms, nil
}

// Search searches active rooms by name
func (s *RoomService) Search(ctx context.Context, query string, limit, offset int) ([]*model.RoomWithMemberCount, error) {
	rooms, err := s.roomRepo.Search(ctx, query, limit, offset)
	if err != nil {
		s.logger.Error("Failed to search rooms", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return rooms, nil
}

// ListMembers lists all members of a room
func (s *RoomService) ListMembers(ctx context.Context, roomID string) ([]*model.RoomMemberWithUser, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.ErrInternal
	}

	members, err := s.roomRepo.ListMembers(ctx, roomID)
	if err != nil {
		s.logger.Error("Failed to list members", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	return members, nil
}

func (s *RoomService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		s.logger.Error("Failed to get user", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return user, nil
}
