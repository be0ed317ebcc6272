package service

import (
	"context"
	"testing"

	"github.com/go-demo/meet/internal/model"
	apperrors "github.com/go-demo/meet/internal/pkg/errors"
	"github.com/go-demo/meet/internal/repository"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func setupTestUserService(t *testing.T) (*UserService, *sqlx.DB, string) {
	t.Helper()

	db, prefix := repository.SetupIsolatedTestDB(t)

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	logger := zap.NewNop()

	service := NewUserService(userRepo, roomRepo, logger)
	return service, db, prefix
}

func TestUserService_GetProfile(t *testing.T) {
	service, db, prefix := setupTestUserService(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "alice")
	ctx := context.Background()

	profile, err := service.GetProfile(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}

	if profile.Username != user.Username {
		t.Errorf("Expected username %s, got %s", user.Username, profile.Username)
	}
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	service, db, prefix := setupTestUserService(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	ctx := context.Background()

	_, err := service.GetProfile(ctx, "00000000-0000-0000-0000-000000000000")
	if err != apperrors.ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_JoinedRoomIDs(t *testing.T) {
	service, db, prefix := setupTestUserService(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	creator := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	member := repository.CreateIsolatedTestUser(t, db, prefix, "member")
	room := repository.CreateIsolatedTestRoom(t, db, prefix, "room", creator.ID)

	roomRepo := repository.NewRoomRepository(db)
	ctx := context.Background()

	ids, err := service.JoinedRoomIDs(ctx, member.ID)
	if err != nil {
		t.Fatalf("Failed to list joined room IDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected no joined rooms, got %v", ids)
	}

	roomRepo.AddMember(ctx, &model.RoomMember{RoomID: room.ID, UserID: member.ID})

	ids, err = service.JoinedRoomIDs(ctx, member.ID)
	if err != nil {
		t.Fatalf("Failed to list joined room IDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != room.ID {
		t.Errorf("Expected joined rooms [%s], got %v", room.ID, ids)
	}
}

func TestUserService_Search(t *testing.T) {
	service, db, prefix := setupTestUserService(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	repository.CreateIsolatedTestUser(t, db, prefix, "alice")
	repository.CreateIsolatedTestUser(t, db, prefix, "alicia")
	ctx := context.Background()

	users, err := service.Search(ctx, prefix+"_ali", 20, 0)
	if err != nil {
		t.Fatalf("Failed to search users: %v", err)
	}

	if len(users) != 2 {
		t.Errorf("Expected 2 users, got %d", len(users))
	}
}
