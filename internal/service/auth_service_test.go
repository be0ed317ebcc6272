package service

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/go-demo/meet/internal/pkg/errors"
	"github.com/go-demo/meet/internal/pkg/utils"
	"github.com/go-demo/meet/internal/repository"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func setupTestAuthService(t *testing.T) (*AuthService, *sqlx.DB) {
	t.Helper()

	dsn := "host=localhost port=5432 user=postgres password=postgres dbname=meet_test sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping test, could not connect to test database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	jwtManager := utils.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour, "test")
	logger := zap.NewNop()

	service := NewAuthService(userRepo, jwtManager, logger)
	return service, db
}

func cleanupAuthServiceTestDB(t *testing.T, db *sqlx.DB, prefix string) {
	t.Helper()
	repository.CleanupTestDataByPrefix(t, db, prefix)
}

func TestAuthService_Register(t *testing.T) {
	service, db := setupTestAuthService(t)
	defer db.Close()

	prefix := repository.GenerateUniquePrefix()
	defer cleanupAuthServiceTestDB(t, db, prefix)

	ctx := context.Background()

	result, err := service.Register(ctx, &RegisterInput{
		Username: prefix + "_alice",
		Email:    prefix + "_alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	if result.User.ID == "" {
		t.Error("Expected user ID to be set")
	}
	if result.TokenPair.AccessToken == "" {
		t.Error("Expected access token to be set")
	}
	if result.User.PasswordHash == "password123" {
		t.Error("Expected password to be hashed")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	service, db := setupTestAuthService(t)
	defer db.Close()

	prefix := repository.GenerateUniquePrefix()
	defer cleanupAuthServiceTestDB(t, db, prefix)

	ctx := context.Background()

	service.Register(ctx, &RegisterInput{
		Username: prefix + "_alice",
		Email:    prefix + "_alice@example.com",
		Password: "password123",
	})

	_, err := service.Register(ctx, &RegisterInput{
		Username: prefix + "_alice",
		Email:    prefix + "_other@example.com",
		Password: "password123",
	})
	if err != apperrors.ErrUsernameExists {
		t.Errorf("Expected ErrUsernameExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	service, db := setupTestAuthService(t)
	defer db.Close()

	prefix := repository.GenerateUniquePrefix()
	defer cleanupAuthServiceTestDB(t, db, prefix)

	ctx := context.Background()

	service.Register(ctx, &RegisterInput{
		Username: prefix + "_alice",
		Email:    prefix + "_alice@example.com",
		Password: "password123",
	})

	result, err := service.Login(ctx, &LoginInput{
		Username: prefix + "_alice",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Failed to login: %v", err)
	}

	if result.TokenPair.AccessToken == "" {
		t.Error("Expected access token to be set")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, db := setupTestAuthService(t)
	defer db.Close()

	prefix := repository.GenerateUniquePrefix()
	defer cleanupAuthServiceTestDB(t, db, prefix)

	ctx := context.Background()

	service.Register(ctx, &RegisterInput{
		Username: prefix + "_alice",
		Email:    prefix + "_alice@example.com",
		Password: "password123",
	})

	_, err := service.Login(ctx, &LoginInput{
		Username: prefix + "_alice",
		Password: "wrongpassword",
	})
	if err != apperrors.ErrInvalidPassword {
		t.Errorf("Expected ErrInvalidPassword, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	service, db := setupTestAuthService(t)
	defer db.Close()

	prefix := repository.GenerateUniquePrefix()
	defer cleanupAuthServiceTestDB(t, db, prefix)

	ctx := context.Background()

	// Unknown usernames get the same error as wrong passwords
	_, err := service.Login(ctx, &LoginInput{
		Username: prefix + "_ghost",
		Password: "password123",
	})
	if err != apperrors.ErrInvalidPassword {
		t.Errorf("Expected ErrInvalidPassword, got %v", err)
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	service, db := setupTestAuthService(t)
	defer db.Close()

	prefix := repository.GenerateUniquePrefix()
	defer cleanupAuthServiceTestDB(t, db, prefix)

	ctx := context.Background()

	result, _ := service.Register(ctx, &RegisterInput{
		Username: prefix + "_alice",
		Email:    prefix + "_alice@example.com",
		Password: "password123",
	})

	tokenPair, err := service.RefreshToken(ctx, result.TokenPair.RefreshToken)
	if err != nil {
		t.Fatalf("Failed to refresh token: %v", err)
	}

	if tokenPair.AccessToken == "" {
		t.Error("Expected new access token to be set")
	}
}

func TestAuthService_RefreshToken_WithAccessToken(t *testing.T) {
	service, db := setupTestAuthService(t)
	defer db.Close()

	prefix := repository.GenerateUniquePrefix()
	defer cleanupAuthServiceTestDB(t, db, prefix)

	ctx := context.Background()

	result, _ := service.Register(ctx, &RegisterInput{
		Username: prefix + "_alice",
		Email:    prefix + "_alice@example.com",
		Password: "password123",
	})

	_, err := service.RefreshToken(ctx, result.TokenPair.AccessToken)
	if err != apperrors.ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	service, db := setupTestAuthService(t)
	defer db.Close()

	prefix := repository.GenerateUniquePrefix()
	defer cleanupAuthServiceTestDB(t, db, prefix)

	ctx := context.Background()

	result, _ := service.Register(ctx, &RegisterInput{
		Username: prefix + "_alice",
		Email:    prefix + "_alice@example.com",
		Password: "password123",
	})

	err := service.ChangePassword(ctx, &ChangePasswordInput{
		UserID:          result.User.ID,
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
	})
	if err != nil {
		t.Fatalf("Failed to change password: %v", err)
	}

	// Old password no longer works
	_, err = service.Login(ctx, &LoginInput{
		Username: result.User.Username,
		Password: "password123",
	})
	if err != apperrors.ErrInvalidPassword {
		t.Errorf("Expected ErrInvalidPassword for old password, got %v", err)
	}

	_, err = service.Login(ctx, &LoginInput{
		Username: result.User.Username,
		Password: "newpassword456",
	})
	if err != nil {
		t.Errorf("Expected login with new password to succeed, got %v", err)
	}
}
