package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/meet/internal/middleware"
	"github.com/go-demo/meet/internal/model"
	"github.com/go-demo/meet/internal/pkg/utils"
	"github.com/go-demo/meet/internal/repository"
	"github.com/go-demo/meet/internal/service"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func setupAuthHandlerTest(t *testing.T) (*gin.Engine, *service.AuthService, *utils.JWTManager, *sqlx.DB, string) {
	t.Helper()

	dsn := "host=localhost port=5432 user=postgres password=postgres dbname=meet_test sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping test, could not connect to test database: %v", err)
	}

	gin.SetMode(gin.TestMode)

	userRepo := repository.NewUserRepository(db)
	logger := zap.NewNop()
	jwtManager := utils.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour, "test")

	authService := service.NewAuthService(userRepo, jwtManager, logger)
	handler := NewAuthHandler(authService)

	router := gin.New()

	// Public routes
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.RefreshToken)
	}

	// Protected routes
	authProtected := router.Group("/api/v1/auth")
	authProtected.Use(middleware.Auth(jwtManager))
	{
		authProtected.POST("/logout", handler.Logout)
		authProtected.GET("/me", handler.GetMe)
		authProtected.PUT("/password", handler.ChangePassword)
	}

	prefix := repository.GenerateUniquePrefix()
	return router, authService, jwtManager, db, prefix
}

func createUserForAuthHandlerTest(t *testing.T, db *sqlx.DB, username, password string) *model.User {
	t.Helper()
	userRepo := repository.NewUserRepository(db)

	hashedPassword, _ := utils.HashPassword(password)
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hashedPassword,
		Status:       model.UserStatusActive,
	}
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestAuthHandler_Register(t *testing.T) {
	router, _, _, db, prefix := setupAuthHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	body := map[string]string{
		"username": prefix + "_alice",
		"email":    prefix + "_alice@example.com",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	router, _, _, db, prefix := setupAuthHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	createUserForAuthHandlerTest(t, db, prefix+"_alice", "password123")

	body := map[string]string{
		"username": prefix + "_alice",
		"email":    prefix + "_other@example.com",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthHandler_Login(t *testing.T) {
	router, _, _, db, prefix := setupAuthHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	createUserForAuthHandlerTest(t, db, prefix+"_alice", "password123")

	body := map[string]string{
		"username": prefix + "_alice",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	router, _, _, db, prefix := setupAuthHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	createUserForAuthHandlerTest(t, db, prefix+"_alice", "password123")

	body := map[string]string{
		"username": prefix + "_alice",
		"password": "wrongpassword",
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthHandler_GetMe(t *testing.T) {
	router, _, jwtManager, db, prefix := setupAuthHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := createUserForAuthHandlerTest(t, db, prefix+"_alice", "password123")
	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	router, _, jwtManager, db, prefix := setupAuthHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := createUserForAuthHandlerTest(t, db, prefix+"_alice", "password123")
	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	body := map[string]string{"refresh_token": tokenPair.RefreshToken}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	router, _, jwtManager, db, prefix := setupAuthHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := createUserForAuthHandlerTest(t, db, prefix+"_alice", "password123")
	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	body := map[string]string{
		"current_password": "password123",
		"new_password":     "newpassword456",
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("PUT", "/api/v1/auth/password", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}
