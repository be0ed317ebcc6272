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

func setupRoomHandlerTestIsolated(t *testing.T) (*gin.Engine, *service.RoomService, *utils.JWTManager, *sqlx.DB, string) {
	t.Helper()

	dsn := "host=localhost port=5432 user=postgres password=postgres dbname=meet_test sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping test, could not connect to test database: %v", err)
	}

	gin.SetMode(gin.TestMode)

	roomRepo := repository.NewRoomRepository(db)
	userRepo := repository.NewUserRepository(db)
	logger := zap.NewNop()

	roomService := service.NewRoomService(roomRepo, userRepo, nil, 24*time.Hour, logger)
	userService := service.NewUserService(userRepo, roomRepo, logger)
	jwtManager := utils.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour, "test")

	handler := NewRoomHandler(roomService, userService)

	router := gin.New()
	rooms := router.Group("/api/v1/rooms")
	rooms.Use(middleware.Auth(jwtManager))
	{
		rooms.GET("", handler.ListActive)
		rooms.POST("", handler.Create)
		rooms.GET("/me", handler.ListMyRooms)
		rooms.GET("/search", handler.Search)
		rooms.GET("/interests", handler.ListInterests)
		rooms.GET("/:id", handler.GetByID)
		rooms.PUT("/:id", handler.Update)
		rooms.DELETE("/:id", handler.Delete)
		rooms.POST("/:id/join", handler.Join)
		rooms.POST("/:id/leave", handler.Leave)
		rooms.GET("/:id/members", handler.ListMembers)
		rooms.DELETE("/:id/members/:username", handler.RemoveMember)
	}

	prefix := repository.GenerateUniquePrefix()
	return router, roomService, jwtManager, db, prefix
}

func cleanupRoomHandlerTestByPrefix(t *testing.T, db *sqlx.DB, prefix string) {
	t.Helper()
	repository.CleanupTestDataByPrefix(t, db, prefix)
}

func createUserForRoomHandlerTestIsolated(t *testing.T, db *sqlx.DB, prefix, username string) *model.User {
	t.Helper()
	return repository.CreateIsolatedTestUser(t, db, prefix, username)
}

func TestRoomHandler_Create(t *testing.T) {
	router, _, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	user := createUserForRoomHandlerTestIsolated(t, db, prefix, "alice")

	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	body := map[string]interface{}{
		"name":        prefix + "_Test Room",
		"description": "A test room",
		"interests":   []string{"music", "travel"},
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("POST", "/api/v1/rooms", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_Create_InvalidInterest(t *testing.T) {
	router, _, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	user := createUserForRoomHandlerTestIsolated(t, db, prefix, "alice")

	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	body := map[string]interface{}{
		"name":      prefix + "_Test Room",
		"interests": []string{"knitting"},
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("POST", "/api/v1/rooms", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_Create_InvalidDateRange(t *testing.T) {
	router, _, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	user := createUserForRoomHandlerTestIsolated(t, db, prefix, "alice")

	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	start := time.Now().Add(4 * time.Hour)
	end := time.Now().Add(2 * time.Hour)
	body := map[string]interface{}{
		"name":       prefix + "_Test Room",
		"start_date": start.Format(time.RFC3339),
		"end_date":   end.Format(time.RFC3339),
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("POST", "/api/v1/rooms", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_GetByID(t *testing.T) {
	router, roomService, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	user := createUserForRoomHandlerTestIsolated(t, db, prefix, "alice")

	room, _ := roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Test Room",
		CreatorID: user.ID,
	})

	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	req := httptest.NewRequest("GET", "/api/v1/rooms/"+room.ID, nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_GetByID_NotFound(t *testing.T) {
	router, _, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	user := createUserForRoomHandlerTestIsolated(t, db, prefix, "alice")

	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	req := httptest.NewRequest("GET", "/api/v1/rooms/00000000-0000-0000-0000-000000000000", nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_GetByID_InvalidUUID(t *testing.T) {
	router, _, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	user := createUserForRoomHandlerTestIsolated(t, db, prefix, "alice")

	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	req := httptest.NewRequest("GET", "/api/v1/rooms/not-a-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_Update_NotCreator(t *testing.T) {
	router, roomService, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	creator := createUserForRoomHandlerTestIsolated(t, db, prefix, "creator")
	other := createUserForRoomHandlerTestIsolated(t, db, prefix, "other")

	room, _ := roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Test Room",
		CreatorID: creator.ID,
	})

	tokenPair, _ := jwtManager.GenerateTokenPair(other.ID, other.Username)

	body := map[string]interface{}{"name": prefix + "_hijacked"}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest("PUT", "/api/v1/rooms/"+room.ID, bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_Delete(t *testing.T) {
	router, roomService, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	creator := createUserForRoomHandlerTestIsolated(t, db, prefix, "creator")

	room, _ := roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Test Room",
		CreatorID: creator.ID,
	})

	tokenPair, _ := jwtManager.GenerateTokenPair(creator.ID, creator.Username)

	req := httptest.NewRequest("DELETE", "/api/v1/rooms/"+room.ID, nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_Join(t *testing.T) {
	router, roomService, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	creator := createUserForRoomHandlerTestIsolated(t, db, prefix, "creator")
	member := createUserForRoomHandlerTestIsolated(t, db, prefix, "member")

	room, _ := roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Test Room",
		CreatorID: creator.ID,
	})

	tokenPair, _ := jwtManager.GenerateTokenPair(member.ID, member.Username)

	req := httptest.NewRequest("POST", "/api/v1/rooms/"+room.ID+"/join", nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// Joining twice conflicts
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/v1/rooms/"+room.ID+"/join", nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_Join_Creator(t *testing.T) {
	router, roomService, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	creator := createUserForRoomHandlerTestIsolated(t, db, prefix, "creator")

	room, _ := roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Test Room",
		CreatorID: creator.ID,
	})

	tokenPair, _ := jwtManager.GenerateTokenPair(creator.ID, creator.Username)

	req := httptest.NewRequest("POST", "/api/v1/rooms/"+room.ID+"/join", nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_Leave(t *testing.T) {
	router, roomService, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	creator := createUserForRoomHandlerTestIsolated(t, db, prefix, "creator")
	member := createUserForRoomHandlerTestIsolated(t, db, prefix, "member")

	room, _ := roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Test Room",
		CreatorID: creator.ID,
	})
	roomService.Join(context.Background(), room.ID, member.ID)

	tokenPair, _ := jwtManager.GenerateTokenPair(member.ID, member.Username)

	req := httptest.NewRequest("POST", "/api/v1/rooms/"+room.ID+"/leave", nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_RemoveMember(t *testing.T) {
	router, roomService, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	creator := createUserForRoomHandlerTestIsolated(t, db, prefix, "creator")
	member := createUserForRoomHandlerTestIsolated(t, db, prefix, "member")

	room, _ := roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Test Room",
		CreatorID: creator.ID,
	})
	roomService.Join(context.Background(), room.ID, member.ID)

	tokenPair, _ := jwtManager.GenerateTokenPair(creator.ID, creator.Username)

	req := httptest.NewRequest("DELETE", "/api/v1/rooms/"+room.ID+"/members/"+member.Username, nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_RemoveMember_NotCreator(t *testing.T) {
	router, roomService, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	creator := createUserForRoomHandlerTestIsolated(t, db, prefix, "creator")
	member := createUserForRoomHandlerTestIsolated(t, db, prefix, "member")

	room, _ := roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Test Room",
		CreatorID: creator.ID,
	})
	roomService.Join(context.Background(), room.ID, member.ID)

	tokenPair, _ := jwtManager.GenerateTokenPair(member.ID, member.Username)

	req := httptest.NewRequest("DELETE", "/api/v1/rooms/"+room.ID+"/members/"+member.Username, nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_ListActive(t *testing.T) {
	router, roomService, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	user := createUserForRoomHandlerTestIsolated(t, db, prefix, "alice")

	roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Room 1",
		CreatorID: user.ID,
	})
	roomService.Create(context.Background(), &service.CreateRoomInput{
		Name:      prefix + "_Room 2",
		CreatorID: user.ID,
	})

	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	req := httptest.NewRequest("GET", "/api/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_ListInterests(t *testing.T) {
	router, _, jwtManager, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	user := createUserForRoomHandlerTestIsolated(t, db, prefix, "alice")

	tokenPair, _ := jwtManager.GenerateTokenPair(user.ID, user.Username)

	req := httptest.NewRequest("GET", "/api/v1/rooms/interests", nil)
	req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoomHandler_Unauthorized(t *testing.T) {
	router, _, _, db, prefix := setupRoomHandlerTestIsolated(t)
	defer db.Close()
	defer cleanupRoomHandlerTestByPrefix(t, db, prefix)

	req := httptest.NewRequest("GET", "/api/v1/rooms", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}
