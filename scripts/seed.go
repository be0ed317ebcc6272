package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/go-demo/meet/internal/config"
	"github.com/go-demo/meet/internal/model"
	"github.com/go-demo/meet/internal/pkg/database"
	"github.com/go-demo/meet/internal/pkg/utils"
	"github.com/go-demo/meet/internal/repository"
	"go.uber.org/zap"
)

func main() {
	log.Println("Starting database seed...")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	logger := zap.NewNop()
	db, err := database.NewPostgres(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)

	// Seed users
	log.Println("Creating users...")
	users := []struct {
		username    string
		email       string
		password    string
		displayName string
	}{
		{"alice", "alice@example.com", "password123", "Alice Chen"},
		{"bob", "bob@example.com", "password123", "Bob Wang"},
		{"charlie", "charlie@example.com", "password123", "Charlie Lin"},
		{"diana", "diana@example.com", "password123", "Diana Wu"},
		{"evan", "evan@example.com", "password123", "Evan Lee"},
	}

	var createdUsers []*model.User
	for _, u := range users {
		hash, _ := utils.HashPassword(u.password)
		user := &model.User{
			Username:     u.username,
			Email:        u.email,
			PasswordHash: hash,
			DisplayName:  sql.NullString{String: u.displayName, Valid: true},
			Status:       model.UserStatusActive,
		}

		if err := userRepo.Create(ctx, user); err != nil {
			log.Printf("User %s might already exist: %v", u.username, err)
			existing, _ := userRepo.GetByUsername(ctx, u.username)
			if existing != nil {
				createdUsers = append(createdUsers, existing)
			}
		} else {
			createdUsers = append(createdUsers, user)
			log.Printf("Created user: %s", u.username)
		}
	}

	if len(createdUsers) < 2 {
		log.Println("Not enough users, skipping room creation")
		return
	}

	// Seed rooms
	log.Println("Creating rooms...")
	now := time.Now()
	rooms := []struct {
		name         string
		description  string
		interests    []string
		creatorIndex int
		duration     time.Duration
	}{
		{"週末登山團", "一起爬七星山，新手友善", []string{"nature", "sports"}, 0, 48 * time.Hour},
		{"桌遊之夜", "狼人殺與卡坦島", []string{"gaming"}, 1, 6 * time.Hour},
		{"咖啡廳讀書會", "帶一本你最近在讀的書", []string{"books", "cooking"}, 2, 24 * time.Hour},
		{"攝影散步", "大稻埕街拍", []string{"photography", "travel"}, 0, 12 * time.Hour},
	}

	var createdRooms []*model.Room
	for _, r := range rooms {
		interests, ok := utils.NormalizeRoomInterests(r.interests)
		if !ok {
			log.Printf("Room %s has invalid interests, skipping", r.name)
			continue
		}

		room := &model.Room{
			Name:        r.name,
			Description: sql.NullString{String: r.description, Valid: r.description != ""},
			CreatorID:   createdUsers[r.creatorIndex].ID,
			StartDate:   now,
			EndDate:     now.Add(r.duration),
			Interests:   interests,
		}

		if err := roomRepo.Create(ctx, room); err != nil {
			log.Printf("Failed to create room %s: %v", r.name, err)
			continue
		}

		createdRooms = append(createdRooms, room)
		log.Printf("Created room: %s", r.name)
	}

	// Seed memberships
	log.Println("Adding members...")
	for i, room := range createdRooms {
		for j, user := range createdUsers {
			// Creator is not a member, add two others per room
			if user.ID == room.CreatorID || (i+j)%2 == 0 {
				continue
			}

			member := &model.RoomMember{
				RoomID: room.ID,
				UserID: user.ID,
			}
			if err := roomRepo.AddMember(ctx, member); err != nil {
				log.Printf("Failed to add %s to %s: %v", user.Username, room.Name, err)
				continue
			}
			log.Printf("Added %s to %s", user.Username, room.Name)
		}
	}

	log.Println("Seed completed")
}
