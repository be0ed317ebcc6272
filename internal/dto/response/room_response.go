package response

import (
	"time"

	"github.com/go-demo/meet/internal/model"
)

// RoomResponse represents a room response
type RoomResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CreatorID   string   `json:"creator_id"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Interests   []string `json:"interests"`
	MemberCount int      `json:"member_count"`
	CreatedAt   string   `json:"created_at"`
}

// NewRoomResponse creates a room response from model
func NewRoomResponse(room *model.RoomWithMemberCount) *RoomResponse {
	return &RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.GetDescription(),
		CreatorID:   room.CreatorID,
		StartDate:   room.StartDate.Format(time.RFC3339),
		EndDate:     room.EndDate.Format(time.RFC3339),
		Interests:   room.Interests,
		MemberCount: room.MemberCount,
		CreatedAt:   room.CreatedAt.Format(time.RFC3339),
	}
}

// RoomDetailResponse represents a detailed room response
type RoomDetailResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Creator     *ProfileResponse   `json:"creator"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Interests   []string           `json:"interests"`
	Members     []*ProfileResponse `json:"members"`
	MemberCount int                `json:"member_count"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}

// NewRoomDetailResponse creates a detailed room response from model
func NewRoomDetailResponse(room *model.RoomDetail) *RoomDetailResponse {
	members := make([]*ProfileResponse, len(room.Members))
	for i, m := range room.Members {
		members[i] = NewProfileResponse(m)
	}

	resp := &RoomDetailResponse{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.GetDescription(),
		StartDate:   room.StartDate.Format(time.RFC3339),
		EndDate:     room.EndDate.Format(time.RFC3339),
		Interests:   room.Interests,
		Members:     members,
		MemberCount: room.MemberCount,
		CreatedAt:   room.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   room.UpdatedAt.Format(time.RFC3339),
	}

	if room.Creator != nil {
		resp.Creator = NewProfileResponse(room.Creator)
	}

	return resp
}

// RoomMemberResponse represents a room member response
type RoomMemberResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	JoinedAt    string `json:"joined_at"`
}

// NewRoomMemberResponse creates a room member response from model
func NewRoomMemberResponse(m *model.RoomMemberWithUser) *RoomMemberResponse {
	avatarURL := ""
	if m.AvatarURL.Valid {
		avatarURL = m.AvatarURL.String
	}

	return &RoomMemberResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		Username:    m.Username,
		DisplayName: m.GetUserDisplayName(),
		AvatarURL:   avatarURL,
		JoinedAt:    m.JoinedAt.Format(time.RFC3339),
	}
}
