package response

import (
	"time"

	"github.com/go-demo/meet/internal/model"
)

// TokenResponse represents token response
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}

// UserResponse represents a user response
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	CreatedAt   string `json:"created_at"`
}

// NewUserResponse creates a user response from model
func NewUserResponse(user *model.User, includeEmail bool) *UserResponse {
	resp := &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayName(),
		AvatarURL:   user.GetAvatarURL(),
		Bio:         user.GetBio(),
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
	if includeEmail {
		resp.Email = user.Email
	}
	return resp
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *UserResponse  `json:"user"`
	Token *TokenResponse `json:"token"`
}

// ProfileResponse represents user profile response
type ProfileResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
}

// NewProfileResponse creates a profile response from model
func NewProfileResponse(profile *model.UserProfile) *ProfileResponse {
	return &ProfileResponse{
		ID:          profile.ID,
		Username:    profile.Username,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		Bio:         profile.Bio,
	}
}

// MembershipResponse represents a user together with their joined rooms,
// returned by the join and leave operations
type MembershipResponse struct {
	User        *UserResponse `json:"user"`
	JoinedRooms []string      `json:"joined_rooms"`
}
