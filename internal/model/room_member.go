package model

import (
	"database/sql"
	"time"
)

// RoomMember is one row of the room/user membership relation. Join and
// leave both mutate this single relation, so the room's member set and the
// user's joined-room set cannot diverge.
type RoomMember struct {
	ID       string    `db:"id" json:"id"`
	RoomID   string    `db:"room_id" json:"room_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// RoomMemberWithUser includes user info
type RoomMemberWithUser struct {
	RoomMember
	Username    string         `db:"username" json:"username"`
	DisplayName sql.NullString `db:"display_name" json:"display_name,omitempty"`
	AvatarURL   sql.NullString `db:"avatar_url" json:"avatar_url,omitempty"`
}

// GetUserDisplayName returns display_name or username
func (rm *RoomMemberWithUser) GetUserDisplayName() string {
	if rm.DisplayName.Valid && rm.DisplayName.String != "" {
		return rm.DisplayName.String
	}
	return rm.Username
}

// ToProfile converts the joined row to a public profile
func (rm *RoomMemberWithUser) ToProfile() *UserProfile {
	avatarURL := ""
	if rm.AvatarURL.Valid {
		avatarURL = rm.AvatarURL.String
	}

	return &UserProfile{
		ID:          rm.UserID,
		Username:    rm.Username,
		DisplayName: rm.GetUserDisplayName(),
		AvatarURL:   avatarURL,
	}
}
