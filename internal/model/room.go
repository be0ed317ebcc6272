package model

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Room is a time-bounded meeting space. The creator owns the room and is
// never part of its member set. start_date < end_date holds for every
// persisted row.
type Room struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	CreatorID   string         `db:"creator_id" json:"creator_id"`
	StartDate   time.Time      `db:"start_date" json:"start_date"`
	EndDate     time.Time      `db:"end_date" json:"end_date"`
	Interests   pq.StringArray `db:"interests" json:"interests"`
	Revision    int64          `db:"revision" json:"revision"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// GetDescription returns description or empty string
func (r *Room) GetDescription() string {
	if r.Description.Valid {
		return r.Description.String
	}
	return ""
}

// IsCreator checks if the given user created the room
func (r *Room) IsCreator(userID string) bool {
	return r.CreatorID == userID
}

// IsExpired checks if the room's end date has passed
func (r *Room) IsExpired(now time.Time) bool {
	return !now.Before(r.EndDate)
}

// IsActive checks if the room is within its scheduled window
func (r *Room) IsActive(now time.Time) bool {
	return !now.Before(r.StartDate) && now.Before(r.EndDate)
}

// RoomWithMemberCount includes member count
type RoomWithMemberCount struct {
	Room
	MemberCount int `db:"member_count" json:"member_count"`
}

// RoomDetail includes creator info and the member list
type RoomDetail struct {
	Room
	MemberCount int            `db:"member_count" json:"member_count"`
	Creator     *UserProfile   `json:"creator,omitempty"`
	Members     []*UserProfile `json:"members"`
}
