package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-demo/meet/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrStaleRoom         = errors.New("room revision is stale")
	ErrNotRoomMember     = errors.New("not a room member")
	ErrAlreadyRoomMember = errors.New("already a room member")
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

type RoomRepository struct {
	db *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create creates a new room
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (name, description, creator_id, start_date, end_date, interests)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, revision, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		room.Name,
		room.Description,
		room.CreatorID,
		room.StartDate,
		room.EndDate,
		room.Interests,
	).Scan(&room.ID, &room.Revision, &room.CreatedAt, &room.UpdatedAt)
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	query := `SELECT * FROM rooms WHERE id = $1`

	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	return &room, nil
}

// GetByIDWithMemberCount retrieves a room by ID with member count
func (r *RoomRepository) GetByIDWithMemberCount(ctx context.Context, id string) (*model.RoomWithMemberCount, error) {
	var room model.RoomWithMemberCount
	query := `
		SELECT r.*, COUNT(rm.id) as member_count
		FROM rooms r
		LEFT JOIN room_members rm ON r.id = rm.room_id
		WHERE r.id = $1
		GROUP BY r.id`

	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room with member count: %w", err)
	}

	return &room, nil
}

// Update saves a room guarded by its revision. The write only lands if no
// other request has bumped the revision since the room was read; the caller
// sees ErrStaleRoom otherwise and may re-read and retry.
func (r *RoomRepository) Update(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms
		SET name = $2, description = $3, start_date = $4, end_date = $5,
		    interests = $6, revision = revision + 1, updated_at = NOW()
		WHERE id = $1 AND revision = $7
		RETURNING revision, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		room.ID,
		room.Name,
		room.Description,
		room.StartDate,
		room.EndDate,
		room.Interests,
		room.Revision,
	).Scan(&room.Revision, &room.UpdatedAt)

	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to update room: %w", err)
	}

	// No row matched: either the room is gone or the revision moved on
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, checkQuery, room.ID); err != nil {
		return fmt.Errorf("failed to check room existence: %w", err)
	}
	if !exists {
		return ErrRoomNotFound
	}
	return ErrStaleRoom
}

// Delete deletes a room; membership rows go with it via ON DELETE CASCADE
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM rooms WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRoomNotFound
	}

	return nil
}

// ListActive lists rooms whose end date has not passed
func (r *RoomRepository) ListActive(ctx context.Context, limit, offset int) ([]*model.RoomWithMemberCount, error) {
	query := `
		SELECT r.*, COUNT(rm.id) as member_count
		FROM rooms r
		LEFT JOIN room_members rm ON r.id = rm.room_id
		WHERE r.end_date > NOW()
		GROUP BY r.id
		ORDER BY r.start_date
		LIMIT $1 OFFSET $2`

	var rooms []*model.RoomWithMemberCount
	if err := r.db.SelectContext(ctx, &rooms, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list active rooms: %w", err)
	}

	return rooms, nil
}

// ListByMember lists rooms that the user has joined
func (r *RoomRepository) ListByMember(ctx context.Context, userID string, limit, offset int) ([]*model.RoomWithMemberCount, error) {
	query := `
		SELECT r.*, COUNT(rm2.id) as member_count
		FROM rooms r
		INNER JOIN room_members rm ON r.id = rm.room_id AND rm.user_id = $1
		LEFT JOIN room_members rm2 ON r.id = rm2.room_id
		GROUP BY r.id, rm.joined_at
		ORDER BY rm.joined_at DESC
		LIMIT $2 OFFSET $3`

	var rooms []*model.RoomWithMemberCount
	if err := r.db.SelectContext(ctx, &rooms, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list member rooms: %w", err)
	}

	return rooms, nil
}

// ListByCreator lists rooms created by the user
func (r *RoomRepository) ListByCreator(ctx context.Context, userID string, limit, offset int) ([]*model.RoomWithMemberCount, error) {
	query := `
		SELECT r.*, COUNT(rm.id) as member_count
		FROM rooms r
		LEFT JOIN room_members rm ON r.id = rm.room_id
		WHERE r.creator_id = $1
		GROUP BY r.id
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	var rooms []*model.RoomWithMemberCount
	if err := r.db.SelectContext(ctx, &rooms, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list creator rooms: %w", err)
	}

	return rooms, nil
}

// Search searches active rooms by name
func (r *RoomRepository) Search(ctx context.Context, query string, limit, offset int) ([]*model.RoomWithMemberCount, error) {
	searchQuery := `
		SELECT r.*, COUNT(rm.id) as member_count
		FROM rooms r
		LEFT JOIN room_members rm ON r.id = rm.room_id
		WHERE r.end_date > NOW() AND r.name ILIKE $1
		GROUP BY r.id
		ORDER BY r.name
		LIMIT $2 OFFSET $3`

	var rooms []*model.RoomWithMemberCount
	pattern := "%" + query + "%"

	if err := r.db.SelectContext(ctx, &rooms, searchQuery, pattern, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to search rooms: %w", err)
	}

	return rooms, nil
}

// AddMember adds a user to a room
func (r *RoomRepository) AddMember(ctx context.Context, member *model.RoomMember) error {
	query := `
		INSERT INTO room_members (room_id, user_id)
		VALUES ($1, $2)
		RETURNING id, joined_at`

	err := r.db.QueryRowxContext(ctx, query,
		member.RoomID,
		member.UserID,
	).Scan(&member.ID, &member.JoinedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrAlreadyRoomMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// RemoveMember removes a user from a room
func (r *RoomRepository) RemoveMember(ctx context.Context, roomID, userID string) error {
	query := `DELETE FROM room_members WHERE room_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotRoomMember
	}

	return nil
}

// IsMember checks if user is a member of the room
func (r *RoomRepository) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM room_members WHERE room_id = $1 AND user_id = $2)`

	if err := r.db.GetContext(ctx, &exists, query, roomID, userID); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return exists, nil
}

// ListMembers lists all members of a room with user info
func (r *RoomRepository) ListMembers(ctx context.Context, roomID string) ([]*model.RoomMemberWithUser, error) {
	query := `
		SELECT rm.*, u.username, u.display_name, u.avatar_url
		FROM room_members rm
		INNER JOIN users u ON rm.user_id = u.id
		WHERE rm.room_id = $1
		ORDER BY rm.joined_at`

	var members []*model.RoomMemberWithUser
	if err := r.db.SelectContext(ctx, &members, query, roomID); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// CountMembers counts room members
func (r *RoomRepository) CountMembers(ctx context.Context, roomID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM room_members WHERE room_id = $1`

	if err := r.db.GetContext(ctx, &count, query, roomID); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}

	return count, nil
}

// ListRoomIDsByMember lists the IDs of rooms the user has joined
func (r *RoomRepository) ListRoomIDsByMember(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT room_id FROM room_members WHERE user_id = $1 ORDER BY joined_at`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list joined room ids: %w", err)
	}

	return ids, nil
}
