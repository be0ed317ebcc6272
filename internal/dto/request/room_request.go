package request

import "time"

// CreateRoomRequest represents a room creation request. Dates are optional;
// the service fills in "now" and the default expiration period.
type CreateRoomRequest struct {
	Name        string     `json:"name" binding:"required,min=2,max=100"`
	Description string     `json:"description,omitempty" binding:"omitempty,max=500"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Interests   []string   `json:"interests,omitempty" binding:"omitempty,max=10"`
}

// UpdateRoomRequest represents a room update request. Absent fields are left
// unchanged; blank name/description strings are also treated as absent.
// The start date only takes effect when an end date is sent with it.
type UpdateRoomRequest struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=500"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Interests   []string   `json:"interests,omitempty" binding:"omitempty,max=10"`
}

// PaginationRequest represents pagination parameters
type PaginationRequest struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

// Offset calculates the offset for database queries
func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// SearchRequest represents a search request
type SearchRequest struct {
	Query string `form:"q" binding:"required,min=1,max=100"`
	PaginationRequest
}
