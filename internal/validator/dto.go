package validator

import "time"

// LoginRequest is the body of POST /api/user/login. The endpoint logs in
// an existing account or registers a new one with role USER.
type LoginRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=1,max=200"`
	Name     *string `json:"name" validate:"omitempty,max=100"`
}

// PostSaveRequest is the body of POST and PUT /api/posts/create.
// ID is required for updates only; the handler enforces that.
type PostSaveRequest struct {
	ID              *string    `json:"id" validate:"omitempty,max=255"`
	Title           string     `json:"title" validate:"required,max=300"`
	Content         string     `json:"content"`
	Excerpt         *string    `json:"excerpt"`
	Tags            []string   `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Department      *string    `json:"department" validate:"omitempty,max=200"`
	CGPA            *float64   `json:"CGPA" validate:"omitempty,min=0,max=10"`
	LastSubmittedAt *time.Time `json:"LastSubmittedAt"`
	IsDraft         bool       `json:"isDraft"`
}

// PostDeleteRequest is the body of DELETE /api/posts/delete.
type PostDeleteRequest struct {
	ID string `json:"id" validate:"required,max=255"`
}
