package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post is a departmental announcement. CGPA and LastSubmittedAt are
// optional eligibility metadata: a nil CGPA means no threshold, a nil
// LastSubmittedAt means the post never expires.
type Post struct {
	ID      string  `json:"id" gorm:"primaryKey;size:255"`
	Title   string  `json:"title" gorm:"not null;size:300"`
	Content string  `json:"content" gorm:"type:text;not null"`
	Excerpt *string `json:"excerpt" gorm:"type:text"`

	Tags       datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb"`
	Department *string                     `json:"department" gorm:"index;size:200"`

	// Minimum-CGPA eligibility threshold. The sentinel value 0 is
	// normalized to nil before persistence.
	CGPA *float64 `json:"CGPA" gorm:"column:cgpa"`

	// Submission deadline. Non-admin callers only see posts whose
	// deadline is nil or strictly in the future.
	LastSubmittedAt *time.Time `json:"LastSubmittedAt" gorm:"column:last_submitted_at"`

	IsDraft bool `json:"isDraft" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
