package services

import (
	"time"

	"github.com/campus-board/announcements-service/internal/models"
)

// VisibleTo returns the subset of posts the caller may see. Admins see
// every post unchanged; anyone else (including anonymous callers) sees
// only posts whose deadline is absent or strictly in the future. The
// boundary is exclusive: a post whose deadline equals now is hidden.
//
// This is a pure post-query transform. Callers read now once per
// evaluation so independent checks within one request cannot flicker
// across the deadline boundary.
func VisibleTo(posts []*models.Post, role models.UserRole, now time.Time) []*models.Post {
	if role == models.RoleAdmin {
		return posts
	}

	visible := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if post.LastSubmittedAt == nil || post.LastSubmittedAt.After(now) {
			visible = append(visible, post)
		}
	}
	return visible
}
