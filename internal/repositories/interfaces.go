package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-board/announcements-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// PostFilters is the sparse set of optional criteria the Filter Engine
// translates into a repository query. Filter categories compose with AND;
// the search and CGPA criteria each expand to an OR-group of their own.
type PostFilters struct {
	// SearchTerm matches case-insensitively across title, content, and
	// excerpt (any one match qualifies).
	SearchTerm *string `json:"search_term"`

	// Department is an exact match.
	Department *string `json:"department"`

	// Tag requires the post's tag list to contain this exact tag.
	Tag *string `json:"tag"`

	// MinCGPA is the caller's own CGPA: qualifying posts have no
	// threshold or a threshold the caller clears (threshold <= MinCGPA).
	MinCGPA *float64 `json:"min_cgpa"`
}

// ===== REPOSITORY INTERFACES =====

type PostRepository interface {
	Create(ctx context.Context, tx *gorm.DB, post *models.Post) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Post, error)
	Update(ctx context.Context, tx *gorm.DB, post *models.Post) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// List returns posts matching the filters, newest first.
	List(ctx context.Context, tx *gorm.DB, filters PostFilters) ([]*models.Post, error)

	// Facet values for populating filter controls.
	DistinctTags(ctx context.Context) ([]string, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	// GetByEmail compares case-insensitively.
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
}

// Repository aggregates all repository interfaces.
type Repository interface {
	Post() PostRepository
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
