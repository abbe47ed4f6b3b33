package services

import (
	"context"
	"time"

	"github.com/campus-board/announcements-service/internal/models"
	"github.com/campus-board/announcements-service/internal/repositories"
	"github.com/campus-board/announcements-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request types come from the validator package so the schema-validated
// contract is defined in exactly one place.
type LoginRequest = validator.LoginRequest
type PostSaveRequest = validator.PostSaveRequest

// LoginResult is the response of POST /api/user/login.
type LoginResult struct {
	Message   string            `json:"message"`
	Token     string            `json:"token"`
	User      models.PublicUser `json:"user"`
	IsNewUser bool              `json:"isNewUser"`
}

// PostListResponse bundles the filtered feed with the facet values that
// populate the filter controls.
type PostListResponse struct {
	Posts       []*models.Post `json:"posts"`
	Tags        []string       `json:"tags"`
	Departments []string       `json:"departments"`
}

// PostSummary is the minimal shape returned by write operations.
type PostSummary struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// PostWriteResponse is the response of post create/update.
type PostWriteResponse struct {
	Success bool        `json:"success"`
	Post    PostSummary `json:"post"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// LoginOrRegister logs in an existing account or implicitly
	// registers a new one with role USER.
	LoginOrRegister(ctx context.Context, req *LoginRequest) (*LoginResult, error)

	// CurrentUser resolves a bearer token to its account.
	CurrentUser(ctx context.Context, token string) (*models.PublicUser, error)
}

type PostService interface {
	Create(ctx context.Context, req *PostSaveRequest) (*PostWriteResponse, error)
	Update(ctx context.Context, req *PostSaveRequest) (*PostWriteResponse, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// List applies the Filter Engine and the Visibility Policy for the
	// given viewer role, and returns facet values alongside.
	List(ctx context.Context, filters repositories.PostFilters, viewer models.UserRole) (*PostListResponse, error)
}

type ExportService interface {
	// ExportPosts renders the full post table as an xlsx workbook.
	ExportPosts(ctx context.Context) ([]byte, error)
}

// ServiceManager aggregates service instances and their lifecycle.
type ServiceManager interface {
	Auth() AuthService
	Post() PostService
	Export() ExportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
