package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/campus-board/announcements-service/internal/events"
	"github.com/campus-board/announcements-service/internal/models"
	"github.com/campus-board/announcements-service/internal/repositories"
	"github.com/campus-board/announcements-service/internal/validator"
)

type postService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewPostService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) PostService {
	return &postService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== WRITE OPERATIONS =====

func (s *postService) Create(ctx context.Context, req *PostSaveRequest) (*PostWriteResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := checkContentRule(req); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:           strings.TrimSpace(req.Title),
		Content:         req.Content,
		Excerpt:         normalizeExcerpt(req.Excerpt),
		Tags:            datatypes.NewJSONSlice(dedupeTags(req.Tags)),
		Department:      req.Department,
		CGPA:            normalizeCGPA(req.CGPA),
		LastSubmittedAt: req.LastSubmittedAt,
		IsDraft:         req.IsDraft,
	}

	if err := s.repo.Post().Create(ctx, nil, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("Post created", "post_id", post.ID, "title", post.Title)
	s.publishEvent(ctx, events.EventAnnouncementCreated, post)

	createdAt := post.CreatedAt
	return &PostWriteResponse{
		Success: true,
		Post: PostSummary{
			ID:        post.ID,
			Title:     post.Title,
			CreatedAt: &createdAt,
		},
	}, nil
}

// Update replaces the full record; there is no partial patch and no
// conflict detection (last write wins).
func (s *postService) Update(ctx context.Context, req *PostSaveRequest) (*PostWriteResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.ID == nil || strings.TrimSpace(*req.ID) == "" {
		return nil, ErrPostIDRequired
	}
	if err := checkContentRule(req); err != nil {
		return nil, err
	}

	post, err := s.repo.Post().GetByID(ctx, nil, *req.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Content = req.Content
	post.Excerpt = normalizeExcerpt(req.Excerpt)
	post.Tags = datatypes.NewJSONSlice(dedupeTags(req.Tags))
	post.Department = req.Department
	post.CGPA = normalizeCGPA(req.CGPA)
	post.LastSubmittedAt = req.LastSubmittedAt
	post.IsDraft = req.IsDraft

	if err := s.repo.Post().Update(ctx, nil, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.Info("Post updated", "post_id", post.ID)
	s.publishEvent(ctx, events.EventAnnouncementUpdated, post)

	updatedAt := post.UpdatedAt
	return &PostWriteResponse{
		Success: true,
		Post: PostSummary{
			ID:        post.ID,
			Title:     post.Title,
			UpdatedAt: &updatedAt,
		},
	}, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	post, err := s.repo.Post().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post: %w", err)
	}

	if err := s.repo.Post().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("Post deleted", "post_id", id)
	s.publishEvent(ctx, events.EventAnnouncementDeleted, post)
	return nil
}

// ===== READ OPERATIONS =====

func (s *postService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.Post().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, filters repositories.PostFilters, viewer models.UserRole) (*PostListResponse, error) {
	posts, err := s.repo.Post().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	// One read of the clock for the whole evaluation.
	now := time.Now()
	visible := VisibleTo(posts, viewer, now)

	tags, err := s.repo.Post().DistinctTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect tags: %w", err)
	}
	departments, err := s.repo.Post().DistinctDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect departments: %w", err)
	}

	return &PostListResponse{
		Posts:       visible,
		Tags:        tags,
		Departments: departments,
	}, nil
}

// ===== HELPERS =====

func (s *postService) publishEvent(ctx context.Context, eventType string, post *models.Post) {
	if s.publisher == nil {
		return
	}
	event := events.AnnouncementEvent{
		Type:       eventType,
		PostID:     post.ID,
		Title:      post.Title,
		Department: post.Department,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Events are best-effort; the write already succeeded.
		s.logger.Error("Failed to publish event", "type", eventType, "post_id", post.ID, "error", err)
	}
}

func checkContentRule(req *PostSaveRequest) error {
	if !req.IsDraft && strings.TrimSpace(req.Content) == "" {
		return ErrContentRequired
	}
	return nil
}

// dedupeTags suppresses duplicates while preserving first-seen order.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func normalizeExcerpt(excerpt *string) *string {
	if excerpt == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*excerpt)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeCGPA maps the sentinel zero to "no threshold".
func normalizeCGPA(cgpa *float64) *float64 {
	if cgpa == nil || *cgpa == 0 {
		return nil
	}
	return cgpa
}
