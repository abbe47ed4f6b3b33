package postgres

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campus-board/announcements-service/internal/cache"
	"github.com/campus-board/announcements-service/internal/models"
	"github.com/campus-board/announcements-service/internal/repositories"
)

const (
	facetKeyTags        = "tags"
	facetKeyDepartments = "departments"
)

type postRepository struct {
	db          *gorm.DB
	cacheHelper *cache.CacheHelper
}

func NewPostPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.PostRepository {
	return &postRepository{
		db:          db,
		cacheHelper: cache.NewCacheHelper(redisClient, cache.FacetCacheConfig.Prefix),
	}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *postRepository) Create(ctx context.Context, tx *gorm.DB, post *models.Post) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return handleDBError(err, "create post")
	}
	r.invalidateFacets(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Post, error) {
	db := r.getDB(tx)
	var post models.Post

	if err := db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, handleDBError(err, "get post by id")
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, tx *gorm.DB, post *models.Post) error {
	db := r.getDB(tx)
	// Full-record replace, not a partial patch.
	if err := db.WithContext(ctx).Save(post).Error; err != nil {
		return handleDBError(err, "update post")
	}
	r.invalidateFacets(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete post")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	r.invalidateFacets(ctx)
	return nil
}

// ===== QUERY OPERATIONS =====

// List translates the filter criteria into a single query, newest first.
// Filter categories combine with AND; the search and CGPA criteria are each
// one parenthesized OR-group so the nesting survives composition.
func (r *postRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.PostFilters) ([]*models.Post, error) {
	db := r.getDB(tx)
	var posts []*models.Post

	query := db.WithContext(ctx).Model(&models.Post{})
	query = applyPostFilters(query, filters)

	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, handleDBError(err, "list posts")
	}
	return posts, nil
}

func applyPostFilters(query *gorm.DB, filters repositories.PostFilters) *gorm.DB {
	if filters.SearchTerm != nil && *filters.SearchTerm != "" {
		pattern := "%" + *filters.SearchTerm + "%"
		query = query.Where(
			"(title ILIKE ? OR content ILIKE ? OR excerpt ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if filters.Department != nil && *filters.Department != "" {
		query = query.Where("department = ?", *filters.Department)
	}
	if filters.Tag != nil && *filters.Tag != "" {
		// jsonb containment: tags @> '["<tag>"]'
		query = query.Where("tags @> ?", datatypes.JSONSlice[string]{*filters.Tag})
	}
	if filters.MinCGPA != nil {
		// A nil threshold passes unconditionally; otherwise the post's
		// bar must be one the caller clears.
		query = query.Where("(cgpa IS NULL OR cgpa <= ?)", *filters.MinCGPA)
	}
	return query
}

// ===== FACETS =====

func (r *postRepository) DistinctTags(ctx context.Context) ([]string, error) {
	var cached []string
	if err := r.cacheHelper.Get(ctx, facetKeyTags, &cached); err == nil {
		return cached, nil
	}

	var rows []datatypes.JSONSlice[string]
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Pluck("tags", &rows).Error; err != nil {
		return nil, handleDBError(err, "collect post tags")
	}

	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, row := range rows {
		for _, tag := range row {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	_ = r.cacheHelper.Set(ctx, facetKeyTags, tags, cache.FacetCacheConfig.TTL)
	return tags, nil
}

func (r *postRepository) DistinctDepartments(ctx context.Context) ([]string, error) {
	var cached []string
	if err := r.cacheHelper.Get(ctx, facetKeyDepartments, &cached); err == nil {
		return cached, nil
	}

	var departments []string
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("department IS NOT NULL").
		Distinct().
		Pluck("department", &departments).Error; err != nil {
		return nil, handleDBError(err, "collect post departments")
	}

	_ = r.cacheHelper.Set(ctx, facetKeyDepartments, departments, cache.FacetCacheConfig.TTL)
	return departments, nil
}

func (r *postRepository) invalidateFacets(ctx context.Context) {
	_ = r.cacheHelper.Delete(ctx, facetKeyTags, facetKeyDepartments)
}

func (r *postRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
