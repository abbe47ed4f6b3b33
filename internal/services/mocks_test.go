package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campus-board/announcements-service/internal/models"
	"github.com/campus-board/announcements-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests.
type mockRepository struct {
	posts *mockPostRepository
	users *mockUserRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		posts: &mockPostRepository{byID: make(map[string]*models.Post)},
		users: &mockUserRepository{byID: make(map[string]*models.User)},
	}
}

func (m *mockRepository) Post() repositories.PostRepository { return m.posts }
func (m *mockRepository) User() repositories.UserRepository { return m.users }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

type mockPostRepository struct {
	mu    sync.Mutex
	byID  map[string]*models.Post
	clock time.Time
}

func (m *mockPostRepository) nextTime() time.Time {
	if m.clock.IsZero() {
		m.clock = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockPostRepository) Create(ctx context.Context, tx *gorm.DB, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := m.nextTime()
	post.CreatedAt = now
	post.UpdatedAt = now
	clone := *post
	m.byID[post.ID] = &clone
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *post
	return &clone, nil
}

func (m *mockPostRepository) Update(ctx context.Context, tx *gorm.DB, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[post.ID]; !ok {
		return repositories.ErrNotFound
	}
	post.UpdatedAt = m.nextTime()
	clone := *post
	m.byID[post.ID] = &clone
	return nil
}

func (m *mockPostRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockPostRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.PostFilters) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Post, 0, len(m.byID))
	for _, post := range m.byID {
		if matchesFilters(post, filters) {
			clone := *post
			out = append(out, &clone)
		}
	}
	// Newest first.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

// matchesFilters mirrors the SQL the real repository generates: AND across
// categories, OR within the search and CGPA groups.
func matchesFilters(post *models.Post, filters repositories.PostFilters) bool {
	if filters.SearchTerm != nil && *filters.SearchTerm != "" {
		term := strings.ToLower(*filters.SearchTerm)
		excerpt := ""
		if post.Excerpt != nil {
			excerpt = *post.Excerpt
		}
		if !strings.Contains(strings.ToLower(post.Title), term) &&
			!strings.Contains(strings.ToLower(post.Content), term) &&
			!strings.Contains(strings.ToLower(excerpt), term) {
			return false
		}
	}
	if filters.Department != nil && *filters.Department != "" {
		if post.Department == nil || *post.Department != *filters.Department {
			return false
		}
	}
	if filters.Tag != nil && *filters.Tag != "" {
		found := false
		for _, tag := range post.Tags {
			if tag == *filters.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.MinCGPA != nil {
		if post.CGPA != nil && *post.CGPA > *filters.MinCGPA {
			return false
		}
	}
	return true
}

func (m *mockPostRepository) DistinctTags(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, post := range m.byID {
		for _, tag := range post.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func (m *mockPostRepository) DistinctDepartments(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	departments := make([]string, 0)
	for _, post := range m.byID {
		if post.Department == nil {
			continue
		}
		if _, dup := seen[*post.Department]; dup {
			continue
		}
		seen[*post.Department] = struct{}{}
		departments = append(departments, *post.Department)
	}
	return departments, nil
}

type mockUserRepository struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func (m *mockUserRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.byID[user.ID] = &clone
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byID {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func (m *mockUserRepository) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}
