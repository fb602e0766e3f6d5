package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quadside/internal/models"
	"quadside/internal/repository"
	"quadside/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockContentRepository is a mock of the ContentRepository interface
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) CreatePost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockContentRepository) CreateReel(ctx context.Context, reel *models.Reel) error {
	args := m.Called(ctx, reel)
	return args.Error(0)
}

func (m *MockContentRepository) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockContentRepository) GetReel(ctx context.Context, id uint, currentUserID uint) (*models.Reel, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reel), args.Error(1)
}

func (m *MockContentRepository) GetReelBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Reel, error) {
	args := m.Called(ctx, slug, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reel), args.Error(1)
}

func (m *MockContentRepository) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockContentRepository) ListReels(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Reel, error) {
	args := m.Called(ctx, limit, offset, currentUserID)
	return args.Get(0).([]*models.Reel), args.Error(1)
}

func (m *MockContentRepository) ListComments(ctx context.Context, t models.ContentType, id uint, limit, offset int) ([]*models.Comment, error) {
	args := m.Called(ctx, t, id, limit, offset)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockContentRepository) LoadState(ctx context.Context, t models.ContentType, id uint) (*repository.Snapshot, error) {
	args := m.Called(ctx, t, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Snapshot), args.Error(1)
}

func (m *MockContentRepository) SaveState(ctx context.Context, snap *repository.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockContentRepository) DeletePost(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContentRepository) DeleteReel(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// authedApp returns a fiber app that injects the given user ID into locals,
// matching what AuthRequired does after token validation.
func authedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	return app
}

func TestCreatePostHandler(t *testing.T) {
	mockRepo := new(MockContentRepository)
	s := &Server{postService: service.NewPostService(mockRepo, nil)}

	app := authedApp(1)
	app.Post("/posts", s.CreatePost)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"content": "First day at the quad"},
			mockSetup: func() {
				mockRepo.On("CreatePost", mock.Anything, mock.Anything).Return(nil)
				mockRepo.On("GetPost", mock.Anything, mock.Anything, uint(1)).
					Return(&models.Post{ID: 1, Content: "First day at the quad", UserID: 1}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing Content",
			body:           map[string]string{"content": "   "},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestTogglePostLike_ResponseShape(t *testing.T) {
	mockRepo := new(MockContentRepository)
	s := &Server{engagementService: service.NewEngagementService(mockRepo, nil)}

	mockRepo.On("LoadState", mock.Anything, models.ContentTypePost, uint(5)).
		Return(&repository.Snapshot{Type: models.ContentTypePost, ID: 5, OwnerID: 2}, nil)
	mockRepo.On("SaveState", mock.Anything, mock.Anything).Return(nil)

	app := authedApp(1)
	app.Post("/posts/:id/like", s.TogglePostLike)

	req := httptest.NewRequest(http.MethodPost, "/posts/5/like", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["isLiked"])
	assert.Equal(t, float64(1), body["likes"])
	require.Contains(t, body, "analytics")

	analytics := body["analytics"].(map[string]any)
	assert.Equal(t, float64(1), analytics["total_likes"])
}

func TestTogglePostRepost_NotFound(t *testing.T) {
	mockRepo := new(MockContentRepository)
	s := &Server{engagementService: service.NewEngagementService(mockRepo, nil)}

	mockRepo.On("LoadState", mock.Anything, models.ContentTypePost, uint(99)).
		Return(nil, models.NewNotFoundError("Post", uint(99)))

	app := authedApp(1)
	app.Post("/posts/:id/repost", s.TogglePostRepost)

	req := httptest.NewRequest(http.MethodPost, "/posts/99/repost", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecordPostView_AnonymousCounts(t *testing.T) {
	mockRepo := new(MockContentRepository)
	s := &Server{engagementService: service.NewEngagementService(mockRepo, nil)}

	mockRepo.On("LoadState", mock.Anything, models.ContentTypePost, uint(5)).
		Return(&repository.Snapshot{Type: models.ContentTypePost, ID: 5, OwnerID: 2}, nil)
	mockRepo.On("SaveState", mock.Anything, mock.Anything).Return(nil)

	// No auth middleware: the view comes from an anonymous visitor.
	app := fiber.New()
	app.Post("/posts/:id/view", s.RecordPostView)

	req := httptest.NewRequest(http.MethodPost, "/posts/5/view", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["counted"])
}

func TestGetPosts_Anonymous(t *testing.T) {
	mockRepo := new(MockContentRepository)
	s := &Server{postService: service.NewPostService(mockRepo, nil)}

	mockRepo.On("ListPosts", mock.Anything, 5, 0, uint(0)).
		Return([]*models.Post{{ID: 1, Content: "hello"}}, nil)

	app := fiber.New()
	app.Get("/posts", s.GetPosts)

	req := httptest.NewRequest(http.MethodGet, "/posts?limit=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string][]models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body["posts"], 1)
	assert.Equal(t, "hello", body["posts"][0].Content)
}
