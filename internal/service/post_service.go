package service

import (
	"context"
	"strings"

	"quadside/internal/cache"
	"quadside/internal/models"
	"quadside/internal/repository"
)

// PostService manages feed posts. Engagement mutations (likes, saves,
// reposts, comments) go through EngagementService.
type PostService struct {
	contentRepo repository.ContentRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// CreatePostInput is the payload for creating a feed post.
type CreatePostInput struct {
	UserID   uint
	Content  string
	ImageURL string
}

// NewPostService creates a PostService. isAdmin may be nil.
func NewPostService(
	contentRepo repository.ContentRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{contentRepo: contentRepo, isAdmin: isAdmin}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxContentLen = 10000

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	post := &models.Post{
		Content:  content,
		ImageURL: in.ImageURL,
		UserID:   in.UserID,
	}
	if err := s.contentRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.contentRepo.GetPost(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.contentRepo.GetPost(ctx, id, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	// The anonymous first page is the hottest read; serve it cache-aside.
	if currentUserID == 0 && offset == 0 && limit <= 20 {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.FeedListKey, &posts, cache.ListTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.contentRepo.ListPosts(ctx, limit, offset, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return posts, nil
	}
	return s.contentRepo.ListPosts(ctx, limit, offset, currentUserID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.contentRepo.GetPost(ctx, postID, userID)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.contentRepo.DeletePost(ctx, postID)
}
