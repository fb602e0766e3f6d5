package service

import (
	"context"
	"strings"

	"quadside/internal/cache"
	"quadside/internal/models"
	"quadside/internal/repository"

	"github.com/google/uuid"
)

// ReelService manages short video content. Reels share the engagement model
// with posts but carry their own capability set (shares instead of reposts).
type ReelService struct {
	contentRepo repository.ContentRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// CreateReelInput is the payload for publishing a reel.
type CreateReelInput struct {
	UserID          uint
	Caption         string
	VideoURL        string
	ThumbnailURL    string
	DurationSeconds float64
}

// NewReelService creates a ReelService. isAdmin may be nil.
func NewReelService(
	contentRepo repository.ContentRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ReelService {
	return &ReelService{contentRepo: contentRepo, isAdmin: isAdmin}
}

func (s *ReelService) CreateReel(ctx context.Context, in CreateReelInput) (*models.Reel, error) {
	const maxCaptionLen = 2200

	if strings.TrimSpace(in.VideoURL) == "" {
		return nil, models.NewValidationError("video_url is required")
	}
	if len(in.Caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2200 characters)")
	}
	if in.DurationSeconds < 0 {
		return nil, models.NewValidationError("duration_seconds cannot be negative")
	}

	reel := &models.Reel{
		ShareSlug:       uuid.NewString(),
		Caption:         strings.TrimSpace(in.Caption),
		VideoURL:        in.VideoURL,
		ThumbnailURL:    in.ThumbnailURL,
		DurationSeconds: in.DurationSeconds,
		UserID:          in.UserID,
	}
	if err := s.contentRepo.CreateReel(ctx, reel); err != nil {
		return nil, err
	}
	return s.contentRepo.GetReel(ctx, reel.ID, in.UserID)
}

func (s *ReelService) GetReel(ctx context.Context, id uint, currentUserID uint) (*models.Reel, error) {
	return s.contentRepo.GetReel(ctx, id, currentUserID)
}

// GetReelBySlug resolves a public share link to its reel.
func (s *ReelService) GetReelBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Reel, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, models.NewValidationError("Share slug is required")
	}
	return s.contentRepo.GetReelBySlug(ctx, slug, currentUserID)
}

func (s *ReelService) ListReels(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Reel, error) {
	if currentUserID == 0 && offset == 0 && limit <= 20 {
		var reels []*models.Reel
		err := cache.Aside(ctx, cache.ReelsListKey, &reels, cache.ListTTL, func() error {
			var fetchErr error
			reels, fetchErr = s.contentRepo.ListReels(ctx, limit, offset, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return reels, nil
	}
	return s.contentRepo.ListReels(ctx, limit, offset, currentUserID)
}

func (s *ReelService) DeleteReel(ctx context.Context, userID, reelID uint) error {
	reel, err := s.contentRepo.GetReel(ctx, reelID, userID)
	if err != nil {
		return err
	}

	if reel.UserID != userID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own reels")
		}
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own reels")
		}
	}

	return s.contentRepo.DeleteReel(ctx, reelID)
}
