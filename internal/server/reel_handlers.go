package server

import (
	"quadside/internal/models"
	"quadside/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReel handles POST /api/reels
func (s *Server) CreateReel(c *fiber.Ctx) error {
	var req struct {
		Caption         string  `json:"caption"`
		VideoURL        string  `json:"video_url"`
		ThumbnailURL    string  `json:"thumbnail_url"`
		DurationSeconds float64 `json:"duration_seconds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reel, err := s.reelService.CreateReel(c.Context(), service.CreateReelInput{
		UserID:          currentUserID(c),
		Caption:         req.Caption,
		VideoURL:        req.VideoURL,
		ThumbnailURL:    req.ThumbnailURL,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(reel)
}

// GetReels handles GET /api/reels
func (s *Server) GetReels(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	reels, err := s.reelService.ListReels(c.Context(), p.Limit, p.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"reels": reels})
}

// GetReel handles GET /api/reels/:id
func (s *Server) GetReel(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	reel, err := s.reelService.GetReel(c.Context(), id, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(reel)
}

// GetSharedReel handles GET /api/reels/shared/:slug. Share links resolve by
// slug so the numeric ID never leaks into shared URLs.
func (s *Server) GetSharedReel(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid share slug"))
	}
	userID, _ := s.optionalUserID(c)

	reel, err := s.reelService.GetReelBySlug(c.Context(), slug, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(reel)
}

// GetReelComments handles GET /api/reels/:id/comments
func (s *Server) GetReelComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	comments, err := s.engagementService.Comments(c.Context(), models.ContentTypeReel, id, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// ToggleReelLike handles POST /api/reels/:id/like
func (s *Server) ToggleReelLike(c *fiber.Ctx) error {
	return s.toggleReel(c, models.InteractionLike, "isLiked", "likes")
}

// ToggleReelSave handles POST /api/reels/:id/save
func (s *Server) ToggleReelSave(c *fiber.Ctx) error {
	return s.toggleReel(c, models.InteractionSave, "isSaved", "saves")
}

func (s *Server) toggleReel(c *fiber.Ctx, kind models.InteractionKind, flagKey, countKey string) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	out, err := s.engagementService.Toggle(c.Context(), service.ToggleInput{
		UserID:      currentUserID(c),
		ContentType: models.ContentTypeReel,
		ContentID:   id,
		Kind:        kind,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		flagKey:     out.Active,
		countKey:    out.Count,
		"analytics": out.Analytics,
	})
}

// RecordReelView handles POST /api/reels/:id/view. The optional body carries
// how long the viewer watched, which feeds the average watch time.
func (s *Server) RecordReelView(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		WatchSeconds float64 `json:"watch_seconds"`
	}
	// A missing or empty body means a zero-length watch.
	_ = c.BodyParser(&req)
	if req.WatchSeconds < 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("watch_seconds cannot be negative"))
	}

	out, err := s.engagementService.RecordView(c.Context(), service.ViewInput{
		UserID:       currentUserID(c),
		ContentType:  models.ContentTypeReel,
		ContentID:    id,
		WatchSeconds: req.WatchSeconds,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"counted":   out.Counted,
		"analytics": out.Analytics,
	})
}

// ShareReel handles POST /api/reels/:id/share
func (s *Server) ShareReel(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	out, err := s.engagementService.RecordShare(c.Context(), models.ContentTypeReel, id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	reel, err := s.reelService.GetReel(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"shareUrl":  "/reels/shared/" + reel.ShareSlug,
		"shares":    out.Shares,
		"analytics": out.Analytics,
	})
}

// CreateReelComment handles POST /api/reels/:id/comments
func (s *Server) CreateReelComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	out, err := s.engagementService.AddComment(c.Context(), service.CommentInput{
		UserID:      currentUserID(c),
		ContentType: models.ContentTypeReel,
		ContentID:   id,
		Content:     req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"comment":   out.Comment,
		"analytics": out.Analytics,
	})
}

// GetReelAnalytics handles GET /api/reels/:id/analytics (owner only).
func (s *Server) GetReelAnalytics(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	analytics, err := s.engagementService.Analytics(c.Context(), models.ContentTypeReel, id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"analytics": analytics})
}

// DeleteReel handles DELETE /api/reels/:id
func (s *Server) DeleteReel(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reelService.DeleteReel(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"success": true})
}
