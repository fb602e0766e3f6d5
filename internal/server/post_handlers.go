package server

import (
	"quadside/internal/models"
	"quadside/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts. Works with or without authentication;
// authenticated requests get per-user liked/saved/reposted flags.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	posts, err := s.postService.ListPosts(c.Context(), p.Limit, p.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(post)
}

// GetPostComments handles GET /api/posts/:id/comments
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	comments, err := s.engagementService.Comments(c.Context(), models.ContentTypePost, id, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// TogglePostLike handles POST /api/posts/:id/like
func (s *Server) TogglePostLike(c *fiber.Ctx) error {
	return s.togglePost(c, models.InteractionLike, "isLiked", "likes")
}

// TogglePostSave handles POST /api/posts/:id/save
func (s *Server) TogglePostSave(c *fiber.Ctx) error {
	return s.togglePost(c, models.InteractionSave, "isSaved", "saves")
}

// TogglePostRepost handles POST /api/posts/:id/repost
func (s *Server) TogglePostRepost(c *fiber.Ctx) error {
	return s.togglePost(c, models.InteractionRepost, "isReposted", "reposts")
}

func (s *Server) togglePost(c *fiber.Ctx, kind models.InteractionKind, flagKey, countKey string) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	out, err := s.engagementService.Toggle(c.Context(), service.ToggleInput{
		UserID:      currentUserID(c),
		ContentType: models.ContentTypePost,
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

// RecordPostView handles POST /api/posts/:id/view
func (s *Server) RecordPostView(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	out, err := s.engagementService.RecordView(c.Context(), service.ViewInput{
		UserID:      currentUserID(c),
		ContentType: models.ContentTypePost,
		ContentID:   id,
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

// CreatePostComment handles POST /api/posts/:id/comments
func (s *Server) CreatePostComment(c *fiber.Ctx) error {
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
		ContentType: models.ContentTypePost,
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

// GetPostAnalytics handles GET /api/posts/:id/analytics (owner only).
func (s *Server) GetPostAnalytics(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	analytics, err := s.engagementService.Analytics(c.Context(), models.ContentTypePost, id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"analytics": analytics})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"success": true})
}
