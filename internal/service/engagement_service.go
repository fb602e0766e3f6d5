// Package service contains the application's business logic layer.
package service

import (
	"context"
	"errors"
	"time"

	"quadside/internal/cache"
	"quadside/internal/engagement"
	"quadside/internal/models"
	"quadside/internal/observability"
	"quadside/internal/repository"
)

// Notifier publishes engagement events for other parts of the system
// (live counters, notification fan-out). Implementations must not block.
type Notifier interface {
	PublishEngagement(ctx context.Context, event EngagementEvent)
}

// EngagementEvent describes one engagement mutation on a content item.
type EngagementEvent struct {
	ContentType models.ContentType `json:"content_type"`
	ContentID   uint               `json:"content_id"`
	OwnerID     uint               `json:"owner_id"`
	ActorID     uint               `json:"actor_id"`
	Kind        string             `json:"kind"`
	Active      bool               `json:"active"`
	Count       int                `json:"count"`
}

// EngagementService runs every interaction mutation through the same cycle:
// load the content's engagement state, apply the pure aggregator for the
// content's capability set, persist the result. The cycle has no cross-writer
// locking; see ContentRepository.SaveState for the consistency trade-off.
type EngagementService struct {
	contentRepo repository.ContentRepository
	notifier    Notifier
	now         func() time.Time
}

// NewEngagementService creates an EngagementService. notifier may be nil.
func NewEngagementService(contentRepo repository.ContentRepository, notifier Notifier) *EngagementService {
	return &EngagementService{
		contentRepo: contentRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// ToggleInput identifies the user, content item and interaction set to flip.
type ToggleInput struct {
	UserID      uint
	ContentType models.ContentType
	ContentID   uint
	Kind        models.InteractionKind
}

// ToggleOutput reports the post-toggle membership state, the updated counter
// and the refreshed analytics aggregate.
type ToggleOutput struct {
	Active    bool
	Count     int
	Analytics models.Analytics
}

// Toggle flips the user's membership in one interaction set and persists the
// updated state.
func (s *EngagementService) Toggle(ctx context.Context, in ToggleInput) (*ToggleOutput, error) {
	if in.UserID == 0 {
		return nil, models.NewAuthenticationError("Authentication required")
	}

	snap, err := s.contentRepo.LoadState(ctx, in.ContentType, in.ContentID)
	if err != nil {
		return nil, err
	}

	agg := engagement.ForContentType(in.ContentType)
	next, result, err := agg.Toggle(snap.State, in.Kind, in.UserID, s.now())
	if err != nil {
		if errors.Is(err, engagement.ErrUnsupportedInteraction) {
			return nil, models.NewValidationError("This content type does not support that interaction")
		}
		return nil, models.NewInternalError(err)
	}

	snap.State = next
	if err := s.contentRepo.SaveState(ctx, snap); err != nil {
		return nil, err
	}

	observability.RecordEngagementEvent(string(in.ContentType), string(in.Kind))
	s.publish(ctx, EngagementEvent{
		ContentType: in.ContentType,
		ContentID:   in.ContentID,
		OwnerID:     snap.OwnerID,
		ActorID:     in.UserID,
		Kind:        string(in.Kind),
		Active:      result.Active,
		Count:       result.Count,
	})

	return &ToggleOutput{
		Active:    result.Active,
		Count:     result.Count,
		Analytics: snap.State.Analytics,
	}, nil
}

// CommentInput carries a new comment for a content item.
type CommentInput struct {
	UserID      uint
	ContentType models.ContentType
	ContentID   uint
	Content     string
}

// CommentOutput is the stored comment plus the refreshed analytics.
type CommentOutput struct {
	Comment   engagement.Comment
	Analytics models.Analytics
}

// AddComment appends a comment to the content's ordered comment sequence.
func (s *EngagementService) AddComment(ctx context.Context, in CommentInput) (*CommentOutput, error) {
	if in.UserID == 0 {
		return nil, models.NewAuthenticationError("Authentication required")
	}

	snap, err := s.contentRepo.LoadState(ctx, in.ContentType, in.ContentID)
	if err != nil {
		return nil, err
	}

	agg := engagement.ForContentType(in.ContentType)
	next, _, err := agg.AppendComment(snap.State, in.UserID, in.Content, s.now())
	if err != nil {
		if errors.Is(err, engagement.ErrEmptyComment) {
			return nil, models.NewValidationError("Comment content is required")
		}
		if errors.Is(err, engagement.ErrUnsupportedInteraction) {
			return nil, models.NewValidationError("This content type does not support comments")
		}
		return nil, models.NewInternalError(err)
	}

	snap.State = next
	if err := s.contentRepo.SaveState(ctx, snap); err != nil {
		return nil, err
	}

	// SaveState assigns the persisted comment ID to the appended entry.
	stored := snap.State.Comments[len(snap.State.Comments)-1]

	observability.RecordEngagementEvent(string(in.ContentType), "comment")
	s.publish(ctx, EngagementEvent{
		ContentType: in.ContentType,
		ContentID:   in.ContentID,
		OwnerID:     snap.OwnerID,
		ActorID:     in.UserID,
		Kind:        "comment",
		Active:      true,
		Count:       snap.State.Analytics.TotalComments,
	})

	return &CommentOutput{Comment: stored, Analytics: snap.State.Analytics}, nil
}

// ViewInput records one playback or impression of a content item. UserID may
// be zero for anonymous views; those are never deduplicated.
type ViewInput struct {
	UserID       uint
	ContentType  models.ContentType
	ContentID    uint
	WatchSeconds float64
}

// ViewOutput reports whether the view was counted and the analytics after.
type ViewOutput struct {
	Counted   bool
	Analytics models.Analytics
}

// RecordView counts a view once per user per dedupe window. Repeat views
// inside the window return the current analytics without mutating state.
func (s *EngagementService) RecordView(ctx context.Context, in ViewInput) (*ViewOutput, error) {
	snap, err := s.contentRepo.LoadState(ctx, in.ContentType, in.ContentID)
	if err != nil {
		return nil, err
	}

	deduped := in.UserID != 0
	if deduped && !cache.MarkViewed(ctx, string(in.ContentType), in.ContentID, in.UserID) {
		return &ViewOutput{Counted: false, Analytics: snap.State.Analytics}, nil
	}

	agg := engagement.ForContentType(in.ContentType)
	snap.State = agg.RecordView(snap.State, in.WatchSeconds, s.now())
	if err := s.contentRepo.SaveState(ctx, snap); err != nil {
		// The dedupe key was claimed before the save; release it so the view
		// is not silently lost for the whole window.
		if deduped {
			cache.UnmarkViewed(ctx, string(in.ContentType), in.ContentID, in.UserID)
		}
		return nil, err
	}

	observability.ViewsRecorded.WithLabelValues(string(in.ContentType)).Inc()
	return &ViewOutput{Counted: true, Analytics: snap.State.Analytics}, nil
}

// ShareOutput reports the share counter and analytics after a share.
type ShareOutput struct {
	Shares    int
	Analytics models.Analytics
}

// RecordShare increments the share counter for shareable content. Shares are
// counted per event, not per user, so no authentication is required.
func (s *EngagementService) RecordShare(ctx context.Context, t models.ContentType, id uint, actorID uint) (*ShareOutput, error) {
	snap, err := s.contentRepo.LoadState(ctx, t, id)
	if err != nil {
		return nil, err
	}

	agg := engagement.ForContentType(t)
	next, err := agg.RecordShare(snap.State, s.now())
	if err != nil {
		if errors.Is(err, engagement.ErrUnsupportedInteraction) {
			return nil, models.NewValidationError("This content type does not support shares")
		}
		return nil, models.NewInternalError(err)
	}

	snap.State = next
	if err := s.contentRepo.SaveState(ctx, snap); err != nil {
		return nil, err
	}

	observability.RecordEngagementEvent(string(t), "share")
	s.publish(ctx, EngagementEvent{
		ContentType: t,
		ContentID:   id,
		OwnerID:     snap.OwnerID,
		ActorID:     actorID,
		Kind:        "share",
		Active:      true,
		Count:       snap.State.Analytics.TotalShares,
	})

	return &ShareOutput{
		Shares:    snap.State.Analytics.TotalShares,
		Analytics: snap.State.Analytics,
	}, nil
}

// Analytics returns the analytics aggregate for a content item. Only the
// content owner may read it.
func (s *EngagementService) Analytics(ctx context.Context, t models.ContentType, id uint, requesterID uint) (*models.Analytics, error) {
	snap, err := s.contentRepo.LoadState(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if snap.OwnerID != requesterID {
		return nil, models.NewUnauthorizedError("Only the owner can view analytics")
	}
	a := snap.State.Analytics
	return &a, nil
}

// Comments returns the ordered comment page for a content item.
func (s *EngagementService) Comments(ctx context.Context, t models.ContentType, id uint, limit, offset int) ([]*models.Comment, error) {
	// Confirm the content exists so a bad ID is a 404, not an empty list.
	if _, err := s.contentRepo.LoadState(ctx, t, id); err != nil {
		return nil, err
	}
	return s.contentRepo.ListComments(ctx, t, id, limit, offset)
}

func (s *EngagementService) publish(ctx context.Context, event EngagementEvent) {
	if s.notifier != nil {
		s.notifier.PublishEngagement(ctx, event)
	}
}
