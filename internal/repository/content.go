package repository

import (
	"context"
	"errors"

	"quadside/internal/cache"
	"quadside/internal/engagement"
	"quadside/internal/models"
	"quadside/internal/observability"

	"gorm.io/gorm"
)

// Snapshot couples a content item's identity with its full engagement state.
// It is the unit the engagement service loads, mutates and persists.
type Snapshot struct {
	Type    models.ContentType
	ID      uint
	OwnerID uint
	State   engagement.State
}

// ContentRepository persists posts, reels and their engagement state.
type ContentRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	CreateReel(ctx context.Context, reel *models.Reel) error
	GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetReel(ctx context.Context, id uint, currentUserID uint) (*models.Reel, error)
	GetReelBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Reel, error)
	ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListReels(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Reel, error)
	ListComments(ctx context.Context, t models.ContentType, id uint, limit, offset int) ([]*models.Comment, error)
	LoadState(ctx context.Context, t models.ContentType, id uint) (*Snapshot, error)
	SaveState(ctx context.Context, snap *Snapshot) error
	DeletePost(ctx context.Context, id uint) error
	DeleteReel(ctx context.Context, id uint) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository returns a new ContentRepository implementation.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.FeedListKey)
	return nil
}

func (r *contentRepository) CreateReel(ctx context.Context, reel *models.Reel) error {
	if err := r.db.WithContext(ctx).Create(reel).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.ReelsListKey)
	return nil
}

// applyInteractionFlags adds EXISTS subqueries so Liked/Saved/Reposted come
// back in the same query as the row itself.
func applyInteractionFlags(db *gorm.DB, table string, t models.ContentType, currentUserID uint) *gorm.DB {
	if currentUserID == 0 {
		return db.Select(table + ".*, false as liked, false as saved, false as reposted")
	}
	sub := "EXISTS(SELECT 1 FROM interactions WHERE interactions.content_type = ? AND interactions.content_id = " +
		table + ".id AND interactions.user_id = ? AND interactions.kind = ?)"
	return db.Select(
		table+".*, "+sub+" as liked, "+sub+" as saved, "+sub+" as reposted",
		t, currentUserID, models.InteractionLike,
		t, currentUserID, models.InteractionSave,
		t, currentUserID, models.InteractionRepost,
	)
}

func (r *contentRepository) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	// Anonymous reads have no per-user flags, so the shared cache entry is safe.
	if currentUserID == 0 {
		err := cache.Aside(ctx, cache.PostKey(id), &post, cache.ContentTTL, func() error {
			return r.fetchPost(ctx, id, 0, &post)
		})
		if err != nil {
			return nil, err
		}
		return &post, nil
	}

	if err := r.fetchPost(ctx, id, currentUserID, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *contentRepository) fetchPost(ctx context.Context, id uint, currentUserID uint, post *models.Post) error {
	err := applyInteractionFlags(r.db.WithContext(ctx), "posts", models.ContentTypePost, currentUserID).
		Preload("User").
		First(post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contentRepository) GetReel(ctx context.Context, id uint, currentUserID uint) (*models.Reel, error) {
	var reel models.Reel

	if currentUserID == 0 {
		err := cache.Aside(ctx, cache.ReelKey(id), &reel, cache.ContentTTL, func() error {
			return r.fetchReel(ctx, "reels.id = ?", id, 0, &reel)
		})
		if err != nil {
			return nil, err
		}
		return &reel, nil
	}

	if err := r.fetchReel(ctx, "reels.id = ?", id, currentUserID, &reel); err != nil {
		return nil, err
	}
	return &reel, nil
}

func (r *contentRepository) GetReelBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Reel, error) {
	var reel models.Reel
	if err := r.fetchReel(ctx, "reels.share_slug = ?", slug, currentUserID, &reel); err != nil {
		return nil, err
	}
	return &reel, nil
}

func (r *contentRepository) fetchReel(ctx context.Context, cond string, arg interface{}, currentUserID uint, reel *models.Reel) error {
	err := applyInteractionFlags(r.db.WithContext(ctx), "reels", models.ContentTypeReel, currentUserID).
		Preload("User").
		Where(cond, arg).
		First(reel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Reel", arg)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contentRepository) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := applyInteractionFlags(r.db.WithContext(ctx), "posts", models.ContentTypePost, currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *contentRepository) ListReels(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Reel, error) {
	var reels []*models.Reel
	err := applyInteractionFlags(r.db.WithContext(ctx), "reels", models.ContentTypeReel, currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reels).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reels, nil
}

func (r *contentRepository) ListComments(ctx context.Context, t models.ContentType, id uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("content_type = ? AND content_id = ?", t, id).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// LoadState assembles the full engagement state for one content item:
// interaction sets, ordered comments and the persisted analytics aggregate.
func (r *contentRepository) LoadState(ctx context.Context, t models.ContentType, id uint) (*Snapshot, error) {
	defer observability.TrackQuery("load_state", string(t))()
	snap := &Snapshot{Type: t, ID: id}

	switch t {
	case models.ContentTypeReel:
		var reel models.Reel
		if err := r.db.WithContext(ctx).First(&reel, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Reel", id)
			}
			return nil, models.NewInternalError(err)
		}
		snap.OwnerID = reel.UserID
		snap.State.Analytics = reel.Analytics
	default:
		var post models.Post
		if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Post", id)
			}
			return nil, models.NewInternalError(err)
		}
		snap.OwnerID = post.UserID
		snap.State.Analytics = post.Analytics
	}

	var interactions []models.Interaction
	err := r.db.WithContext(ctx).
		Where("content_type = ? AND content_id = ?", t, id).
		Order("created_at ASC, id ASC").
		Find(&interactions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, in := range interactions {
		entry := engagement.Entry{UserID: in.UserID, CreatedAt: in.CreatedAt}
		switch in.Kind {
		case models.InteractionLike:
			snap.State.Likes = append(snap.State.Likes, entry)
		case models.InteractionSave:
			snap.State.Saves = append(snap.State.Saves, entry)
		case models.InteractionRepost:
			snap.State.Reposts = append(snap.State.Reposts, entry)
		}
	}

	var comments []models.Comment
	err = r.db.WithContext(ctx).
		Where("content_type = ? AND content_id = ?", t, id).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, c := range comments {
		snap.State.Comments = append(snap.State.Comments, engagement.Comment{
			ID:        c.ID,
			UserID:    c.UserID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}

	return snap, nil
}

// SaveState writes the snapshot back in one transaction: the interaction
// sets are rewritten wholesale, comments without an ID are inserted (their
// IDs are filled in on the snapshot), and the analytics columns are updated.
//
// There is deliberately no optimistic locking here. Two requests that load
// the same item concurrently will race and the second save wins; for
// engagement counters this weak consistency is acceptable and the counters
// self-heal on the next mutation because they are recomputed from set
// cardinality rather than incremented blindly.
func (r *contentRepository) SaveState(ctx context.Context, snap *Snapshot) error {
	defer observability.TrackQuery("save_state", string(snap.Type))()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("content_type = ? AND content_id = ?", snap.Type, snap.ID).
			Delete(&models.Interaction{}).Error; err != nil {
			return err
		}

		rows := interactionRows(snap)
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		for i := range snap.State.Comments {
			if snap.State.Comments[i].ID != 0 {
				continue
			}
			c := models.Comment{
				Content:     snap.State.Comments[i].Content,
				UserID:      snap.State.Comments[i].UserID,
				ContentType: snap.Type,
				ContentID:   snap.ID,
				CreatedAt:   snap.State.Comments[i].CreatedAt,
			}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			snap.State.Comments[i].ID = c.ID
		}

		return updateAnalytics(tx, snap)
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	if snap.Type == models.ContentTypeReel {
		cache.InvalidateReel(ctx, snap.ID)
	} else {
		cache.InvalidatePost(ctx, snap.ID)
	}
	return nil
}

func interactionRows(snap *Snapshot) []models.Interaction {
	rows := make([]models.Interaction, 0, len(snap.State.Likes)+len(snap.State.Saves)+len(snap.State.Reposts))
	appendSet := func(entries []engagement.Entry, kind models.InteractionKind) {
		for _, e := range entries {
			rows = append(rows, models.Interaction{
				UserID:      e.UserID,
				ContentType: snap.Type,
				ContentID:   snap.ID,
				Kind:        kind,
				CreatedAt:   e.CreatedAt,
			})
		}
	}
	appendSet(snap.State.Likes, models.InteractionLike)
	appendSet(snap.State.Saves, models.InteractionSave)
	appendSet(snap.State.Reposts, models.InteractionRepost)
	return rows
}

func updateAnalytics(tx *gorm.DB, snap *Snapshot) error {
	a := snap.State.Analytics
	cols := map[string]interface{}{
		"analytics_total_views":        a.TotalViews,
		"analytics_total_likes":        a.TotalLikes,
		"analytics_total_comments":     a.TotalComments,
		"analytics_total_saves":        a.TotalSaves,
		"analytics_total_reposts":      a.TotalReposts,
		"analytics_total_shares":       a.TotalShares,
		"analytics_average_watch_time": a.AverageWatchTime,
		"analytics_engagement_rate":    a.EngagementRate,
		"analytics_last_updated":       a.LastUpdated,
	}
	if snap.Type == models.ContentTypeReel {
		return tx.Model(&models.Reel{}).Where("id = ?", snap.ID).Updates(cols).Error
	}
	return tx.Model(&models.Post{}).Where("id = ?", snap.ID).Updates(cols).Error
}

func (r *contentRepository) DeletePost(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *contentRepository) DeleteReel(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Reel{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateReel(ctx, id)
	return nil
}
