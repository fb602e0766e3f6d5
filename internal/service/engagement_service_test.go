package service

import (
	"context"
	"errors"
	"testing"

	"quadside/internal/cache"
	"quadside/internal/engagement"
	"quadside/internal/models"
	"quadside/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contentRepoStub is a stub for repository.ContentRepository.
type contentRepoStub struct {
	createPostFn    func(context.Context, *models.Post) error
	createReelFn    func(context.Context, *models.Reel) error
	getPostFn       func(context.Context, uint, uint) (*models.Post, error)
	getReelFn       func(context.Context, uint, uint) (*models.Reel, error)
	getReelBySlugFn func(context.Context, string, uint) (*models.Reel, error)
	listPostsFn     func(context.Context, int, int, uint) ([]*models.Post, error)
	listReelsFn     func(context.Context, int, int, uint) ([]*models.Reel, error)
	listCommentsFn  func(context.Context, models.ContentType, uint, int, int) ([]*models.Comment, error)
	loadStateFn     func(context.Context, models.ContentType, uint) (*repository.Snapshot, error)
	saveStateFn     func(context.Context, *repository.Snapshot) error
	deletePostFn    func(context.Context, uint) error
	deleteReelFn    func(context.Context, uint) error
}

func (s *contentRepoStub) CreatePost(ctx context.Context, post *models.Post) error {
	return s.createPostFn(ctx, post)
}
func (s *contentRepoStub) CreateReel(ctx context.Context, reel *models.Reel) error {
	return s.createReelFn(ctx, reel)
}
func (s *contentRepoStub) GetPost(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getPostFn(ctx, id, currentUserID)
}
func (s *contentRepoStub) GetReel(ctx context.Context, id, currentUserID uint) (*models.Reel, error) {
	return s.getReelFn(ctx, id, currentUserID)
}
func (s *contentRepoStub) GetReelBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Reel, error) {
	return s.getReelBySlugFn(ctx, slug, currentUserID)
}
func (s *contentRepoStub) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listPostsFn(ctx, limit, offset, currentUserID)
}
func (s *contentRepoStub) ListReels(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Reel, error) {
	return s.listReelsFn(ctx, limit, offset, currentUserID)
}
func (s *contentRepoStub) ListComments(ctx context.Context, t models.ContentType, id uint, limit, offset int) ([]*models.Comment, error) {
	return s.listCommentsFn(ctx, t, id, limit, offset)
}
func (s *contentRepoStub) LoadState(ctx context.Context, t models.ContentType, id uint) (*repository.Snapshot, error) {
	return s.loadStateFn(ctx, t, id)
}
func (s *contentRepoStub) SaveState(ctx context.Context, snap *repository.Snapshot) error {
	return s.saveStateFn(ctx, snap)
}
func (s *contentRepoStub) DeletePost(ctx context.Context, id uint) error {
	return s.deletePostFn(ctx, id)
}
func (s *contentRepoStub) DeleteReel(ctx context.Context, id uint) error {
	return s.deleteReelFn(ctx, id)
}

func noopContentRepo() *contentRepoStub {
	return &contentRepoStub{
		createPostFn:    func(_ context.Context, _ *models.Post) error { return nil },
		createReelFn:    func(_ context.Context, _ *models.Reel) error { return nil },
		getPostFn:       func(_ context.Context, _, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getReelFn:       func(_ context.Context, _, _ uint) (*models.Reel, error) { return &models.Reel{}, nil },
		getReelBySlugFn: func(_ context.Context, _ string, _ uint) (*models.Reel, error) { return &models.Reel{}, nil },
		listPostsFn:     func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listReelsFn:     func(_ context.Context, _, _ int, _ uint) ([]*models.Reel, error) { return nil, nil },
		listCommentsFn: func(_ context.Context, _ models.ContentType, _ uint, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		loadStateFn: func(_ context.Context, t models.ContentType, id uint) (*repository.Snapshot, error) {
			return &repository.Snapshot{Type: t, ID: id, OwnerID: 1}, nil
		},
		saveStateFn:  func(_ context.Context, _ *repository.Snapshot) error { return nil },
		deletePostFn: func(_ context.Context, _ uint) error { return nil },
		deleteReelFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// notifierStub records published events.
type notifierStub struct {
	events []EngagementEvent
}

func (n *notifierStub) PublishEngagement(_ context.Context, event EngagementEvent) {
	n.events = append(n.events, event)
}

func TestToggleLikeAddsMembershipAndPersists(t *testing.T) {
	repo := noopContentRepo()
	var saved *repository.Snapshot
	repo.saveStateFn = func(_ context.Context, snap *repository.Snapshot) error {
		saved = snap
		return nil
	}
	notifier := &notifierStub{}
	svc := NewEngagementService(repo, notifier)

	out, err := svc.Toggle(context.Background(), ToggleInput{
		UserID:      7,
		ContentType: models.ContentTypePost,
		ContentID:   1,
		Kind:        models.InteractionLike,
	})
	require.NoError(t, err)

	assert.True(t, out.Active)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 1, out.Analytics.TotalLikes)

	require.NotNil(t, saved)
	assert.True(t, engagement.Contains(saved.State.Likes, 7))

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "like", notifier.events[0].Kind)
	assert.True(t, notifier.events[0].Active)
}

func TestToggleTwiceRemovesMembership(t *testing.T) {
	repo := noopContentRepo()
	// Persist across calls so the second toggle sees the first one's state.
	var stored repository.Snapshot
	repo.loadStateFn = func(_ context.Context, t models.ContentType, id uint) (*repository.Snapshot, error) {
		snap := stored
		snap.Type = t
		snap.ID = id
		return &snap, nil
	}
	repo.saveStateFn = func(_ context.Context, snap *repository.Snapshot) error {
		stored = *snap
		return nil
	}
	svc := NewEngagementService(repo, nil)

	in := ToggleInput{UserID: 7, ContentType: models.ContentTypePost, ContentID: 1, Kind: models.InteractionSave}

	first, err := svc.Toggle(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, first.Active)
	assert.Equal(t, 1, first.Count)

	second, err := svc.Toggle(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, second.Active)
	assert.Equal(t, 0, second.Count)
	assert.Equal(t, 0, second.Analytics.TotalSaves)
}

func TestToggleRepostOnReelIsRejected(t *testing.T) {
	svc := NewEngagementService(noopContentRepo(), nil)

	_, err := svc.Toggle(context.Background(), ToggleInput{
		UserID:      7,
		ContentType: models.ContentTypeReel,
		ContentID:   1,
		Kind:        models.InteractionRepost,
	})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestToggleRequiresAuthentication(t *testing.T) {
	svc := NewEngagementService(noopContentRepo(), nil)

	_, err := svc.Toggle(context.Background(), ToggleInput{
		ContentType: models.ContentTypePost,
		ContentID:   1,
		Kind:        models.InteractionLike,
	})
	assertAppErrorCode(t, err, "AUTHENTICATION_REQUIRED")

	_, err = svc.AddComment(context.Background(), CommentInput{
		ContentType: models.ContentTypePost,
		ContentID:   1,
		Content:     "nice",
	})
	assertAppErrorCode(t, err, "AUTHENTICATION_REQUIRED")
}

func TestToggleMissingContent(t *testing.T) {
	repo := noopContentRepo()
	repo.loadStateFn = func(_ context.Context, _ models.ContentType, id uint) (*repository.Snapshot, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewEngagementService(repo, nil)

	_, err := svc.Toggle(context.Background(), ToggleInput{
		UserID:      7,
		ContentType: models.ContentTypePost,
		ContentID:   99,
		Kind:        models.InteractionLike,
	})
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestAddCommentAssignsPersistedID(t *testing.T) {
	repo := noopContentRepo()
	repo.saveStateFn = func(_ context.Context, snap *repository.Snapshot) error {
		// The repository assigns IDs to freshly inserted comments.
		for i := range snap.State.Comments {
			if snap.State.Comments[i].ID == 0 {
				snap.State.Comments[i].ID = 42
			}
		}
		return nil
	}
	svc := NewEngagementService(repo, nil)

	out, err := svc.AddComment(context.Background(), CommentInput{
		UserID:      7,
		ContentType: models.ContentTypePost,
		ContentID:   1,
		Content:     "is this still available?",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(42), out.Comment.ID)
	assert.Equal(t, "is this still available?", out.Comment.Content)
	assert.Equal(t, 1, out.Analytics.TotalComments)
}

func TestAddCommentRejectsEmptyContent(t *testing.T) {
	svc := NewEngagementService(noopContentRepo(), nil)

	_, err := svc.AddComment(context.Background(), CommentInput{
		UserID:      7,
		ContentType: models.ContentTypePost,
		ContentID:   1,
	})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestRecordViewUpdatesAnalytics(t *testing.T) {
	repo := noopContentRepo()
	var saved *repository.Snapshot
	repo.saveStateFn = func(_ context.Context, snap *repository.Snapshot) error {
		saved = snap
		return nil
	}
	svc := NewEngagementService(repo, nil)

	out, err := svc.RecordView(context.Background(), ViewInput{
		ContentType:  models.ContentTypeReel,
		ContentID:    1,
		WatchSeconds: 12.5,
	})
	require.NoError(t, err)

	assert.True(t, out.Counted)
	assert.Equal(t, 1, out.Analytics.TotalViews)
	assert.InDelta(t, 12.5, out.Analytics.AverageWatchTime, 1e-9)
	require.NotNil(t, saved)
}

func TestRecordViewReleasesDedupeKeyOnFailedSave(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	repo := noopContentRepo()
	repo.saveStateFn = func(_ context.Context, _ *repository.Snapshot) error {
		return errors.New("connection reset")
	}
	svc := NewEngagementService(repo, nil)

	in := ViewInput{UserID: 7, ContentType: models.ContentTypeReel, ContentID: 1, WatchSeconds: 3}
	_, err := svc.RecordView(context.Background(), in)
	require.Error(t, err)

	// The failed view must not burn the dedupe window.
	repo.saveStateFn = func(_ context.Context, _ *repository.Snapshot) error { return nil }
	out, err := svc.RecordView(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, out.Counted)

	// A persisted view still dedupes the next one.
	out, err = svc.RecordView(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, out.Counted)
}

func TestRecordShareOnReel(t *testing.T) {
	svc := NewEngagementService(noopContentRepo(), nil)

	out, err := svc.RecordShare(context.Background(), models.ContentTypeReel, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Shares)
}

func TestRecordShareOnPostIsRejected(t *testing.T) {
	svc := NewEngagementService(noopContentRepo(), nil)

	_, err := svc.RecordShare(context.Background(), models.ContentTypePost, 1, 7)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestAnalyticsIsOwnerGated(t *testing.T) {
	repo := noopContentRepo()
	repo.loadStateFn = func(_ context.Context, t models.ContentType, id uint) (*repository.Snapshot, error) {
		snap := &repository.Snapshot{Type: t, ID: id, OwnerID: 3}
		snap.State.Analytics.TotalViews = 250
		return snap, nil
	}
	svc := NewEngagementService(repo, nil)

	a, err := svc.Analytics(context.Background(), models.ContentTypeReel, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 250, a.TotalViews)

	_, err = svc.Analytics(context.Background(), models.ContentTypeReel, 1, 4)
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}
