package repository

import (
	"context"
	"testing"
	"time"

	"quadside/internal/engagement"
	"quadside/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gdb, mock
}

func TestLoadStateAssemblesSnapshot(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewContentRepository(gdb)

	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "analytics_total_views", "analytics_total_likes",
			"analytics_total_comments", "analytics_engagement_rate",
		}).AddRow(7, 3, 100, 2, 1, 3.0))

	mock.ExpectQuery(`SELECT .* FROM "interactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content_type", "content_id", "kind", "created_at"}).
			AddRow(1, 11, "post", 7, "like", created).
			AddRow(2, 12, "post", 7, "like", created).
			AddRow(3, 11, "post", 7, "save", created))

	mock.ExpectQuery(`SELECT .* FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "user_id", "content_type", "content_id", "created_at"}).
			AddRow(5, "nice find", 12, "post", 7, created))

	snap, err := repo.LoadState(context.Background(), models.ContentTypePost, 7)
	require.NoError(t, err)

	assert.Equal(t, models.ContentTypePost, snap.Type)
	assert.Equal(t, uint(7), snap.ID)
	assert.Equal(t, uint(3), snap.OwnerID)
	assert.Len(t, snap.State.Likes, 2)
	assert.Len(t, snap.State.Saves, 1)
	assert.Empty(t, snap.State.Reposts)
	require.Len(t, snap.State.Comments, 1)
	assert.Equal(t, "nice find", snap.State.Comments[0].Content)
	assert.Equal(t, 100, snap.State.Analytics.TotalViews)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadStateNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewContentRepository(gdb)

	mock.ExpectQuery(`SELECT .* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.LoadState(context.Background(), models.ContentTypePost, 99)
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestInteractionRowsExpandSets(t *testing.T) {
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	snap := &Snapshot{
		Type: models.ContentTypePost,
		ID:   7,
		State: engagement.State{
			Likes:   []engagement.Entry{{UserID: 1, CreatedAt: created}, {UserID: 2, CreatedAt: created}},
			Saves:   []engagement.Entry{{UserID: 1, CreatedAt: created}},
			Reposts: []engagement.Entry{{UserID: 3, CreatedAt: created}},
		},
	}

	rows := interactionRows(snap)
	require.Len(t, rows, 4)

	kinds := map[models.InteractionKind]int{}
	for _, row := range rows {
		assert.Equal(t, models.ContentTypePost, row.ContentType)
		assert.Equal(t, uint(7), row.ContentID)
		kinds[row.Kind]++
	}
	assert.Equal(t, 2, kinds[models.InteractionLike])
	assert.Equal(t, 1, kinds[models.InteractionSave])
	assert.Equal(t, 1, kinds[models.InteractionRepost])
}

func TestSaveStateRewritesInteractionsAndAnalytics(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewContentRepository(gdb)

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	snap := &Snapshot{
		Type: models.ContentTypePost,
		ID:   7,
		State: engagement.State{
			Likes: []engagement.Entry{{UserID: 11, CreatedAt: now}},
			Comments: []engagement.Comment{
				{UserID: 12, Content: "still available?", CreatedAt: now},
			},
			Analytics: models.Analytics{
				TotalViews: 100, TotalLikes: 1, TotalComments: 1,
				EngagementRate: 2.0, LastUpdated: now,
			},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "interactions"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO "interactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(`UPDATE "posts"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveState(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, uint(42), snap.State.Comments[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
