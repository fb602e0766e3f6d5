package seed

import (
	"math/rand"
	"testing"
	"time"

	"quadside/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dryRunFactory(t *testing.T) *Factory {
	t.Helper()
	return NewFactory(nil, Options{DryRun: true, SkipBcrypt: true})
}

func TestCreateUser_DryRun(t *testing.T) {
	f := dryRunFactory(t)

	user, err := f.CreateUser()
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.Username)
	assert.NotEmpty(t, user.Email)
	assert.Contains(t, campuses, user.Campus)
	assert.Equal(t, "password123", user.Password)
}

func TestCreateUser_Overrides(t *testing.T) {
	f := dryRunFactory(t)

	user, err := f.CreateUser(func(u *models.User) {
		u.Username = "quinn"
		u.Campus = "North Quad"
	})
	require.NoError(t, err)

	assert.Equal(t, "quinn", user.Username)
	assert.Equal(t, "North Quad", user.Campus)
}

func TestCreateProduct_DryRun(t *testing.T) {
	f := dryRunFactory(t)

	user, err := f.CreateUser()
	require.NoError(t, err)

	product, err := f.CreateProduct(user)
	require.NoError(t, err)

	assert.NotZero(t, product.ID)
	assert.Equal(t, user.ID, product.UserID)
	assert.Equal(t, user.Campus, product.Campus)
	assert.Contains(t, categories, product.Category)
	assert.Contains(t, conditions, product.Condition)
	assert.GreaterOrEqual(t, product.PriceCents, 200)
	assert.LessOrEqual(t, product.PriceCents, 45000)
	assert.NotEmpty(t, product.PhotoURLs)
}

func TestCreateReel_DryRun(t *testing.T) {
	f := dryRunFactory(t)

	user, err := f.CreateUser()
	require.NoError(t, err)

	reel, err := f.CreateReel(user)
	require.NoError(t, err)

	assert.NotEmpty(t, reel.ShareSlug)
	assert.NotEmpty(t, reel.VideoURL)
	assert.GreaterOrEqual(t, reel.DurationSeconds, 5.0)
	assert.LessOrEqual(t, reel.DurationSeconds, 90.0)
}

func TestCreateReel_UniqueSlugs(t *testing.T) {
	f := dryRunFactory(t)

	user, err := f.CreateUser()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		reel, reelErr := f.CreateReel(user)
		require.NoError(t, reelErr)
		assert.False(t, seen[reel.ShareSlug], "duplicate share slug %q", reel.ShareSlug)
		seen[reel.ShareSlug] = true
	}
}

func TestBackdate_WithinWindow(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, MaxDays: 7})

	user, err := f.CreateUser()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		post, postErr := f.CreatePost(user)
		require.NoError(t, postErr)
		age := time.Since(post.CreatedAt)
		assert.Less(t, age.Hours(), float64(8*24), "created_at outside seeding window")
	}
}

func TestPickUsers(t *testing.T) {
	users := make([]*models.User, 10)
	for i := range users {
		users[i] = &models.User{ID: uint(i + 1)}
	}
	rng := rand.New(rand.NewSource(1))

	picked := pickUsers(rng, users, 4)
	require.Len(t, picked, 4)

	seen := make(map[uint]bool)
	for _, u := range picked {
		assert.False(t, seen[u.ID], "picked the same user twice")
		seen[u.ID] = true
	}

	// Requesting more than available caps at the pool size.
	all := pickUsers(rng, users, 100)
	assert.Len(t, all, 10)
}
