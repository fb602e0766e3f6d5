// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"quadside/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	campuses = []string{
		"North Quad", "South Quad", "East Campus", "West Campus",
		"Riverside", "Hilltop", "Downtown", "Lakeshore",
	}

	categories = []string{
		"textbooks", "furniture", "electronics", "clothing",
		"tickets", "bikes", "dorm", "other",
	}

	conditions = []string{"new", "like_new", "good", "fair"}
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumListings int
	NumPosts    int
	NumReels    int
	ShouldClean bool
	// DryRun builds entities without persisting them.
	DryRun bool
	// SkipBcrypt stores plaintext passwords for faster local seeding.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// backdate returns a timestamp spread over the configured seeding window.
func (f *Factory) backdate() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

func (f *Factory) randomCampus() string {
	return campuses[f.rng.Intn(len(campuses))]
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Campus:   f.randomCampus(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProduct constructs and persists a marketplace listing for the user.
func (f *Factory) CreateProduct(user *models.User, overrides ...func(*models.Product)) (*models.Product, error) {
	product := &models.Product{
		Title:       gofakeit.ProductName(),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		PriceCents:  gofakeit.Number(200, 45000),
		Category:    categories[f.rng.Intn(len(categories))],
		Condition:   conditions[f.rng.Intn(len(conditions))],
		Campus:      user.Campus,
		PhotoURLs: []string{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		},
		UserID:    user.ID,
		CreatedAt: f.backdate(),
	}

	for _, override := range overrides {
		override(product)
	}

	if f.opts.DryRun {
		f.nextID++
		product.ID = f.nextID
		log.Printf("[dry-run] CreateProduct: %q %d cents user=%d", product.Title, product.PriceCents, product.UserID)
		return product, nil
	}

	if err := f.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// CreatePost constructs and persists a feed post for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Content:   gofakeit.Paragraph(1, 3, 6, "\n"),
		UserID:    user.ID,
		CreatedAt: f.backdate(),
	}
	if f.rng.Float32() < 0.4 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(post)
	}

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: user=%d len=%d", post.UserID, len(post.Content))
		return post, nil
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateReel constructs and persists a reel for the given user.
func (f *Factory) CreateReel(user *models.User, overrides ...func(*models.Reel)) (*models.Reel, error) {
	id := gofakeit.UUID()
	reel := &models.Reel{
		ShareSlug:       uuid.NewString(),
		Caption:         gofakeit.Sentence(12),
		VideoURL:        fmt.Sprintf("https://cdn.quadside.test/reels/%s.mp4", id),
		ThumbnailURL:    fmt.Sprintf("https://cdn.quadside.test/reels/%s.jpg", id),
		DurationSeconds: float64(gofakeit.Number(5, 90)),
		UserID:          user.ID,
		CreatedAt:       f.backdate(),
	}

	for _, override := range overrides {
		override(reel)
	}

	if f.opts.DryRun {
		f.nextID++
		reel.ID = f.nextID
		log.Printf("[dry-run] CreateReel: user=%d slug=%s", reel.UserID, reel.ShareSlug)
		return reel, nil
	}

	if err := f.db.Create(reel).Error; err != nil {
		return nil, err
	}
	return reel, nil
}

// CreateComment persists a comment from `user` on the given content item.
func (f *Factory) CreateComment(user *models.User, t models.ContentType, contentID uint, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:     gofakeit.Sentence(8),
		UserID:      user.ID,
		ContentType: t,
		ContentID:   contentID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateInteraction persists one interaction (like, save, repost) from `user`
// on the given content item. Duplicate (user, content, kind) rows violate the
// unique index, so callers should not repeat combinations.
func (f *Factory) CreateInteraction(user *models.User, t models.ContentType, contentID uint, kind models.InteractionKind) error {
	if f.opts.DryRun {
		return nil
	}
	interaction := &models.Interaction{
		UserID:      user.ID,
		ContentType: t,
		ContentID:   contentID,
		Kind:        kind,
	}
	return f.db.Create(interaction).Error
}
