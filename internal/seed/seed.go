package seed

import (
	"fmt"
	"log"
	"math/rand"

	"quadside/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE messages, conversations, interactions, comments, reels, posts, products, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Seed populates the database according to the configured options.
func (s *Seeder) Seed() error {
	log.Printf("🌱 Seeding %d users, %d listings, %d posts, %d reels...",
		s.opts.NumUsers, s.opts.NumListings, s.opts.NumPosts, s.opts.NumReels)

	users, err := s.SeedUsers(s.opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	products, err := s.SeedMarketplace(users, s.opts.NumListings)
	if err != nil {
		return fmt.Errorf("failed to create listings: %w", err)
	}
	log.Printf("✓ %d listings created", len(products))

	posts, reels, err := s.SeedFeed(users, s.opts.NumPosts, s.opts.NumReels)
	if err != nil {
		return fmt.Errorf("failed to create feed content: %w", err)
	}
	log.Printf("✓ %d posts and %d reels created", len(posts), len(reels))

	if err := s.SeedEngagement(users, posts, reels); err != nil {
		return fmt.Errorf("failed to seed engagement: %w", err)
	}
	log.Println("✓ engagement seeded and counters reconciled")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// SeedUsers creates count users. The first few are predictable accounts for
// local development.
func (s *Seeder) SeedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	if count >= 3 {
		for i, name := range []string{"quinn", "sam", "test"} {
			campus := campuses[i%len(campuses)]
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.Campus = campus
				u.Bio = "One of the originals."
			})
			if err != nil {
				return nil, err
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// SeedMarketplace creates count listings spread across the users. Roughly a
// fifth of listings are marked sold.
func (s *Seeder) SeedMarketplace(users []*models.User, count int) ([]*models.Product, error) {
	products := make([]*models.Product, 0, count)
	rng := s.factory.rng

	for i := 0; i < count; i++ {
		user := users[rng.Intn(len(users))]
		product, err := s.factory.CreateProduct(user, func(p *models.Product) {
			p.Sold = rng.Float32() < 0.2
		})
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// SeedFeed creates posts and reels spread across the users.
func (s *Seeder) SeedFeed(users []*models.User, numPosts, numReels int) ([]*models.Post, []*models.Reel, error) {
	rng := s.factory.rng

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		post, err := s.factory.CreatePost(users[rng.Intn(len(users))])
		if err != nil {
			return nil, nil, err
		}
		posts = append(posts, post)
	}

	reels := make([]*models.Reel, 0, numReels)
	for i := 0; i < numReels; i++ {
		reel, err := s.factory.CreateReel(users[rng.Intn(len(users))])
		if err != nil {
			return nil, nil, err
		}
		reels = append(reels, reel)
	}

	return posts, reels, nil
}

// SeedEngagement sprinkles likes, saves, reposts, comments and view counts
// over the feed content, then reconciles the denormalized analytics columns
// so counters match the underlying interaction rows.
func (s *Seeder) SeedEngagement(users []*models.User, posts []*models.Post, reels []*models.Reel) error {
	rng := s.factory.rng

	for _, post := range posts {
		actors := pickUsers(rng, users, rng.Intn(len(users)/2+1))
		for _, actor := range actors {
			if err := s.factory.CreateInteraction(actor, models.ContentTypePost, post.ID, models.InteractionLike); err != nil {
				return err
			}
			if rng.Float32() < 0.3 {
				if err := s.factory.CreateInteraction(actor, models.ContentTypePost, post.ID, models.InteractionSave); err != nil {
					return err
				}
			}
			if rng.Float32() < 0.1 {
				if err := s.factory.CreateInteraction(actor, models.ContentTypePost, post.ID, models.InteractionRepost); err != nil {
					return err
				}
			}
			if rng.Float32() < 0.25 {
				if _, err := s.factory.CreateComment(actor, models.ContentTypePost, post.ID); err != nil {
					return err
				}
			}
		}
		views := len(actors)*3 + rng.Intn(50)
		if err := s.reconcile(models.ContentTypePost, post.ID, views, 0); err != nil {
			return err
		}
	}

	for _, reel := range reels {
		actors := pickUsers(rng, users, rng.Intn(len(users)/2+1))
		for _, actor := range actors {
			if err := s.factory.CreateInteraction(actor, models.ContentTypeReel, reel.ID, models.InteractionLike); err != nil {
				return err
			}
			if rng.Float32() < 0.4 {
				if err := s.factory.CreateInteraction(actor, models.ContentTypeReel, reel.ID, models.InteractionSave); err != nil {
					return err
				}
			}
			if rng.Float32() < 0.2 {
				if _, err := s.factory.CreateComment(actor, models.ContentTypeReel, reel.ID); err != nil {
					return err
				}
			}
		}
		views := len(actors)*5 + rng.Intn(200)
		avgWatch := reel.DurationSeconds * (0.3 + rng.Float64()*0.6)
		if err := s.reconcile(models.ContentTypeReel, reel.ID, views, avgWatch); err != nil {
			return err
		}
	}

	return nil
}

// reconcile recomputes the analytics columns for one content item from the
// interaction and comment tables.
func (s *Seeder) reconcile(t models.ContentType, id uint, views int, avgWatch float64) error {
	if s.opts.DryRun {
		return nil
	}

	counts := map[models.InteractionKind]int64{}
	for _, kind := range []models.InteractionKind{models.InteractionLike, models.InteractionSave, models.InteractionRepost} {
		var n int64
		if err := s.db.Model(&models.Interaction{}).
			Where("content_type = ? AND content_id = ? AND kind = ?", t, id, kind).
			Count(&n).Error; err != nil {
			return err
		}
		counts[kind] = n
	}

	var comments int64
	if err := s.db.Model(&models.Comment{}).
		Where("content_type = ? AND content_id = ?", t, id).
		Count(&comments).Error; err != nil {
		return err
	}

	var rate float64
	if views > 0 {
		engaged := counts[models.InteractionLike] + counts[models.InteractionSave] +
			counts[models.InteractionRepost] + comments
		rate = float64(engaged) / float64(views) * 100
	}

	table := "posts"
	if t == models.ContentTypeReel {
		table = "reels"
	}
	return s.db.Table(table).Where("id = ?", id).Updates(map[string]interface{}{
		"analytics_total_views":        views,
		"analytics_total_likes":        counts[models.InteractionLike],
		"analytics_total_saves":        counts[models.InteractionSave],
		"analytics_total_reposts":      counts[models.InteractionRepost],
		"analytics_total_comments":     comments,
		"analytics_average_watch_time": avgWatch,
		"analytics_engagement_rate":    rate,
	}).Error
}

// pickUsers returns up to n distinct users chosen at random.
func pickUsers(rng *rand.Rand, users []*models.User, n int) []*models.User {
	if n > len(users) {
		n = len(users)
	}
	perm := rng.Perm(len(users))
	out := make([]*models.User, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, users[idx])
	}
	return out
}
