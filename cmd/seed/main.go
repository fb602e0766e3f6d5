// Command main runs the database seeder for Quadside.
package main

import (
	"flag"
	"log"

	"quadside/internal/config"
	"quadside/internal/database"
	"quadside/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numListings := flag.Int("listings", 120, "Number of marketplace listings to create")
	numPosts := flag.Int("posts", 200, "Number of feed posts to create")
	numReels := flag.Int("reels", 60, "Number of reels to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (faster local seeding)")
	flag.Parse()

	_ = godotenv.Load()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d listings, %d posts, %d reels, clean=%v\n",
		*numUsers, *numListings, *numPosts, *numReels, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:    *numUsers,
		NumListings: *numListings,
		NumPosts:    *numPosts,
		NumReels:    *numReels,
		SkipBcrypt:  *skipBcrypt,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if err := s.Seed(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
