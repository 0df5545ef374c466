// Command main runs the database seeder for Clipstream.
package main

import (
	"flag"
	"log"

	"clipstream/internal/config"
	"clipstream/internal/database"
	"clipstream/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numVideos := flag.Int("videos", 200, "Number of videos to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d videos, clean=%v\n", *numUsers, *numVideos, *shouldClean)

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
		NumVideos:   *numVideos,
		ShouldClean: *shouldClean,
	})
	if err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
