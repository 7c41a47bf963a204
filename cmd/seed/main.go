// Command main runs the database seeder for Warbler.
package main

import (
	"flag"
	"log"

	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numMessages := flag.Int("messages", 200, "Number of messages to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	maxDays := flag.Int("max-days", 90, "Spread message timestamps over the past N days")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d messages, clean=%v\n", *numUsers, *numMessages, *shouldClean)

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
		NumMessages: *numMessages,
		ShouldClean: *shouldClean,
		MaxDays:     *maxDays,
	})
	if err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Printf("All test users have the password: %s", seed.SeedPassword)
}
