package seed

import (
	"fmt"
	"log"

	"warbler/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// SeedPassword is the plaintext password every seeded account shares.
const SeedPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumMessages int
	ShouldClean bool
	// SkipBcrypt stores the plaintext password instead of hashing it.
	// Only useful to speed up large dev seeds; such accounts cannot log in.
	SkipBcrypt bool
	// MaxDays spreads generated message timestamps over the past N days.
	MaxDays int
}

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

// Run seeds users, messages and a social mesh of follow/like edges.
func (s *Seeder) Run() error {
	log.Printf("Starting database seeding with %d users and %d messages...",
		s.opts.NumUsers, s.opts.NumMessages)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := s.seedUsers()
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	messages, err := s.seedMessages(users)
	if err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}
	log.Printf("✓ %d messages created", len(messages))

	follows, likes, err := s.seedSocialMesh(users, messages)
	if err != nil {
		return fmt.Errorf("failed to create social mesh: %w", err)
	}
	log.Printf("✓ %d follows and %d likes created", follows, likes)

	log.Println("Database seeding completed successfully")
	return nil
}

// ClearAll removes all seeded data. Postgres-only: relies on TRUNCATE CASCADE.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE likes, follows, messages, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// seedUsers creates a few well-known accounts plus generated ones. The
// well-known accounts always have the shared password hashed so they can
// log in regardless of SkipBcrypt.
func (s *Seeder) seedUsers() ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)

	if s.opts.NumUsers >= 2 {
		for _, name := range []string{"tuckerdiane", "testuser"} {
			name := name
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
			})
			if err != nil {
				// Likely a re-run without clean; keep going.
				log.Printf("skipping base user %s: %v", name, err)
				continue
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func (s *Seeder) seedMessages(users []*models.User) ([]*models.Message, error) {
	if len(users) == 0 {
		return nil, nil
	}

	messages := make([]*models.Message, 0, s.opts.NumMessages)
	for i := 0; i < s.opts.NumMessages; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]
		message, err := s.factory.CreateMessage(author)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d messages...", i)
		}
	}
	return messages, nil
}

// seedSocialMesh gives every user a handful of follows and likes. Edge
// uniqueness violations from random collisions are skipped, not fatal.
func (s *Seeder) seedSocialMesh(users []*models.User, messages []*models.Message) (int, int, error) {
	if len(users) < 2 {
		return 0, 0, nil
	}

	follows := 0
	for _, user := range users {
		target := gofakeit.Number(1, min(8, len(users)-1))
		for i := 0; i < target; i++ {
			other := users[gofakeit.Number(0, len(users)-1)]
			if other.ID == user.ID {
				continue
			}
			if err := s.factory.CreateFollow(user, other); err != nil {
				continue
			}
			follows++
		}
	}

	likes := 0
	if len(messages) > 0 {
		for _, user := range users {
			target := gofakeit.Number(0, min(10, len(messages)))
			for i := 0; i < target; i++ {
				message := messages[gofakeit.Number(0, len(messages)-1)]
				if message.UserID == user.ID {
					continue
				}
				if err := s.factory.CreateLike(user, message); err != nil {
					continue
				}
				likes++
			}
		}
	}

	return follows, likes, nil
}
