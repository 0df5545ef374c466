// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"clipstream/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumVideos   int
	ShouldClean bool
	// MaxDays spreads video timestamps back in time for a realistic feed.
	MaxDays int
}

// Seeder populates the database with generated users, videos, and likes.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
	opts Options
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		opts: opts,
	}
}

// Run executes the full seeding pass.
func (s *Seeder) Run() error {
	log.Printf("Starting database seeding with %d users and %d videos...", s.opts.NumUsers, s.opts.NumVideos)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := s.CreateUsers(s.opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	videos, err := s.CreateVideos(users, s.opts.NumVideos)
	if err != nil {
		return fmt.Errorf("failed to create videos: %w", err)
	}
	log.Printf("%d videos created", len(videos))

	if err := s.CreateLikes(users, videos); err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Println("likes created")

	return nil
}

// ClearAll removes all seeded rows. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	for _, stmt := range []string{
		"DELETE FROM likes",
		"DELETE FROM videos",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateUsers inserts n users. All share the password "password123".
func (s *Seeder) CreateUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		users = append(users, &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d_%s", i, gofakeit.Email()),
			Password: string(hashed),
			Name:     name,
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/300?u=%s", gofakeit.UUID()),
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreateVideos inserts n videos spread across users with realistic
// created_at scatter so feed pages look organic.
func (s *Seeder) CreateVideos(users []*models.User, n int) ([]*models.Video, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to own videos")
	}

	videos := make([]*models.Video, 0, n)
	for i := 0; i < n; i++ {
		owner := users[s.rand.Intn(len(users))]
		duration := 5 + s.rand.Float64()*115 // 5s to 2min clips
		key := gofakeit.UUID()

		daysBack := s.rand.Intn(s.opts.MaxDays)
		hoursBack := s.rand.Intn(24)
		minsBack := s.rand.Intn(60)
		createdAt := time.Now().
			Add(-time.Duration(daysBack)*24*time.Hour -
				time.Duration(hoursBack)*time.Hour -
				time.Duration(minsBack)*time.Minute)

		videos = append(videos, &models.Video{
			UserID:       owner.ID,
			URL:          fmt.Sprintf("/media/%s.mp4", key),
			Title:        gofakeit.Sentence(4),
			Description:  gofakeit.Paragraph(1, 2, 8, "\n"),
			ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/720/1280", key),
			Duration:     &duration,
			CreatedAt:    createdAt,
		})
	}
	if err := s.db.Create(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// CreateLikes gives each video a random set of likers and writes a matching
// like_count, so seeded data holds the same counter consistency the ledger
// maintains at runtime.
func (s *Seeder) CreateLikes(users []*models.User, videos []*models.Video) error {
	var likes []*models.Like
	counts := make(map[uint]int, len(videos))

	for _, video := range videos {
		numLikes := s.rand.Intn(len(users) + 1)
		perm := s.rand.Perm(len(users))
		for _, idx := range perm[:numLikes] {
			likes = append(likes, &models.Like{
				UserID:  users[idx].ID,
				VideoID: video.ID,
			})
			counts[video.ID]++
		}
	}

	if len(likes) > 0 {
		if err := s.db.CreateInBatches(&likes, 500).Error; err != nil {
			return err
		}
	}

	for videoID, count := range counts {
		if err := s.db.Model(&models.Video{}).
			Where("id = ?", videoID).
			UpdateColumn("like_count", count).Error; err != nil {
			return err
		}
	}
	return nil
}
