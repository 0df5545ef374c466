package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clipstream/internal/config"
	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupHandlerTestDB opens an in-memory database on a single connection so
// handler tests behave deterministically under sqlite.
func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Video{}, &models.Like{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:            "test-secret",
		Port:                 "0",
		Env:                  "test",
		MediaDir:             t.TempDir(),
		MediaBaseURL:         "/media",
		MaxVideoUploadMB:     20,
		MaxThumbnailUploadMB: 5,
	}
	srv, err := NewServerWithDeps(cfg, setupHandlerTestDB(t), nil)
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	return srv
}

// newTestApp returns a Fiber app that injects the given user into Locals,
// mimicking AuthRequired.
func newTestApp(userID uint) *fiber.App {
	app := fiber.New()
	if userID != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", userID)
			return c.Next()
		})
	}
	return app
}

func createServerTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "pw"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createServerTestVideo(t *testing.T, db *gorm.DB, ownerID uint) *models.Video {
	t.Helper()
	video := &models.Video{UserID: ownerID, URL: "/media/test.mp4", Title: "test clip"}
	if err := db.Create(video).Error; err != nil {
		t.Fatalf("create video: %v", err)
	}
	return video
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	user := createServerTestUser(t, s.db, "authuser")

	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})

	// No token
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	// Garbage token
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", resp.StatusCode)
	}

	// Valid token
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", resp.StatusCode)
	}
}

func TestOptionalUserID(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	user := createServerTestUser(t, s.db, "optuser")
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	app := fiber.New()
	app.Get("/maybe", func(c *fiber.Ctx) error {
		id, ok := s.optionalUserID(c)
		return c.JSON(fiber.Map{"id": id, "ok": ok})
	})

	tests := []struct {
		name   string
		header string
		wantID float64
		wantOK bool
	}{
		{"No Header", "", 0, false},
		{"Malformed", "Bearer", 0, false},
		{"Bad Token", "Bearer junk", 0, false},
		{"Valid", "Bearer " + token, float64(user.ID), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			var body map[string]any
			decodeJSONBody(t, resp, &body)
			if body["ok"] != tt.wantOK || body["id"] != tt.wantID {
				t.Fatalf("got id=%v ok=%v, want id=%v ok=%v", body["id"], body["ok"], tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestLivenessCheck(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	app := fiber.New()
	app.Get("/health/live", s.LivenessCheck)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

// Readiness without Redis reports degraded state.
func TestReadinessCheckWithoutRedis(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	app := fiber.New()
	app.Get("/health/ready", s.ReadinessCheck)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without redis, got %d", resp.StatusCode)
	}
}
